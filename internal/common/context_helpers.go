// File: internal/common/context_helpers.go
package common

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetUserIDFromContext retrieves the authenticated user's document id from the
// Gin context. Returns primitive.NilObjectID if the request is unauthenticated.
func GetUserIDFromContext(c *gin.Context) primitive.ObjectID {
	val, exists := c.Get(UserIDKey)
	if !exists {
		return primitive.NilObjectID
	}
	id, ok := val.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID
	}
	return id
}

// GetGoogleIDFromContext retrieves the provider id for the current session.
func GetGoogleIDFromContext(c *gin.Context) string {
	val, exists := c.Get(GoogleIDKey)
	if !exists {
		return ""
	}
	id, ok := val.(string)
	if !ok {
		return ""
	}
	return id
}
