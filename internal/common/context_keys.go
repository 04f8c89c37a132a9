// File: internal/common/context_keys.go
package common

const (
	// UserIDKey is the context key for storing the authenticated user's document id.
	UserIDKey = "userID"
	// GoogleIDKey is the context key for storing the authenticated user's provider id.
	GoogleIDKey = "googleID"
	// AuthenticatedUserKey stores the full user document loaded for the session.
	AuthenticatedUserKey = "authenticatedUser"
)
