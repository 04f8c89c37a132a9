// File: internal/common/pagination.go
package common

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxOffset       = 10_000
)

// OffsetQuery holds offset-based pagination parameters taken from a request.
type OffsetQuery struct {
	Offset int
	Limit  int
}

// GetOffsetParams extracts an offset/limit pair from the Gin context. The
// upstream catalog paginates with a raw offset, so that is the shape exposed
// on the search endpoints as well.
func GetOffsetParams(c *gin.Context, defaultLimit int) OffsetQuery {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageSize
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	if offset > MaxOffset {
		offset = MaxOffset
	}
	return OffsetQuery{Offset: offset, Limit: defaultLimit}
}
