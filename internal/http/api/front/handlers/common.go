package handlers

import "github.com/gin-gonic/gin"

// memberID returns the authenticated member's ID set by the JWT middleware,
// or 0 when the request carries no authenticated member.
func memberID(c *gin.Context) uint64 {
	val, exists := c.Get("userID")
	if !exists {
		return 0
	}
	id, ok := val.(uint64)
	if !ok {
		return 0
	}
	return id
}
