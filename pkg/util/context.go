package util

import (
	"github.com/gin-gonic/gin"
)

const (
	ctxKeyUserID = "currentUserID"
	ctxKeyEmail  = "currentUserEmail"
	ctxKeyRole   = "currentUserRole"
)

// SetCurrentUser stores the authenticated caller's identity on the request
// context for downstream handlers.
func SetCurrentUser(c *gin.Context, userID uint, email, role string) {
	c.Set(ctxKeyUserID, userID)
	c.Set(ctxKeyEmail, email)
	c.Set(ctxKeyRole, role)
}

// GetUserID extracts the authenticated user's id from the request context.
func GetUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ctxKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// GetUserIDPtr returns the caller's id or nil when the request is anonymous.
func GetUserIDPtr(c *gin.Context) *uint {
	if id, ok := GetUserID(c); ok {
		return &id
	}
	return nil
}

// GetRole extracts the authenticated user's role from the request context.
func GetRole(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyRole)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
