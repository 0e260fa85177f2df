package handler

import (
	"github.com/gin-gonic/gin"

	"lexportal/internal/transport/http/middleware"
)

func getUserIDFromContext(c *gin.Context) (uint, bool) {
	userIDAny, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := userIDAny.(uint)
	return userID, ok
}

func getRoleFromContext(c *gin.Context) string {
	roleAny, exists := c.Get(middleware.ContextRoleKey)
	if !exists {
		return ""
	}
	role, _ := roleAny.(string)
	return role
}
