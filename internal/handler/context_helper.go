package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nordwerk/shiftplan-api/internal/middleware"
	"github.com/nordwerk/shiftplan-api/internal/service"
)

func claimsFromContext(c *gin.Context) *service.Claims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}
