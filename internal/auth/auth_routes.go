package auth

import (
	"go-ems/internal/middleware"
	"go-ems/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /auth on an unauthenticated group; authenticate
// guards every route except login.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, policy middleware.Decider, authenticate gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.5, 5), handler.Login)
		auth.GET("/me", authenticate, middleware.RateLimitByUser(2, 5), handler.Me)
		auth.POST("/register",
			authenticate,
			middleware.RateLimitByUser(2, 5),
			middleware.Authorize(policy, rbac.IdentityRegister, nil),
			handler.Register,
		)
	}
}
