package dashboard

import (
	"go-ems/internal/middleware"
	"go-ems/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, policy middleware.Decider) {
	r.GET("/dashboard/summary", middleware.Authorize(policy, rbac.DashboardRead, nil), h.Summary)
}
