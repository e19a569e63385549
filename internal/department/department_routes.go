package department

import (
	"go-ems/internal/middleware"
	"go-ems/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects r to already carry AuthMiddleware and
// ContextLogger.
func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	policy middleware.Decider,
) {
	departments := r.Group("/departments")
	{
		departments.GET("", middleware.Authorize(policy, rbac.DepartmentRead, nil), h.GetAll)
		departments.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.Authorize(policy, rbac.DepartmentCreate, nil),
			h.Create,
		)
		departments.GET("/:id", middleware.Authorize(policy, rbac.DepartmentRead, nil), h.GetByID)
		departments.PUT("/:id", middleware.Authorize(policy, rbac.DepartmentUpdate, nil), h.Update)
		departments.DELETE("/:id", middleware.Authorize(policy, rbac.DepartmentDelete, nil), h.Delete)
	}
}
