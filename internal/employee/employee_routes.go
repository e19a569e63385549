package employee

import (
	"go-ems/internal/middleware"
	"go-ems/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	policy middleware.Decider,
) {
	employees := r.Group("/employees")
	{
		employees.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(policy, rbac.EmployeeList, nil),
			handler.GetAll,
		)

		employees.GET("/count/active",
			middleware.Authorize(policy, rbac.EmployeeList, nil),
			handler.CountActive,
		)

		employees.GET("/department/:departmentId",
			middleware.Authorize(policy, rbac.EmployeeList, nil),
			handler.GetByDepartment,
		)

		employees.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(policy, rbac.EmployeeRead, middleware.EmployeeParam("id")),
			handler.GetByID,
		)

		employees.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(policy, rbac.EmployeeCreate, nil),
			handler.Create,
		)

		employees.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(policy, rbac.EmployeeUpdate, nil),
			handler.Update,
		)

		employees.DELETE("/:id",
			middleware.RateLimitByUser(0.1, 1),
			middleware.Authorize(policy, rbac.EmployeeDelete, nil),
			handler.Delete,
		)
	}
}
