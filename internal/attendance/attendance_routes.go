package attendance

import (
	"go-ems/internal/middleware"
	"go-ems/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the ledger. rdb backs Idempotency-Key replay on
// mark and may be nil.
func RegisterRoutes(r *gin.RouterGroup, h *Handler, policy middleware.Decider, rdb *redis.Client) {
	attendances := r.Group("/attendance")
	{
		attendances.GET("", middleware.Authorize(policy, rbac.AttendanceList, nil), h.GetAll)
		attendances.GET("/date/:date", middleware.Authorize(policy, rbac.AttendanceList, nil), h.GetByDate)
		attendances.GET("/present-count/:date", middleware.Authorize(policy, rbac.AttendanceList, nil), h.CountPresentByDate)
		attendances.GET("/employee/:employeeId",
			middleware.Authorize(policy, rbac.AttendanceReadEmployee, middleware.EmployeeParam("employeeId")),
			h.GetByEmployee,
		)
		attendances.GET("/employee/:employeeId/range",
			middleware.Authorize(policy, rbac.AttendanceReadEmployee, middleware.EmployeeParam("employeeId")),
			h.GetByEmployeeAndRange,
		)
		attendances.POST("/mark",
			middleware.RateLimitByUser(2, 10),
			middleware.Authorize(policy, rbac.AttendanceMark, nil),
			middleware.Idempotency(rdb),
			h.Mark,
		)
		attendances.DELETE("/:id", middleware.Authorize(policy, rbac.AttendanceDelete, nil), h.Delete)
	}
}
