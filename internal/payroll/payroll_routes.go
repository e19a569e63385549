package payroll

import (
	"go-ems/internal/middleware"
	"go-ems/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, policy middleware.Decider, rdb *redis.Client) {
	byEmployee := middleware.EmployeeParam("employeeId")

	salaries := r.Group("/salary")
	{
		salaries.GET("", middleware.Authorize(policy, rbac.SalaryList, nil), h.GetAll)
		salaries.GET("/month/:month/year/:year", middleware.Authorize(policy, rbac.SalaryList, nil), h.GetByPeriod)
		salaries.GET("/employee/:employeeId",
			middleware.Authorize(policy, rbac.SalaryReadEmployee, byEmployee),
			h.GetByEmployee,
		)
		salaries.GET("/employee/:employeeId/month/:month/year/:year",
			middleware.Authorize(policy, rbac.SalaryReadEmployee, byEmployee),
			h.GetByEmployeeAndPeriod,
		)
		salaries.POST("/generate",
			middleware.RateLimitByUser(2, 10),
			middleware.Authorize(policy, rbac.SalaryGenerate, nil),
			middleware.Idempotency(rdb),
			h.Generate,
		)
		salaries.PUT("/:id", middleware.Authorize(policy, rbac.SalaryUpdate, nil), h.UpdateAmounts)
		salaries.DELETE("/:id", middleware.Authorize(policy, rbac.SalaryDelete, nil), h.Delete)
	}

	payslips := r.Group("/payslips")
	{
		payslips.GET("/download/:employeeId/:month/:year",
			middleware.Authorize(policy, rbac.PayslipRead, byEmployee),
			h.DownloadPayslip,
		)
		payslips.GET("/view/:employeeId/:month/:year",
			middleware.Authorize(policy, rbac.PayslipRead, byEmployee),
			h.ViewPayslip,
		)
	}
}
