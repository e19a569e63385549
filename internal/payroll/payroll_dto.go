package payroll

import "github.com/shopspring/decimal"

// GenerateSalaryRequest leaves amounts nil when the caller omits them; they
// count as zero.
type GenerateSalaryRequest struct {
	EmployeeID string           `json:"employee_id" binding:"required,uuid"`
	Month      int              `json:"month" binding:"required,min=1,max=12"`
	Year       int              `json:"year" binding:"required,gt=0"`
	Allowances *decimal.Decimal `json:"allowances"`
	Deductions *decimal.Decimal `json:"deductions"`
}

// UpdateSalaryRequest replaces both amounts; an omitted one resets to zero.
type UpdateSalaryRequest struct {
	Allowances *decimal.Decimal `json:"allowances"`
	Deductions *decimal.Decimal `json:"deductions"`
}

type PeriodParams struct {
	Month int `uri:"month" binding:"required,min=1,max=12"`
	Year  int `uri:"year" binding:"required,gt=0"`
}

type SalaryResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  string          `json:"employee_name,omitempty"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	BasicPay      decimal.Decimal `json:"basic_pay"`
	Allowances    decimal.Decimal `json:"allowances"`
	Deductions    decimal.Decimal `json:"deductions"`
	NetPay        decimal.Decimal `json:"net_pay"`
	GeneratedDate string          `json:"generated_date"`
}
