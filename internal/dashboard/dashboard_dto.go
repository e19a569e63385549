package dashboard

import "github.com/shopspring/decimal"

type SummaryResponse struct {
	TotalEmployees   int64           `json:"total_employees"`
	ActiveEmployees  int64           `json:"active_employees"`
	TotalDepartments int64           `json:"total_departments"`
	PresentToday     int64           `json:"present_today"`
	Month            int             `json:"month"`
	Year             int             `json:"year"`
	SalaryRecords    int64           `json:"salary_records"`
	NetPayTotal      decimal.Decimal `json:"net_pay_total"`
}
