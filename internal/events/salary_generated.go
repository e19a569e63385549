package events

import "time"

const (
	SalaryGeneratedTopic = "ems.payroll.salary.generated.v1"
	SalaryGeneratedType  = "payroll.salary.generated"
)

// SalaryGeneratedEvent is emitted for first generation and regeneration
// alike; consumers re-render the payslip either way.
type SalaryGeneratedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	SalaryID   string    `json:"salary_id"`
	EmployeeID string    `json:"employee_id"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	NetPay     string    `json:"net_pay"`
	OccurredAt time.Time `json:"occurred_at"`
}
