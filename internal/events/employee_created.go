package events

import "time"

const (
	EmployeeCreatedTopic = "ems.employee.created.v1"
	EmployeeCreatedType  = "employee.created"
)

type EmployeeCreatedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	EmployeeID   string    `json:"employee_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	DepartmentID string    `json:"department_id,omitempty"`
	UserID       string    `json:"user_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
