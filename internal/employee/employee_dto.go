package employee

import "github.com/shopspring/decimal"

type CreateEmployeeRequest struct {
	Name         string          `json:"name" binding:"required,max=255"`
	Email        string          `json:"email" binding:"required,email"`
	DepartmentID *string         `json:"department_id" binding:"omitempty,uuid"`
	Designation  string          `json:"designation" binding:"max=255"`
	BaseSalary   decimal.Decimal `json:"base_salary"`
	JoinDate     string          `json:"join_date" binding:"required,datetime=2006-01-02"`
	Status       string          `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE TERMINATED"`
	// Username, when set, provisions a login identity linked to the employee.
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
}

type UpdateEmployeeRequest struct {
	Name         string          `json:"name" binding:"required,max=255"`
	Email        string          `json:"email" binding:"required,email"`
	DepartmentID *string         `json:"department_id" binding:"omitempty,uuid"`
	Designation  string          `json:"designation" binding:"max=255"`
	BaseSalary   decimal.Decimal `json:"base_salary"`
	JoinDate     string          `json:"join_date" binding:"required,datetime=2006-01-02"`
	Status       *string         `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE TERMINATED"`
}

type EmployeeResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	DepartmentID   string          `json:"department_id,omitempty"`
	DepartmentName string          `json:"department_name,omitempty"`
	Designation    string          `json:"designation"`
	BaseSalary     decimal.Decimal `json:"base_salary"`
	JoinDate       string          `json:"join_date"`
	Status         string          `json:"status"`
	UserID         string          `json:"user_id,omitempty"`
	Username       string          `json:"username,omitempty"`
}
