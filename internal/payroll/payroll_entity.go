package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Salary is one row per employee per month/year.
type Salary struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:uq_salary_employee_period,priority:1"`
	Employee   *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`

	Month int `gorm:"not null;uniqueIndex:uq_salary_employee_period,priority:2;index:idx_salary_period,priority:2"`
	Year  int `gorm:"not null;uniqueIndex:uq_salary_employee_period,priority:3;index:idx_salary_period,priority:1"`

	// BasicPay and GeneratedDate are fixed at first generation.
	BasicPay      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Allowances    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Deductions    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	NetPay        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	GeneratedDate time.Time       `gorm:"type:date;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Salary) TableName() string {
	return "salaries"
}

// RecomputeNetPay sets NetPay = BasicPay + Allowances - Deductions.
func (s *Salary) RecomputeNetPay() {
	s.NetPay = s.BasicPay.Add(s.Allowances).Sub(s.Deductions)
}

// BeforeSave keeps net pay in step with every write that goes through gorm.
func (s *Salary) BeforeSave(tx *gorm.DB) error {
	s.RecomputeNetPay()
	return nil
}

type EmployeeRef struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
