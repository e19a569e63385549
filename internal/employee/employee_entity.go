package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusActive     = "ACTIVE"
	StatusInactive   = "INACTIVE"
	StatusTerminated = "TERMINATED"
)

type Employee struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name         string          `gorm:"size:255;not null"`
	Email        string          `gorm:"size:255;not null;uniqueIndex:uq_employee_email"`
	DepartmentID *uuid.UUID      `gorm:"type:uuid;index"`
	Department   *DepartmentRef  `gorm:"foreignKey:DepartmentID;references:ID"`
	Designation  string          `gorm:"size:255"`
	BaseSalary   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	JoinDate     time.Time       `gorm:"type:date;not null"`
	Status       string          `gorm:"size:20;not null;index"`
	UserID       *uuid.UUID      `gorm:"type:uuid;uniqueIndex:uq_employee_user"`
	User         *UserRef        `gorm:"foreignKey:UserID;references:ID"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

func (Employee) TableName() string { return "employees" }

type DepartmentRef struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (DepartmentRef) TableName() string { return "departments" }

// UserRef is the linked login identity, read-only from here.
type UserRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username string    `gorm:"column:username"`
}

func (UserRef) TableName() string { return "users" }
