package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is a login identity. Employees link to it through employees.user_id.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_user_username"`
	PasswordHash string    `gorm:"column:password;type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'EMPLOYEE'"`
	Enabled      bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string {
	return "users"
}
