package app

import (
	"context"

	"go-ems/internal/attendance"
	"go-ems/internal/auth"
	"go-ems/internal/department"
	"go-ems/internal/employee"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/payroll"

	"gorm.io/gorm"
)

// Models lists every table the API owns, parents first.
func Models() []any {
	return []any{
		&auth.User{},
		&department.Department{},
		&employee.Employee{},
		&attendance.Attendance{},
		&payroll.Salary{},
	}
}

// Migrate creates or alters the tables. The outbox table is PostgreSQL-only
// and is created only when withOutbox is set.
func Migrate(ctx context.Context, db *gorm.DB, withOutbox bool) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return err
	}
	if !withOutbox {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return kafka.EnsureOutboxTable(ctx, sqlDB)
}
