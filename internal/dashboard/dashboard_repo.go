package dashboard

import (
	"context"
	"time"

	"go-ems/internal/attendance"
	"go-ems/internal/department"
	"go-ems/internal/employee"
	"go-ems/internal/payroll"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	CountEmployees(ctx context.Context) (int64, error)
	CountEmployeesByStatus(ctx context.Context, status string) (int64, error)
	CountDepartments(ctx context.Context) (int64, error)
	CountAttendance(ctx context.Context, date time.Time, status string) (int64, error)
	SalaryTotals(ctx context.Context, month, year int) (int64, decimal.Decimal, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountEmployees(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&employee.Employee{}).Count(&n).Error
	return n, err
}

func (r *repository) CountEmployeesByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&employee.Employee{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}

func (r *repository) CountDepartments(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&department.Department{}).Count(&n).Error
	return n, err
}

func (r *repository) CountAttendance(ctx context.Context, date time.Time, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&attendance.Attendance{}).
		Where("attendance_date = ? AND status = ?", date, status).
		Count(&n).Error
	return n, err
}

func (r *repository) SalaryTotals(ctx context.Context, month, year int) (int64, decimal.Decimal, error) {
	var row struct {
		Records int64
		NetPay  decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).
		Model(&payroll.Salary{}).
		Select("COUNT(*) AS records, SUM(net_pay) AS net_pay").
		Where("month = ? AND year = ?", month, year).
		Scan(&row).Error
	if err != nil {
		return 0, decimal.Zero, err
	}
	if !row.NetPay.Valid {
		return row.Records, decimal.Zero, nil
	}
	return row.Records, row.NetPay.Decimal, nil
}
