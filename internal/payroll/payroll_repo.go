package payroll

import (
	"context"
	"database/sql"
	"errors"

	"go-ems/internal/employee"
	"go-ems/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Salary) error
	Update(ctx context.Context, s *Salary) error
	FindByID(ctx context.Context, id uuid.UUID) (*Salary, error)
	FindByEmployeeAndPeriod(ctx context.Context, employeeID uuid.UUID, month, year int) (*Salary, bool, error)
	FindAll(ctx context.Context) ([]Salary, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Salary, error)
	FindByPeriod(ctx context.Context, month, year int) ([]Salary, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindEmployee(ctx context.Context, id uuid.UUID) (*employee.Employee, error)
	FindDepartmentName(ctx context.Context, id uuid.UUID) (string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.WithSQLTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, s *Salary) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

func (r *repository) Update(ctx context.Context, s *Salary) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(s).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Salary, error) {
	var s Salary
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindByEmployeeAndPeriod(ctx context.Context, employeeID uuid.UUID, month, year int) (*Salary, bool, error) {
	var s Salary
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("employee_id = ? AND month = ? AND year = ?", employeeID, month, year).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &s, true, nil
}

func (r *repository) FindAll(ctx context.Context) ([]Salary, error) {
	var rows []Salary
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Order("year DESC, month DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Salary, error) {
	var rows []Salary
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("employee_id = ?", employeeID).
		Order("year DESC, month DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByPeriod(ctx context.Context, month, year int) ([]Salary, error) {
	var rows []Salary
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("month = ? AND year = ?", month, year).
		Find(&rows).Error
	return rows, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&Salary{}).Error
}

func (r *repository) FindEmployee(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	var e employee.Employee
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindDepartmentName returns "" when the department no longer exists.
func (r *repository) FindDepartmentName(ctx context.Context, id uuid.UUID) (string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("departments").
		Where("id = ?", id).
		Limit(1).
		Pluck("name", &names).Error
	if err != nil || len(names) == 0 {
		return "", err
	}
	return names[0], nil
}
