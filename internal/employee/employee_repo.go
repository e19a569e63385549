package employee

import (
	"context"
	"database/sql"

	"go-ems/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	Update(ctx context.Context, empl *Employee) error
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	FindAll(ctx context.Context) ([]Employee, error)
	FindByDepartment(ctx context.Context, departmentID uuid.UUID) ([]Employee, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	FindDepartment(ctx context.Context, departmentID uuid.UUID) (*DepartmentRef, error)
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

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(empl).Error
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(empl).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("User").
		Where("id = ?", id).
		First(&empl).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("User").
		Order("name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByDepartment(ctx context.Context, departmentID uuid.UUID) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("User").
		Where("department_id = ?", departmentID).
		Order("name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// EmailExists checks every employee regardless of status.
func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

// FindDepartment returns gorm.ErrRecordNotFound when the department is absent.
func (r *repository) FindDepartment(ctx context.Context, departmentID uuid.UUID) (*DepartmentRef, error) {
	var dept DepartmentRef
	err := r.db.WithContext(ctx).
		Where("id = ?", departmentID).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}
