package payroll

import (
	"errors"
	"strings"

	payrollerrors "go-ems/internal/payroll/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "uq_salary_employee_period") ||
		strings.Contains(errMsg, "unique constraint failed: salaries.")
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrSalaryNotFound
	}
	if isUniqueViolation(err) {
		return payrollerrors.ErrSalaryConflict
	}
	return err
}
