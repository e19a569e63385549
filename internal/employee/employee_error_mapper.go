package employee

import (
	"errors"
	"strings"

	employeeerrors "go-ems/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_employee_email":
				return employeeerrors.ErrEmployeeEmailExists
			case "uq_employee_user":
				return employeeerrors.ErrEmployeeAlreadyLinked
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "uq_employee_email") || strings.Contains(errMsg, "unique constraint failed: employees.email") {
		return employeeerrors.ErrEmployeeEmailExists
	}
	if strings.Contains(errMsg, "uq_employee_user") || strings.Contains(errMsg, "unique constraint failed: employees.user_id") {
		return employeeerrors.ErrEmployeeAlreadyLinked
	}

	return err
}
