package department

import (
	"errors"
	"strings"

	departmenterrors "go-ems/internal/department/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return departmenterrors.ErrDepartmentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if pgErr.ConstraintName == "uq_department_name" {
			return departmenterrors.ErrDepartmentNameExists
		}
	}

	// sqlite reports the column, postgres without pgconn reports the index
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "uq_department_name") || strings.Contains(errMsg, "unique constraint failed: departments.name") {
		return departmenterrors.ErrDepartmentNameExists
	}

	return err
}
