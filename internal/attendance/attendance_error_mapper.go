package attendance

import (
	"errors"
	"strings"

	attendanceerrors "go-ems/internal/attendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation reports a lost insert race on (employee_id, attendance_date).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "uq_attendance_employee_date") ||
		strings.Contains(errMsg, "unique constraint failed: attendances.")
}

func mapRepositoryError(err error) error {
	if isUniqueViolation(err) {
		return attendanceerrors.ErrAttendanceConflict
	}
	return err
}
