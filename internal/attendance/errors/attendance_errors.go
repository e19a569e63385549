package attendanceerrors

import (
	"net/http"

	"go-ems/internal/shared/apperror"
)

var (
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be one of PRESENT, ABSENT, LATE, HALF_DAY",
		http.StatusBadRequest,
	)
	ErrAttendanceConflict = apperror.New(
		apperror.CodeConflict,
		"Attendance for this employee and date is being written concurrently",
		http.StatusConflict,
	)
)
