package payrollerrors

import (
	"net/http"

	"go-ems/internal/shared/apperror"
)

var (
	ErrSalaryNotFound = apperror.New(
		apperror.CodeNotFound,
		"Salary record not found",
		http.StatusNotFound,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"Month must be between 1 and 12",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"Year must be a positive number",
		http.StatusBadRequest,
	)
	ErrNegativeAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Allowances and deductions cannot be negative",
		http.StatusBadRequest,
	)
	ErrSalaryConflict = apperror.New(
		apperror.CodeConflict,
		"Salary for this employee and period is being written concurrently",
		http.StatusConflict,
	)
)
