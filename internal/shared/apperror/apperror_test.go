package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-ems/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		err := apperror.New(apperror.CodeConflict, "Department name already exists", http.StatusConflict)

		got := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusConflict, got.Status)
		assert.Equal(t, apperror.CodeConflict, got.Code)
		assert.Equal(t, "Department name already exists", got.Message)
	})

	t.Run("wrapped app error is unwrapped", func(t *testing.T) {
		err := fmt.Errorf("service: %w", apperror.ErrNotFound)

		got := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusNotFound, got.Status)
		assert.Equal(t, apperror.CodeNotFound, got.Code)
	})

	t.Run("unknown error becomes internal", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: connection reset"))

		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.CodeInternalError, got.Code)
		assert.NotContains(t, got.Message, "connection reset")
	})
}

func TestWithCause(t *testing.T) {
	cause := errors.New("font not found")

	err := apperror.WithCause(apperror.ErrRenderingFailure, cause)

	assert.ErrorIs(t, err, apperror.ErrRenderingFailure)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, apperror.CodeRenderingFailure, apperror.CodeOf(err))
	assert.Equal(t, http.StatusBadGateway, apperror.ToHTTP(err).Status)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(apperror.ErrForbidden))
	assert.Equal(t, apperror.CodeInternalError, apperror.CodeOf(errors.New("boom")))
}

type sampleRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	BaseSalary int    `json:"base_salary" binding:"gt=0"`
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		err := apperror.Validate(sampleRequest{Name: "Ada", Email: "ada@example.com", BaseSalary: 1})
		assert.NoError(t, err)
	})

	t.Run("missing field uses json name", func(t *testing.T) {
		err := apperror.Validate(sampleRequest{Email: "ada@example.com", BaseSalary: 1})

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
		assert.Equal(t, "Name is required", appErr.Message)
	})

	t.Run("invalid field is title cased", func(t *testing.T) {
		err := apperror.Validate(sampleRequest{Name: "Ada", Email: "ada@example.com", BaseSalary: 0})

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Base Salary is invalid", appErr.Message)
	})
}
