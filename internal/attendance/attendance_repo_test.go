package attendance_test

import (
	"context"
	"testing"
	"time"

	"go-ems/internal/attendance"
	"go-ems/internal/employee"
	"go-ems/internal/shared/testdb"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestRepository_SQLite(t *testing.T) {
	db := testdb.Open(t, &employee.Employee{}, &attendance.Attendance{})
	ctx := context.Background()

	ada := employee.Employee{
		ID:         uuid.New(),
		Name:       "Ada",
		Email:      "ada@example.com",
		BaseSalary: decimal.NewFromInt(5000),
		JoinDate:   day(1),
		Status:     employee.StatusActive,
	}
	assert.NoError(t, db.Create(&ada).Error)

	repo := attendance.NewRepository(db)
	for _, d := range []int{9, 10, 11, 12} {
		assert.NoError(t, repo.Create(ctx, &attendance.Attendance{
			ID:             uuid.New(),
			EmployeeID:     ada.ID,
			AttendanceDate: day(d),
			Status:         attendance.StatusPresent,
		}))
	}

	t.Run("one row per employee and day", func(t *testing.T) {
		err := repo.Create(ctx, &attendance.Attendance{
			ID:             uuid.New(),
			EmployeeID:     ada.ID,
			AttendanceDate: day(10),
			Status:         attendance.StatusAbsent,
		})
		assert.Error(t, err)
	})

	t.Run("lookup by key", func(t *testing.T) {
		row, found, err := repo.FindByEmployeeAndDate(ctx, ada.ID, day(10))
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, attendance.StatusPresent, row.Status)

		_, found, err = repo.FindByEmployeeAndDate(ctx, ada.ID, day(20))
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("range is inclusive", func(t *testing.T) {
		rows, err := repo.FindByEmployeeAndRange(ctx, ada.ID, day(10), day(11))
		assert.NoError(t, err)
		assert.Len(t, rows, 2)
		assert.Equal(t, "Ada", rows[0].Employee.Name)
	})

	t.Run("present count by date", func(t *testing.T) {
		count, err := repo.CountByDateAndStatus(ctx, day(12), attendance.StatusPresent)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		row, _, err := repo.FindByEmployeeAndDate(ctx, ada.ID, day(9))
		assert.NoError(t, err)

		assert.NoError(t, repo.Delete(ctx, row.ID))
		assert.NoError(t, repo.Delete(ctx, row.ID))

		rows, err := repo.FindByEmployee(ctx, ada.ID)
		assert.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("employee existence", func(t *testing.T) {
		ok, err := repo.EmployeeExists(ctx, ada.ID)
		assert.NoError(t, err)
		assert.True(t, ok)
	})
}
