package attendance_test

import (
	"context"
	"errors"
	"testing"

	"go-ems/internal/attendance"
	attendanceerrors "go-ems/internal/attendance/errors"
	attendanceMock "go-ems/internal/attendance/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestService_MarkRetriesLostInsertRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := attendanceMock.NewMockRepository(ctrl)
	svc := attendance.NewService(db, repo)

	ctx := context.Background()
	employeeID := uuid.New()
	existing := &attendance.Attendance{ID: uuid.New(), EmployeeID: employeeID, Status: attendance.StatusAbsent}

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo.EXPECT().WithTx(gomock.Any()).Return(repo).Times(2)
	repo.EXPECT().EmployeeExists(ctx, employeeID).Return(true, nil).Times(2)
	gomock.InOrder(
		repo.EXPECT().FindByEmployeeAndDate(ctx, employeeID, gomock.Any()).Return(nil, false, nil),
		repo.EXPECT().FindByEmployeeAndDate(ctx, employeeID, gomock.Any()).Return(existing, true, nil),
	)
	repo.EXPECT().
		Create(ctx, gomock.Any()).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_attendance_employee_date"})
	repo.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, a *attendance.Attendance) error {
			assert.Equal(t, attendance.StatusPresent, a.Status)
			return nil
		})

	resp, err := svc.Mark(ctx, attendance.MarkAttendanceRequest{
		EmployeeID: employeeID.String(),
		Date:       "2024-01-10",
		Status:     attendance.StatusPresent,
	})

	assert.NoError(t, err)
	assert.Equal(t, existing.ID.String(), resp.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_MarkGivesUpAfterSecondConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := attendanceMock.NewMockRepository(ctrl)
	svc := attendance.NewService(db, repo)
	ctx := context.Background()
	employeeID := uuid.New()

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectRollback()
	}
	repo.EXPECT().WithTx(gomock.Any()).Return(repo).Times(2)
	repo.EXPECT().EmployeeExists(ctx, employeeID).Return(true, nil).Times(2)
	repo.EXPECT().FindByEmployeeAndDate(ctx, employeeID, gomock.Any()).Return(nil, false, nil).Times(2)
	repo.EXPECT().
		Create(ctx, gomock.Any()).
		Return(errors.New("UNIQUE constraint failed: attendances.employee_id, attendances.attendance_date")).
		Times(2)

	_, err := svc.Mark(ctx, attendance.MarkAttendanceRequest{
		EmployeeID: employeeID.String(),
		Date:       "2024-01-10",
		Status:     attendance.StatusPresent,
	})

	assert.ErrorIs(t, err, attendanceerrors.ErrAttendanceConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
