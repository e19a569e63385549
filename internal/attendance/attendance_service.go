package attendance

import (
	"context"
	"database/sql"
	"time"

	attendanceerrors "go-ems/internal/attendance/errors"
	employeeerrors "go-ems/internal/employee/errors"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/contextutil"
	"go-ems/internal/shared/dateutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Mark(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context) ([]AttendanceResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]AttendanceResponse, error)
	GetByDate(ctx context.Context, date string) ([]AttendanceResponse, error)
	GetByEmployeeAndRange(ctx context.Context, employeeID, start, end string) ([]AttendanceResponse, error)
	CountPresentByDate(ctx context.Context, date string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

// Mark upserts the row for (employee, date); the latest call wins. A
// concurrent insert for the same key is retried once and lands on the
// update path.
func (s *service) Mark(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error) {
	if err := apperror.Validate(req); err != nil {
		return AttendanceResponse{}, err
	}
	if !validStatus(req.Status) {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, employeeerrors.ErrEmployeeNotFound
	}
	date, err := dateutil.ParseDate(req.Date)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDate
	}

	row, err := s.markOnce(ctx, employeeID, date, req.Status, req.Remarks)
	if isUniqueViolation(err) {
		s.log(ctx).Info("attendance insert lost race, retrying",
			zap.String("employee_id", req.EmployeeID),
			zap.String("date", req.Date),
		)
		row, err = s.markOnce(ctx, employeeID, date, req.Status, req.Remarks)
	}
	if err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*row), nil
}

func (s *service) markOnce(ctx context.Context, employeeID uuid.UUID, date time.Time, status, remarks string) (*Attendance, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, employeeerrors.ErrEmployeeNotFound
	}

	row, found, err := qtx.FindByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return nil, err
	}

	if found {
		row.Status = status
		row.Remarks = remarks
		if err := qtx.Update(ctx, row); err != nil {
			return nil, err
		}
	} else {
		row = &Attendance{
			ID:             uuid.New(),
			EmployeeID:     employeeID,
			AttendanceDate: date,
			Status:         status,
			Remarks:        remarks,
		}
		if err := qtx.Create(ctx, row); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log(ctx).Debug("attendance marked",
		zap.String("attendance_id", row.ID.String()),
		zap.Bool("updated", found),
	)
	return row, nil
}

func (s *service) GetAll(ctx context.Context) ([]AttendanceResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log(ctx).Error("get all attendance failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]AttendanceResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return []AttendanceResponse{}, nil
	}

	rows, err := s.repo.FindByEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByDate(ctx context.Context, date string) ([]AttendanceResponse, error) {
	day, err := dateutil.ParseDate(date)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDate
	}

	rows, err := s.repo.FindByDate(ctx, day)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByEmployeeAndRange(ctx context.Context, employeeID, start, end string) ([]AttendanceResponse, error) {
	from, err := dateutil.ParseDate(start)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDate
	}
	to, err := dateutil.ParseDate(end)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDate
	}

	id, err := uuid.Parse(employeeID)
	if err != nil || to.Before(from) {
		return []AttendanceResponse{}, nil
	}

	rows, err := s.repo.FindByEmployeeAndRange(ctx, id, from, to)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) CountPresentByDate(ctx context.Context, date string) (int64, error) {
	day, err := dateutil.ParseDate(date)
	if err != nil {
		return 0, attendanceerrors.ErrInvalidDate
	}
	return s.repo.CountByDateAndStatus(ctx, day, StatusPresent)
}

// Delete is idempotent: an unknown id is not an error.
func (s *service) Delete(ctx context.Context, id string) error {
	attendanceID, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	if err := s.repo.Delete(ctx, attendanceID); err != nil {
		s.log(ctx).Error("delete attendance failed", zap.String("attendance_id", id), zap.Error(err))
		return err
	}
	return nil
}

func validStatus(status string) bool {
	switch status {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay:
		return true
	default:
		return false
	}
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:         a.ID.String(),
		EmployeeID: a.EmployeeID.String(),
		Date:       dateutil.FormatDate(a.AttendanceDate),
		Status:     a.Status,
		Remarks:    a.Remarks,
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.Name
	}
	return resp
}

func mapToListResponse(rows []Attendance) []AttendanceResponse {
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}
