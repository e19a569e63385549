// Package dashboard aggregates headline figures for HR staff.
package dashboard

import (
	"context"
	"time"

	"go-ems/internal/attendance"
	"go-ems/internal/employee"
	"go-ems/internal/shared/contextutil"
	"go-ems/internal/shared/dateutil"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Service interface {
	Summary(ctx context.Context) (SummaryResponse, error)
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithClock(repo, time.Now, logger...)
}

func NewServiceWithClock(repo Repository, now func() time.Time, logger ...*zap.Logger) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{repo: repo, now: now, logger: l}
}

// Summary runs the counts concurrently; "today" and the current month are
// taken in UTC.
func (s *service) Summary(ctx context.Context) (SummaryResponse, error) {
	today := dateutil.StartOfDay(s.now().UTC())
	resp := SummaryResponse{
		Month: int(today.Month()),
		Year:  today.Year(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		resp.TotalEmployees, err = s.repo.CountEmployees(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.ActiveEmployees, err = s.repo.CountEmployeesByStatus(gctx, employee.StatusActive)
		return err
	})
	g.Go(func() (err error) {
		resp.TotalDepartments, err = s.repo.CountDepartments(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.PresentToday, err = s.repo.CountAttendance(gctx, today, attendance.StatusPresent)
		return err
	})
	g.Go(func() error {
		records, total, err := s.repo.SalaryTotals(gctx, resp.Month, resp.Year)
		resp.SalaryRecords = records
		resp.NetPayTotal = total.Round(2)
		return err
	})

	if err := g.Wait(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("dashboard summary failed", zap.Error(err))
		return SummaryResponse{}, err
	}
	return resp, nil
}
