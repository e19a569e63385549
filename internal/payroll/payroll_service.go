package payroll

import (
	"context"
	"database/sql"
	"errors"
	"time"

	employeeerrors "go-ems/internal/employee/errors"
	"go-ems/internal/events"
	"go-ems/internal/messaging/kafka"
	payrollerrors "go-ems/internal/payroll/errors"
	"go-ems/internal/payslip"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/contextutil"
	"go-ems/internal/shared/dateutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, req GenerateSalaryRequest) (SalaryResponse, error)
	UpdateAmounts(ctx context.Context, id string, req UpdateSalaryRequest) (SalaryResponse, error)
	GetByEmployeeAndPeriod(ctx context.Context, employeeID string, month, year int) (SalaryResponse, error)
	GetAll(ctx context.Context) ([]SalaryResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]SalaryResponse, error)
	GetByPeriod(ctx context.Context, month, year int) ([]SalaryResponse, error)
	Delete(ctx context.Context, id string) error
	RenderPayslip(ctx context.Context, employeeID string, month, year int) (payslip.Document, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	renderer payslip.Renderer
	outbox   kafka.OutboxRepository
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, renderer payslip.Renderer, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, renderer, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	renderer payslip.Renderer,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		renderer: renderer,
		outbox:   outboxRepo,
		logger:   l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

// Generate upserts the salary for (employee, month, year). The first call
// snapshots the employee's base salary; later calls only replace the
// allowances and deductions.
func (s *service) Generate(ctx context.Context, req GenerateSalaryRequest) (SalaryResponse, error) {
	if err := validatePeriod(req.Month, req.Year); err != nil {
		return SalaryResponse{}, err
	}
	allowances, deductions, err := amounts(req.Allowances, req.Deductions)
	if err != nil {
		return SalaryResponse{}, err
	}
	if err := apperror.Validate(req); err != nil {
		return SalaryResponse{}, err
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return SalaryResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	rid := contextutil.GetRequestID(ctx)
	s.log(ctx).Debug("generate salary requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
	)

	row, err := s.generateOnce(ctx, employeeID, req.Month, req.Year, allowances, deductions)
	if isUniqueViolation(err) {
		s.log(ctx).Info("salary insert lost race, retrying",
			zap.String("employee_id", req.EmployeeID),
			zap.Int("month", req.Month),
			zap.Int("year", req.Year),
		)
		row, err = s.generateOnce(ctx, employeeID, req.Month, req.Year, allowances, deductions)
	}
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}

	s.log(ctx).Info("generate salary success",
		zap.String("request_id", rid),
		zap.String("salary_id", row.ID.String()),
		zap.String("net_pay", row.NetPay.StringFixed(2)),
	)
	return mapToResponse(*row), nil
}

func (s *service) generateOnce(
	ctx context.Context,
	employeeID uuid.UUID,
	month, year int,
	allowances, deductions decimal.Decimal,
) (*Salary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.FindEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, err
	}

	row, found, err := qtx.FindByEmployeeAndPeriod(ctx, employeeID, month, year)
	if err != nil {
		return nil, err
	}

	if found {
		row.Allowances = allowances
		row.Deductions = deductions
		row.RecomputeNetPay()
		if err := qtx.Update(ctx, row); err != nil {
			return nil, err
		}
	} else {
		row = &Salary{
			ID:            uuid.New(),
			EmployeeID:    employeeID,
			Month:         month,
			Year:          year,
			BasicPay:      empl.BaseSalary,
			Allowances:    allowances,
			Deductions:    deductions,
			GeneratedDate: dateutil.StartOfDay(time.Now().UTC()),
		}
		row.RecomputeNetPay()
		if err := qtx.Create(ctx, row); err != nil {
			return nil, err
		}
	}
	row.Employee = &EmployeeRef{ID: empl.ID, Name: empl.Name}

	if err := s.writeGeneratedEvent(ctx, tx, row); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return row, nil
}

// UpdateAmounts replaces both amounts; a nil amount resets to zero.
func (s *service) UpdateAmounts(ctx context.Context, id string, req UpdateSalaryRequest) (SalaryResponse, error) {
	allowances, deductions, err := amounts(req.Allowances, req.Deductions)
	if err != nil {
		return SalaryResponse{}, err
	}
	salaryID, err := uuid.Parse(id)
	if err != nil {
		return SalaryResponse{}, payrollerrors.ErrSalaryNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByID(ctx, salaryID)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}

	row.Allowances = allowances
	row.Deductions = deductions
	row.RecomputeNetPay()
	if err := qtx.Update(ctx, row); err != nil {
		s.log(ctx).Error("update salary persist failed",
			zap.String("salary_id", id),
			zap.Error(err),
		)
		return SalaryResponse{}, mapRepositoryError(err)
	}

	if err := s.writeGeneratedEvent(ctx, tx, row); err != nil {
		return SalaryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return SalaryResponse{}, err
	}

	return mapToResponse(*row), nil
}

func (s *service) writeGeneratedEvent(ctx context.Context, tx *sql.Tx, row *Salary) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.SalaryGeneratedEvent{
		EventType:  events.SalaryGeneratedType,
		RequestID:  rid,
		SalaryID:   row.ID.String(),
		EmployeeID: row.EmployeeID.String(),
		Month:      row.Month,
		Year:       row.Year,
		NetPay:     row.NetPay.StringFixed(2),
		OccurredAt: time.Now().UTC(),
	}
	outboxEvent, err := kafka.NewOutboxEvent(
		rid, "salary", row.ID.String(), event.EventType, events.SalaryGeneratedTopic, event,
	)
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		s.log(ctx).Error("salary outbox persist failed",
			zap.String("salary_id", row.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) GetByEmployeeAndPeriod(ctx context.Context, employeeID string, month, year int) (SalaryResponse, error) {
	row, err := s.findPeriod(ctx, employeeID, month, year)
	if err != nil {
		return SalaryResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) findPeriod(ctx context.Context, employeeID string, month, year int) (*Salary, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, payrollerrors.ErrSalaryNotFound
	}

	row, found, err := s.repo.FindByEmployeeAndPeriod(ctx, id, month, year)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, payrollerrors.ErrSalaryNotFound
	}
	return row, nil
}

func (s *service) GetAll(ctx context.Context) ([]SalaryResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log(ctx).Error("get all salaries failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]SalaryResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return []SalaryResponse{}, nil
	}

	rows, err := s.repo.FindByEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByPeriod(ctx context.Context, month, year int) ([]SalaryResponse, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	rows, err := s.repo.FindByPeriod(ctx, month, year)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

// Delete removes the row regardless of period or payslip state.
func (s *service) Delete(ctx context.Context, id string) error {
	salaryID, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	if err := s.repo.Delete(ctx, salaryID); err != nil {
		return err
	}
	s.log(ctx).Info("salary deleted", zap.String("salary_id", id))
	return nil
}

func (s *service) RenderPayslip(ctx context.Context, employeeID string, month, year int) (payslip.Document, error) {
	row, err := s.findPeriod(ctx, employeeID, month, year)
	if err != nil {
		return payslip.Document{}, err
	}

	empl, err := s.repo.FindEmployee(ctx, row.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return payslip.Document{}, employeeerrors.ErrEmployeeNotFound
		}
		return payslip.Document{}, err
	}

	var department string
	if empl.DepartmentID != nil {
		department, err = s.repo.FindDepartmentName(ctx, *empl.DepartmentID)
		if err != nil {
			return payslip.Document{}, err
		}
	}

	view := payslip.View{
		EmployeeID:    empl.ID.String(),
		EmployeeName:  empl.Name,
		Department:    department,
		Designation:   empl.Designation,
		Month:         row.Month,
		Year:          row.Year,
		BasicPay:      row.BasicPay,
		Allowances:    row.Allowances,
		Deductions:    row.Deductions,
		NetPay:        row.NetPay,
		GeneratedDate: row.GeneratedDate,
	}

	doc, err := payslip.Render(s.renderer, view)
	if err != nil {
		s.log(ctx).Error("render payslip failed",
			zap.String("employee_id", employeeID),
			zap.Int("month", month),
			zap.Int("year", year),
			zap.Error(err),
		)
		return payslip.Document{}, apperror.WithCause(apperror.ErrRenderingFailure, err)
	}
	return doc, nil
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return payrollerrors.ErrInvalidMonth
	}
	if year <= 0 {
		return payrollerrors.ErrInvalidYear
	}
	return nil
}

func amounts(allowances, deductions *decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	a, d := decimal.Zero, decimal.Zero
	if allowances != nil {
		a = *allowances
	}
	if deductions != nil {
		d = *deductions
	}
	if a.IsNegative() || d.IsNegative() {
		return decimal.Zero, decimal.Zero, payrollerrors.ErrNegativeAmount
	}
	return a, d, nil
}

func mapToResponse(s Salary) SalaryResponse {
	resp := SalaryResponse{
		ID:            s.ID.String(),
		EmployeeID:    s.EmployeeID.String(),
		Month:         s.Month,
		Year:          s.Year,
		BasicPay:      s.BasicPay,
		Allowances:    s.Allowances,
		Deductions:    s.Deductions,
		NetPay:        s.NetPay,
		GeneratedDate: dateutil.FormatDate(s.GeneratedDate),
	}
	if s.Employee != nil {
		resp.EmployeeName = s.Employee.Name
	}
	return resp
}

func mapToListResponse(rows []Salary) []SalaryResponse {
	out := make([]SalaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, mapToResponse(r))
	}
	return out
}
