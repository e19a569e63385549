package employee

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	departmenterrors "go-ems/internal/department/errors"
	employeeerrors "go-ems/internal/employee/errors"
	"go-ems/internal/events"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/rbac"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/contextutil"
	"go-ems/internal/shared/dateutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IdentityProvisioner issues login identities for new employees. It is
// implemented by the auth package.
//
//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type IdentityProvisioner interface {
	WithTx(tx *sql.Tx) IdentityProvisioner
	DefaultPassword() string
	HashPassword(plain string) (string, error)
	Provision(ctx context.Context, username, passwordHash, role string) (string, error)
}

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	GetByDepartment(ctx context.Context, departmentID string) ([]EmployeeResponse, error)
	CountActive(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
	IsSelf(principal rbac.Principal, employeeID string) bool
}

type service struct {
	db         *sql.DB
	repo       Repository
	identities IdentityProvisioner
	outbox     kafka.OutboxRepository
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository, identities IdentityProvisioner, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, identities, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	identities IdentityProvisioner,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		identities: identities,
		outbox:     outboxRepo,
		logger:     l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	if err := apperror.Validate(req); err != nil {
		return EmployeeResponse{}, err
	}
	if !req.BaseSalary.IsPositive() {
		return EmployeeResponse{}, employeeerrors.ErrInvalidBaseSalary
	}
	joinDate, err := dateutil.ParseDate(req.JoinDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidJoinDate
	}
	status := req.Status
	if status == "" {
		status = StatusActive
	}
	if !validStatus(status) {
		return EmployeeResponse{}, employeeerrors.ErrInvalidStatus
	}
	departmentID, err := parseDepartmentID(req.DepartmentID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	rid := contextutil.GetRequestID(ctx)
	s.log(ctx).Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.log(ctx).Error("create employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	dept, err := s.findDepartment(ctx, qtx, departmentID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	taken, err := qtx.EmailExists(ctx, req.Email)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if taken {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeEmailExists
	}

	empl := &Employee{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		DepartmentID: departmentID,
		Department:   dept,
		Designation:  req.Designation,
		BaseSalary:   req.BaseSalary,
		JoinDate:     joinDate,
		Status:       status,
	}

	if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
		username := strings.TrimSpace(*req.Username)
		userID, err := s.provisionIdentity(ctx, tx, username)
		if err != nil {
			return EmployeeResponse{}, err
		}
		empl.UserID = &userID
		empl.User = &UserRef{ID: userID, Username: username}
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.log(ctx).Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.EmployeeCreatedEvent{
			EventType:    events.EmployeeCreatedType,
			RequestID:    rid,
			EmployeeID:   empl.ID.String(),
			Name:         empl.Name,
			Email:        empl.Email,
			DepartmentID: uuidString(empl.DepartmentID),
			UserID:       uuidString(empl.UserID),
			OccurredAt:   time.Now().UTC(),
		}
		outboxEvent, err := kafka.NewOutboxEvent(
			rid, "employee", empl.ID.String(), event.EventType, events.EmployeeCreatedTopic, event,
		)
		if err != nil {
			return EmployeeResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
			s.log(ctx).Error("create employee outbox persist failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.log(ctx).Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.log(ctx).Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.Bool("login_provisioned", empl.UserID != nil),
	)

	return mapToResponse(*empl), nil
}

func (s *service) provisionIdentity(ctx context.Context, tx *sql.Tx, username string) (uuid.UUID, error) {
	if s.identities == nil {
		return uuid.Nil, errors.New("identity provisioning is not configured")
	}

	hash, err := s.identities.HashPassword(s.identities.DefaultPassword())
	if err != nil {
		return uuid.Nil, err
	}

	identityID, err := s.identities.WithTx(tx).Provision(ctx, username, hash, rbac.RoleEmployee)
	if err != nil {
		s.log(ctx).Warn("provision login identity failed",
			zap.String("username", username),
			zap.Error(err),
		)
		return uuid.Nil, err
	}

	return uuid.Parse(identityID)
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	empls, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log(ctx).Error("get all employees failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(empls), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	emplID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	empl, err := s.repo.FindByID(ctx, emplID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) GetByDepartment(ctx context.Context, departmentID string) ([]EmployeeResponse, error) {
	deptID, err := uuid.Parse(departmentID)
	if err != nil {
		return []EmployeeResponse{}, nil
	}

	empls, err := s.repo.FindByDepartment(ctx, deptID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(empls), nil
}

func (s *service) CountActive(ctx context.Context) (int64, error) {
	return s.repo.CountByStatus(ctx, StatusActive)
}

// Update overwrites every field. Email is not re-checked up front; the
// unique index still reports a clash.
func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if err := apperror.Validate(req); err != nil {
		return EmployeeResponse{}, err
	}
	if !req.BaseSalary.IsPositive() {
		return EmployeeResponse{}, employeeerrors.ErrInvalidBaseSalary
	}
	joinDate, err := dateutil.ParseDate(req.JoinDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidJoinDate
	}
	if req.Status != nil && !validStatus(*req.Status) {
		return EmployeeResponse{}, employeeerrors.ErrInvalidStatus
	}
	departmentID, err := parseDepartmentID(req.DepartmentID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	emplID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.FindByID(ctx, emplID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	dept, err := s.findDepartment(ctx, qtx, departmentID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	empl.Name = strings.TrimSpace(req.Name)
	empl.Email = req.Email
	// Omitted keeps the current department; an empty string detaches.
	if req.DepartmentID != nil {
		empl.DepartmentID = departmentID
		empl.Department = dept
	}
	empl.Designation = req.Designation
	empl.BaseSalary = req.BaseSalary
	empl.JoinDate = joinDate
	if req.Status != nil {
		empl.Status = *req.Status
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.log(ctx).Error("update employee persist failed",
			zap.String("employee_id", id),
			zap.Error(err),
		)
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	return mapToResponse(*empl), nil
}

// Delete terminates the employee. Attendance and salary rows are kept.
func (s *service) Delete(ctx context.Context, id string) error {
	emplID, err := uuid.Parse(id)
	if err != nil {
		return employeeerrors.ErrEmployeeNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.FindByID(ctx, emplID)
	if err != nil {
		return mapRepositoryError(err)
	}

	empl.Status = StatusTerminated
	if err := qtx.Update(ctx, empl); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.log(ctx).Info("employee terminated", zap.String("employee_id", id))
	return nil
}

func (s *service) IsSelf(principal rbac.Principal, employeeID string) bool {
	return rbac.IsSelf(principal, employeeID)
}

func validStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusTerminated:
		return true
	default:
		return false
	}
}

// findDepartment resolves an optional department id; nil in, nil out.
func (s *service) findDepartment(ctx context.Context, qtx Repository, id *uuid.UUID) (*DepartmentRef, error) {
	if id == nil {
		return nil, nil
	}
	dept, err := qtx.FindDepartment(ctx, *id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, departmenterrors.ErrDepartmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return dept, nil
}

func parseDepartmentID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, departmenterrors.ErrDepartmentNotFound
	}
	return &id, nil
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func mapToResponse(empl Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:           empl.ID.String(),
		Name:         empl.Name,
		Email:        empl.Email,
		DepartmentID: uuidString(empl.DepartmentID),
		Designation:  empl.Designation,
		BaseSalary:   empl.BaseSalary,
		JoinDate:     dateutil.FormatDate(empl.JoinDate),
		Status:       empl.Status,
		UserID:       uuidString(empl.UserID),
	}
	if empl.Department != nil {
		resp.DepartmentName = empl.Department.Name
	}
	if empl.User != nil {
		resp.Username = empl.User.Username
	}
	return resp
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}
