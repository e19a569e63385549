package department

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	departmenterrors "go-ems/internal/department/errors"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	AllDepartmentsCacheKey = "departments:all"
	allDepartmentsCacheTTL = 30 * time.Minute
)

//go:generate mockgen -source=department_service.go -destination=mock/department_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error)
	GetAll(ctx context.Context) ([]DepartmentResponse, error)
	GetByID(ctx context.Context, id string) (DepartmentResponse, error)
	FindByID(ctx context.Context, id string) (DepartmentResponse, bool, error)
	Update(ctx context.Context, id string, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

// NewService wires the registry. rdb may be nil, in which case the list is
// always read from the store.
func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("department.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error) {
	if err := apperror.Validate(req); err != nil {
		return DepartmentResponse{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return DepartmentResponse{}, departmenterrors.ErrDepartmentNameRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DepartmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	taken, err := qtx.NameTaken(ctx, name, nil)
	if err != nil {
		return DepartmentResponse{}, err
	}
	if taken {
		return DepartmentResponse{}, departmenterrors.ErrDepartmentNameExists
	}

	dept := &Department{
		ID:          uuid.New(),
		Name:        name,
		Description: req.Description,
	}

	if err := qtx.Create(ctx, dept); err != nil {
		s.log(ctx).Error("create department persist failed", zap.Error(err))
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return DepartmentResponse{}, err
	}

	s.invalidateCache(ctx)
	s.log(ctx).Info("department created", zap.String("department_id", dept.ID.String()))

	return mapToResponse(*dept), nil
}

func (s *service) GetAll(ctx context.Context) ([]DepartmentResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, AllDepartmentsCacheKey).Result(); err == nil {
			var resp []DepartmentResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(AllDepartmentsCacheKey, func() (interface{}, error) {
		depts, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(depts)

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, AllDepartmentsCacheKey, data, allDepartmentsCacheTTL).Err(); err != nil {
					s.log(ctx).Warn("cache departments failed", zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		s.log(ctx).Error("get all departments failed", zap.Error(err))
		return nil, err
	}

	return v.([]DepartmentResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (DepartmentResponse, error) {
	resp, found, err := s.FindByID(ctx, id)
	if err != nil {
		return DepartmentResponse{}, err
	}
	if !found {
		return DepartmentResponse{}, departmenterrors.ErrDepartmentNotFound
	}
	return resp, nil
}

// FindByID reports a miss through found rather than an error.
func (s *service) FindByID(ctx context.Context, id string) (DepartmentResponse, bool, error) {
	deptID, err := uuid.Parse(id)
	if err != nil {
		return DepartmentResponse{}, false, nil
	}

	dept, err := s.repo.FindByID(ctx, deptID)
	if err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, departmenterrors.ErrDepartmentNotFound) {
			return DepartmentResponse{}, false, nil
		}
		return DepartmentResponse{}, false, mapped
	}

	return mapToResponse(*dept), true, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateDepartmentRequest) (DepartmentResponse, error) {
	if err := apperror.Validate(req); err != nil {
		return DepartmentResponse{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return DepartmentResponse{}, departmenterrors.ErrDepartmentNameRequired
	}

	deptID, err := uuid.Parse(id)
	if err != nil {
		return DepartmentResponse{}, departmenterrors.ErrDepartmentNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DepartmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	dept, err := qtx.FindByID(ctx, deptID)
	if err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	if name != dept.Name {
		taken, err := qtx.NameTaken(ctx, name, &dept.ID)
		if err != nil {
			return DepartmentResponse{}, err
		}
		if taken {
			return DepartmentResponse{}, departmenterrors.ErrDepartmentNameExists
		}
	}

	dept.Name = name
	dept.Description = req.Description

	if err := qtx.Update(ctx, dept); err != nil {
		s.log(ctx).Error("update department persist failed", zap.Error(err))
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return DepartmentResponse{}, err
	}

	s.invalidateCache(ctx)

	return mapToResponse(*dept), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	deptID, err := uuid.Parse(id)
	if err != nil {
		return departmenterrors.ErrDepartmentNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, deptID); err != nil {
		return mapRepositoryError(err)
	}

	count, err := qtx.CountEmployees(ctx, deptID)
	if err != nil {
		return err
	}
	if count > 0 {
		s.log(ctx).Warn("delete department refused",
			zap.String("department_id", id),
			zap.Int64("employees", count),
		)
		return departmenterrors.ErrDepartmentHasEmployees
	}

	if err := qtx.Delete(ctx, deptID); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	s.log(ctx).Info("department deleted", zap.String("department_id", id))

	return nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, AllDepartmentsCacheKey).Err(); err != nil {
		s.log(ctx).Error("failed to invalidate departments cache",
			zap.Error(err),
			zap.String("key", AllDepartmentsCacheKey),
		)
	}
}

func mapToResponse(dept Department) DepartmentResponse {
	resp := DepartmentResponse{
		ID:          dept.ID.String(),
		Name:        dept.Name,
		Description: dept.Description,
	}
	if !dept.CreatedAt.IsZero() {
		resp.CreatedAt = dept.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !dept.UpdatedAt.IsZero() {
		resp.UpdatedAt = dept.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(depts []Department) []DepartmentResponse {
	res := make([]DepartmentResponse, len(depts))
	for i, d := range depts {
		res[i] = mapToResponse(d)
	}
	return res
}
