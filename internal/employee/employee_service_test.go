package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	departmenterrors "go-ems/internal/department/errors"
	"go-ems/internal/employee"
	employeeerrors "go-ems/internal/employee/errors"
	employeeMock "go-ems/internal/employee/mock"
	"go-ems/internal/events"
	"go-ems/internal/messaging/kafka"
	kafkaMock "go-ems/internal/messaging/kafka/mock"
	"go-ems/internal/rbac"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db         *sql.DB
	sqlMock    sqlmock.Sqlmock
	service    employee.Service
	repo       *employeeMock.MockRepository
	identities *employeeMock.MockIdentityProvisioner
	outbox     *kafkaMock.MockOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	repo := employeeMock.NewMockRepository(ctrl)
	identities := employeeMock.NewMockIdentityProvisioner(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	svc := employee.NewServiceWithOutbox(db, repo, identities, outboxRepo)

	return &serviceDeps{
		db:         db,
		sqlMock:    sqlMock,
		service:    svc,
		repo:       repo,
		identities: identities,
		outbox:     outboxRepo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func strPtr(s string) *string { return &s }

func validCreateRequest() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		Name:        "Ada Lovelace",
		Email:       "ada@example.com",
		Designation: "Engineer",
		BaseSalary:  decimal.NewFromInt(5000),
		JoinDate:    "2024-01-02",
	}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success without login identity", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deptID := uuid.New()
		req := validCreateRequest()
		req.DepartmentID = strPtr(deptID.String())

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindDepartment(ctx, deptID).Return(&employee.DepartmentRef{ID: deptID, Name: "Engineering"}, nil)
		deps.repo.EXPECT().EmailExists(ctx, req.Email).Return(false, nil)
		deps.identities.EXPECT().Provision(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, "Ada Lovelace", e.Name)
				assert.Equal(t, employee.StatusActive, e.Status)
				assert.Equal(t, deptID, *e.DepartmentID)
				assert.Nil(t, e.UserID)
				assert.True(t, decimal.NewFromInt(5000).Equal(e.BaseSalary))
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "2024-01-02", resp.JoinDate)
		assert.Equal(t, deptID.String(), resp.DepartmentID)
		assert.Equal(t, "Engineering", resp.DepartmentName)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("username provisions an employee identity", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		identityID := uuid.New()
		req := validCreateRequest()
		req.Username = strPtr("ada.lovelace")

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().EmailExists(ctx, req.Email).Return(false, nil)
		deps.identities.EXPECT().DefaultPassword().Return("password123")
		deps.identities.EXPECT().HashPassword("password123").Return("hashed", nil)
		deps.identities.EXPECT().WithTx(gomock.Any()).Return(deps.identities)
		deps.identities.EXPECT().
			Provision(ctx, "ada.lovelace", "hashed", rbac.RoleEmployee).
			Return(identityID.String(), nil)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, identityID, *e.UserID)
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, identityID.String(), resp.UserID)
		assert.Equal(t, "ada.lovelace", resp.Username)
	})

	t.Run("outbox event carries request id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		rid := "REQ-123-ABC"
		ctx := contextutil.WithRequestID(context.Background(), rid)
		req := validCreateRequest()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().EmailExists(gomock.Any(), gomock.Any()).Return(false, nil)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(gomock.Any(), MatchOutboxWithRID(rid)).
			Return(nil).
			Times(1)

		_, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
	})

	t.Run("unknown department is not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deptID := uuid.New()
		req := validCreateRequest()
		req.DepartmentID = strPtr(deptID.String())

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindDepartment(ctx, deptID).Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate email is conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := validCreateRequest()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().EmailExists(ctx, req.Email).Return(true, nil)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeEmailExists)
		assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))
	})

	t.Run("unique violation from store is conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := validCreateRequest()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().EmailExists(ctx, req.Email).Return(false, nil)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_email"})

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeEmailExists)
	})

	t.Run("provisioning failure rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := validCreateRequest()
		req.Username = strPtr("taken")
		provisionErr := errors.New("username taken")

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().EmailExists(ctx, req.Email).Return(false, nil)
		deps.identities.EXPECT().DefaultPassword().Return("password123")
		deps.identities.EXPECT().HashPassword("password123").Return("hashed", nil)
		deps.identities.EXPECT().WithTx(gomock.Any()).Return(deps.identities)
		deps.identities.EXPECT().Provision(ctx, "taken", "hashed", rbac.RoleEmployee).Return("", provisionErr)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, provisionErr)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("non positive salary is invalid input", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := validCreateRequest()
		req.BaseSalary = decimal.Zero

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidBaseSalary)
	})

	t.Run("missing email is invalid input", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := validCreateRequest()
		req.Email = ""

		_, err := deps.service.Create(ctx, req)

		assert.Equal(t, apperror.CodeInvalidInput, apperror.CodeOf(err))
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		deps.repo.EXPECT().
			FindByID(ctx, id).
			Return(&employee.Employee{ID: id, Name: "Ada", Status: employee.StatusActive}, nil)

		resp, err := deps.service.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, "Ada", resp.Name)
	})

	t.Run("missing", func(t *testing.T) {
		deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetByID(ctx, id.String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := deps.service.GetByID(ctx, "abc")

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Reads(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	deptID := uuid.New()

	t.Run("by department", func(t *testing.T) {
		deps.repo.EXPECT().
			FindByDepartment(ctx, deptID).
			Return([]employee.Employee{{ID: uuid.New(), Name: "Ada", DepartmentID: &deptID}}, nil)

		resp, err := deps.service.GetByDepartment(ctx, deptID.String())

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, deptID.String(), resp[0].DepartmentID)
	})

	t.Run("count active", func(t *testing.T) {
		deps.repo.EXPECT().CountByStatus(ctx, employee.StatusActive).Return(int64(4), nil)

		count, err := deps.service.CountActive(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})

	t.Run("list error", func(t *testing.T) {
		deps.repo.EXPECT().FindAll(ctx).Return(nil, errors.New("db down"))

		resp, err := deps.service.GetAll(ctx)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	updateReq := func() employee.UpdateEmployeeRequest {
		return employee.UpdateEmployeeRequest{
			Name:        "Ada King",
			Email:       "other@example.com",
			Designation: "Lead",
			BaseSalary:  decimal.NewFromInt(6000),
			JoinDate:    "2024-01-02",
			Status:      strPtr(employee.StatusInactive),
		}
	}

	t.Run("overwrites fields without email pre-check", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByID(ctx, id).
			Return(&employee.Employee{ID: id, Name: "Ada", Email: "ada@example.com", Status: employee.StatusActive}, nil)
		deps.repo.EXPECT().EmailExists(gomock.Any(), gomock.Any()).Times(0)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, "Ada King", e.Name)
				assert.Equal(t, "other@example.com", e.Email)
				assert.Equal(t, employee.StatusInactive, e.Status)
				assert.Nil(t, e.DepartmentID)
				return nil
			})

		resp, err := deps.service.Update(ctx, id.String(), updateReq())

		assert.NoError(t, err)
		assert.Equal(t, "Lead", resp.Designation)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("absent status keeps current", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := updateReq()
		req.Status = nil

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByID(ctx, id).
			Return(&employee.Employee{ID: id, Status: employee.StatusActive}, nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		resp, err := deps.service.Update(ctx, id.String(), req)

		assert.NoError(t, err)
		assert.Equal(t, employee.StatusActive, resp.Status)
	})

	t.Run("absent department keeps current", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		engineering := uuid.New()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByID(ctx, id).
			Return(&employee.Employee{ID: id, DepartmentID: &engineering, Status: employee.StatusActive}, nil)
		deps.repo.EXPECT().FindDepartment(gomock.Any(), gomock.Any()).Times(0)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				if assert.NotNil(t, e.DepartmentID) {
					assert.Equal(t, engineering, *e.DepartmentID)
				}
				return nil
			})

		resp, err := deps.service.Update(ctx, id.String(), updateReq())

		assert.NoError(t, err)
		assert.Equal(t, engineering.String(), resp.DepartmentID)
	})

	t.Run("empty department detaches", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		engineering := uuid.New()
		req := updateReq()
		req.DepartmentID = strPtr("")

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByID(ctx, id).
			Return(&employee.Employee{ID: id, DepartmentID: &engineering}, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Nil(t, e.DepartmentID)
				return nil
			})

		resp, err := deps.service.Update(ctx, id.String(), req)

		assert.NoError(t, err)
		assert.Empty(t, resp.DepartmentID)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Update(ctx, id.String(), updateReq())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("unknown department on reassignment", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deptID := uuid.New()
		req := updateReq()
		req.DepartmentID = strPtr(deptID.String())

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(&employee.Employee{ID: id}, nil)
		deps.repo.EXPECT().FindDepartment(ctx, deptID).Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)

		_, err := deps.service.Update(ctx, id.String(), req)

		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotFound)
	})

	t.Run("store clash on email is conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(&employee.Employee{ID: id}, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			Return(errors.New("UNIQUE constraint failed: employees.email"))

		_, err := deps.service.Update(ctx, id.String(), updateReq())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeEmailExists)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("marks terminated", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByID(ctx, id).
			Return(&employee.Employee{ID: id, Status: employee.StatusActive}, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, employee.StatusTerminated, e.Status)
				return nil
			})

		err := deps.service.Delete(ctx, id.String())

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		err := deps.service.Delete(ctx, id.String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_IsSelf(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	p := rbac.Principal{IdentityID: "u-1", Role: rbac.RoleEmployee, EmployeeID: "7"}

	assert.True(t, deps.service.IsSelf(p, "7"))
	assert.False(t, deps.service.IsSelf(p, "8"))
	assert.False(t, deps.service.IsSelf(rbac.Principal{Role: rbac.RoleHR}, ""))
}

type outboxRequestIDMatcher struct {
	expectedRID string
}

func (m outboxRequestIDMatcher) Matches(x any) bool {
	event, ok := x.(kafka.OutboxEvent)
	if !ok {
		return false
	}

	if event.RequestID != m.expectedRID || event.Topic != events.EmployeeCreatedTopic {
		return false
	}

	var payload events.EmployeeCreatedEvent
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return false
	}

	return payload.RequestID == m.expectedRID && payload.EventType == events.EmployeeCreatedType
}

func (m outboxRequestIDMatcher) String() string {
	return "matches outbox event with request_id " + m.expectedRID
}

func MatchOutboxWithRID(rid string) gomock.Matcher {
	return outboxRequestIDMatcher{expectedRID: rid}
}
