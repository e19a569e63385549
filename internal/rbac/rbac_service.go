package rbac

import (
	"context"
	"fmt"

	"go-ems/internal/rbac/infra"
	"go-ems/internal/shared/contextutil"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

func (d Decision) Allowed() bool { return bool(d) }

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Decide(ctx context.Context, principal Principal, op Operation, res Resource) (Decision, error)
}

type service struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
}

// NewService loads the built-in access policy.
func NewService(logger ...*zap.Logger) (Service, error) {
	enforcer, err := infra.NewEnforcer(modelText, policyRows)
	if err != nil {
		return nil, fmt.Errorf("load access policy: %w", err)
	}
	return NewServiceWithEnforcer(enforcer, logger...), nil
}

func NewServiceWithEnforcer(enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	return &service{
		enforcer: enforcer,
		logger:   l,
	}
}

// Decide is deny-by-default: unknown roles and unmatched operations are
// refused without consulting the enforcer further.
func (s *service) Decide(ctx context.Context, principal Principal, op Operation, res Resource) (Decision, error) {
	logger := contextutil.GetLogger(ctx, s.logger)

	if principal.IdentityID == "" || !ValidRole(principal.Role) {
		logger.Debug("rbac deny: invalid principal", zap.String("role", principal.Role))
		return Deny, nil
	}

	scope := scopeAny
	if IsSelf(principal, res.EmployeeID) {
		scope = scopeSelf
	}

	allowed, err := s.enforcer.Enforce(principal.Role, op.Resource, op.Action, scope)
	if err != nil {
		logger.Error("rbac enforce failed", zap.String("operation", op.String()), zap.Error(err))
		return Deny, err
	}

	logger.Debug("rbac decision",
		zap.String("identity_id", principal.IdentityID),
		zap.String("role", principal.Role),
		zap.String("operation", op.String()),
		zap.String("scope", scope),
		zap.Bool("allowed", allowed),
	)

	return Decision(allowed), nil
}
