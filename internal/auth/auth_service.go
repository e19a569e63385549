package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	autherrors "go-ems/internal/auth/errors"
	"go-ems/internal/rbac"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/contextutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Me(ctx context.Context, identityID string) (IdentityResponse, error)
	Register(ctx context.Context, req RegisterRequest) (IdentityResponse, error)
}

// TokenConfig holds the HS256 signing secret and access token lifetime.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

type service struct {
	repo   Repository
	tokens TokenConfig
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, tokens TokenConfig, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if tokens.TTL <= 0 {
		tokens.TTL = 24 * time.Hour
	}
	return &service{repo: repo, tokens: tokens, now: time.Now, logger: l}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

// Login checks the password before the enabled flag so a disabled account
// does not reveal itself to a caller without the password.
func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResponse{}, autherrors.ErrInvalidCredentials
		}
		return LoginResponse{}, err
	}

	if !CheckPassword(user.PasswordHash, req.Password) {
		s.log(ctx).Info("login rejected", zap.String("username", user.Username))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}
	if !user.Enabled {
		return LoginResponse{}, autherrors.ErrIdentityDisabled
	}

	employeeID, err := s.repo.EmployeeIDByUser(ctx, user.ID)
	if err != nil {
		return LoginResponse{}, err
	}

	token, err := s.issueToken(user, employeeID)
	if err != nil {
		s.log(ctx).Error("sign token failed", zap.Error(err))
		return LoginResponse{}, apperror.WithCause(apperror.ErrInternal, err)
	}

	s.log(ctx).Info("login success",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role),
	)

	return LoginResponse{
		Token:      token,
		Username:   user.Username,
		Role:       user.Role,
		EmployeeID: employeeID,
	}, nil
}

func (s *service) Me(ctx context.Context, identityID string) (IdentityResponse, error) {
	id, err := uuid.Parse(identityID)
	if err != nil {
		return IdentityResponse{}, autherrors.ErrIdentityNotFound
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return IdentityResponse{}, autherrors.ErrIdentityNotFound
		}
		return IdentityResponse{}, err
	}

	employeeID, err := s.repo.EmployeeIDByUser(ctx, user.ID)
	if err != nil {
		return IdentityResponse{}, err
	}

	return mapToResponse(*user, employeeID), nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (IdentityResponse, error) {
	if err := apperror.Validate(req); err != nil {
		return IdentityResponse{}, err
	}
	if !rbac.ValidRole(req.Role) {
		return IdentityResponse{}, autherrors.ErrInvalidRole
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return IdentityResponse{}, err
	}

	user, err := createIdentity(ctx, s.repo, strings.TrimSpace(req.Username), hash, req.Role)
	if err != nil {
		return IdentityResponse{}, err
	}

	s.log(ctx).Info("identity registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role),
	)
	return mapToResponse(*user, ""), nil
}

func (s *service) issueToken(user *User, employeeID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":     user.ID.String(),
		"username":    user.Username,
		"role":        user.Role,
		"employee_id": employeeID,
		"iat":         s.now().Unix(),
		"exp":         s.now().Add(s.tokens.TTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.tokens.Secret)
}

func createIdentity(ctx context.Context, repo Repository, username, passwordHash, role string) (*User, error) {
	taken, err := repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, autherrors.ErrUsernameTaken
	}

	user := &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		Enabled:      true,
	}
	if err := repo.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, autherrors.ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

func mapToResponse(u User, employeeID string) IdentityResponse {
	return IdentityResponse{
		ID:         u.ID.String(),
		Username:   u.Username,
		Role:       u.Role,
		EmployeeID: employeeID,
		Enabled:    u.Enabled,
	}
}
