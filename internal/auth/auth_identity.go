package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go-ems/internal/employee"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IdentityService provisions login identities inside the caller's
// transaction. It satisfies employee.IdentityProvisioner.
type IdentityService struct {
	repo            Repository
	defaultPassword string
}

var _ employee.IdentityProvisioner = (*IdentityService)(nil)

func NewIdentityService(repo Repository, defaultPassword string) *IdentityService {
	return &IdentityService{repo: repo, defaultPassword: defaultPassword}
}

func (s *IdentityService) WithTx(tx *sql.Tx) employee.IdentityProvisioner {
	return &IdentityService{repo: s.repo.WithTx(tx), defaultPassword: s.defaultPassword}
}

func (s *IdentityService) DefaultPassword() string {
	return s.defaultPassword
}

func (s *IdentityService) HashPassword(plain string) (string, error) {
	return HashPassword(plain)
}

func (s *IdentityService) Provision(ctx context.Context, username, passwordHash, role string) (string, error) {
	user, err := createIdentity(ctx, s.repo, username, passwordHash, role)
	if err != nil {
		return "", err
	}
	return user.ID.String(), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "uq_user_username") ||
		strings.Contains(msg, "unique constraint failed: users.username")
}
