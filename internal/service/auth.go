package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"

	"gestionale/internal/domain"
)

var tracer = otel.Tracer("auth")

// UserRepository looks up login accounts.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// AuthService is the session gate: it turns credentials into opaque
// server-side sessions and validates tokens on every protected call.
type AuthService struct {
	users    UserRepository
	sessions SessionStore
	ttl      time.Duration
}

func NewAuthService(
	users UserRepository,
	sessions SessionStore,
	ttl time.Duration,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
	}
}

// SessionTTL is the validity window new sessions are issued with.
func (s *AuthService) SessionTTL() time.Duration {
	return s.ttl
}

// Login verifies the credentials and issues a session token. Unknown
// email and wrong password both come back as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email string, password string) (string, domain.Operator, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.Login")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.Operator{}, domain.ErrInvalidCredentials
		}
		span.RecordError(errors.Wrap(err, "user lookup failed"))
		return "", domain.Operator{}, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return "", domain.Operator{}, domain.ErrInvalidCredentials
	}

	token := uuid.New().String()
	err = s.sessions.Set(ctx, token, Session{Email: user.Email, Nome: user.Nome}, s.ttl)
	if err != nil {
		span.RecordError(errors.Wrap(err, "session store failed"))
		return "", domain.Operator{}, err
	}

	return token, domain.Operator{Email: user.Email, Nome: user.Nome}, nil
}

// Logout invalidates the token. Unknown tokens are fine.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	ctx, span := tracer.Start(ctx, "Auth.Service.Logout")
	defer span.End()

	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Authorize resolves a token to its operator. Missing or expired
// sessions come back as ErrNotFound.
func (s *AuthService) Authorize(ctx context.Context, token string) (domain.Operator, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.Authorize")
	defer span.End()

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return domain.Operator{}, err
	}
	return domain.Operator{Email: session.Email, Nome: session.Nome}, nil
}
