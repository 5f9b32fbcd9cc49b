package ports

import (
	"context"
	"time"

	"github.com/atelierhq/backoffice/internal/core/domain"
)

// SessionStore persists server-side login sessions.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// LoginResult carries everything a successful login hands back: a bearer
// token for API clients and a session ID for the cookie the screens use.
type LoginResult struct {
	Token     string
	SessionID string
	User      *domain.User
}

// AuthService implements login and logout against the user store.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	VerifySession(ctx context.Context, sessionID string) (*domain.Session, error)
}
