package ports

import (
	"context"

	"github.com/atelierhq/backoffice/internal/core/domain"
)

// CreateUserInput carries a new staff account.
type CreateUserInput struct {
	Username string
	Password string
	Email    string
	FullName string
	Role     string
	ActorID  string
}

// UpdateUserInput carries the mutable fields of an account. Empty fields are
// left unchanged; Active is always applied.
type UpdateUserInput struct {
	UserID   string
	Email    string
	FullName string
	Role     string
	Active   bool
	ActorID  string
}

// UserService defines the user-administration use cases.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, in UpdateUserInput) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, password, actorID string) error
}
