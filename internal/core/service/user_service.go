package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/atelierhq/backoffice/internal/core/domain"
	"github.com/atelierhq/backoffice/internal/core/ports"
)

type UserService struct {
	repo  ports.UserRepository
	audit ports.AuditRecorder
	log   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, audit ports.AuditRecorder, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, audit: audit, log: log}
}

// Create registers a staff account. Role strings are open: anything beyond
// the well-known roles simply resolves to the minimal feature set unless an
// override is configured for it.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if in.Username == "" || in.Password == "" || in.Role == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: string(hash),
		Role:         in.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEntry{
		Entity:   "user",
		EntityID: created.ID,
		Action:   "create",
		ActorID:  in.ActorID,
		Detail:   created.Username,
		At:       now,
	})
	return created, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Update(ctx context.Context, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Email != "" {
		user.Email = in.Email
	}
	if in.FullName != "" {
		user.FullName = in.FullName
	}
	if in.Role != "" {
		user.Role = in.Role
	}
	user.Active = in.Active
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEntry{
		Entity:   "user",
		EntityID: user.ID,
		Action:   "update",
		ActorID:  in.ActorID,
		Detail:   user.Username,
		At:       user.UpdatedAt,
	})
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID, password, actorID string) error {
	if password == "" {
		return domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	s.audit.Record(domain.AuditEntry{
		Entity:   "user",
		EntityID: userID,
		Action:   "change_password",
		ActorID:  actorID,
		At:       user.UpdatedAt,
	})
	return nil
}
