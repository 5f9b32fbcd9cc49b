package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelierhq/backoffice/internal/core/domain"
	"github.com/atelierhq/backoffice/internal/core/ports"
)

type CustomerService struct {
	repo     ports.CustomerRepository
	settings *SettingsService
	audit    ports.AuditRecorder
	log      zerolog.Logger
}

func NewCustomerService(repo ports.CustomerRepository, settings *SettingsService, audit ports.AuditRecorder, log zerolog.Logger) *CustomerService {
	return &CustomerService{repo: repo, settings: settings, audit: audit, log: log}
}

func (s *CustomerService) Create(ctx context.Context, c *domain.Customer, actorID string) (*domain.Customer, error) {
	now := time.Now().UTC()
	c.Archived = false
	c.CreatedAt = now
	c.UpdatedAt = now

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create customer")
		return nil, err
	}

	s.audit.Record(domain.AuditEntry{
		Entity:   "customer",
		EntityID: created.ID,
		Action:   "create",
		ActorID:  actorID,
		At:       now,
	})
	return created, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

// List searches and paginates customers. A missing page size falls back to
// the configured default; the search result cap is also configured.
func (s *CustomerService) List(ctx context.Context, f ports.ListCustomersFilter) (*ports.CustomerListResult, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = s.settings.CustomerPageSize(ctx)
	}
	if max := s.settings.MaxSearchResults(ctx); f.Limit > max {
		f.Limit = max
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	return &ports.CustomerListResult{
		Items:      items,
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: totalPages(total, f.Limit),
	}, nil
}

func (s *CustomerService) Update(ctx context.Context, c *domain.Customer, actorID string) error {
	existing, err := s.repo.FindByID(ctx, c.ID)
	if err != nil {
		return err
	}

	c.CreatedAt = existing.CreatedAt
	c.Archived = existing.Archived
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return err
	}

	s.audit.Record(domain.AuditEntry{
		Entity:   "customer",
		EntityID: c.ID,
		Action:   "update",
		ActorID:  actorID,
		At:       c.UpdatedAt,
	})
	return nil
}

// Archive soft-hides a customer from the default listing. Customers are
// never deleted; orders keep referencing them.
func (s *CustomerService) Archive(ctx context.Context, id, actorID string) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	c.Archived = true
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return err
	}

	s.audit.Record(domain.AuditEntry{
		Entity:   "customer",
		EntityID: id,
		Action:   "archive",
		ActorID:  actorID,
		At:       c.UpdatedAt,
	})
	return nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
