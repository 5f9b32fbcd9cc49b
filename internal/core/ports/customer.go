package ports

import (
	"context"

	"github.com/atelierhq/backoffice/internal/core/domain"
)

// ListCustomersFilter narrows and paginates a customer listing.
type ListCustomersFilter struct {
	Search          string
	IncludeArchived bool
	Page            int
	Limit           int
}

// CustomerRepository persists customers.
type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, f ListCustomersFilter) ([]*domain.Customer, int64, error)
	Update(ctx context.Context, c *domain.Customer) error
}

// CustomerListResult is returned by the customer listing use case.
type CustomerListResult struct {
	Items      []*domain.Customer
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CustomerService defines the customer screen's use cases.
type CustomerService interface {
	Create(ctx context.Context, c *domain.Customer, actorID string) (*domain.Customer, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, f ListCustomersFilter) (*CustomerListResult, error)
	Update(ctx context.Context, c *domain.Customer, actorID string) error
	Archive(ctx context.Context, id, actorID string) error
}
