package ports

import (
	"context"
	"time"

	"github.com/atelierhq/backoffice/internal/core/domain"
)

// CreateOrderInput carries all data needed to create a new order.
type CreateOrderInput struct {
	CustomerID   string
	CustomerName string
	Items        []domain.OrderItem
	DueDate      time.Time
	Notes        string
	ActorID      string
}

// ListOrdersFilter narrows and paginates an order listing.
type ListOrdersFilter struct {
	Status     string
	CustomerID string
	Search     string
	Page       int
	Limit      int
}

// OrderListResult is returned by the order listing use case.
type OrderListResult struct {
	Items      []*domain.Order
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UpdateOrderStatusInput carries a status transition request.
type UpdateOrderStatusInput struct {
	OrderID string
	Status  domain.OrderStatus
	Notes   string
	ActorID string
}

// OrderRepository persists orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, f ListOrdersFilter) ([]*domain.Order, int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, entry domain.OrderStatusEntry) error
	Recent(ctx context.Context, limit int) ([]*domain.Order, error)
	CountOverdue(ctx context.Context, before time.Time) (int64, error)
}

// DashboardSummary is the landing page's at-a-glance view.
type DashboardSummary struct {
	RecentOrders []*domain.Order
	OverdueCount int64
}

// OrderService defines the order and dashboard use cases.
type OrderService interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, f ListOrdersFilter) (*OrderListResult, error)
	UpdateStatus(ctx context.Context, in UpdateOrderStatusInput) (*domain.Order, error)
	Dashboard(ctx context.Context) (*DashboardSummary, error)
}
