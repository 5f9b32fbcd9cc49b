package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelierhq/backoffice/internal/core/domain"
	"github.com/atelierhq/backoffice/internal/core/ports"
)

type OrderService struct {
	repo     ports.OrderRepository
	settings *SettingsService
	audit    ports.AuditRecorder
	log      zerolog.Logger
}

func NewOrderService(repo ports.OrderRepository, settings *SettingsService, audit ports.AuditRecorder, log zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, settings: settings, audit: audit, log: log}
}

// Create builds a new order in pending state. Totals are computed here with
// the configured tax rate, not accepted from the caller.
func (s *OrderService) Create(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, error) {
	now := time.Now().UTC()

	var subtotal float64
	for _, item := range in.Items {
		subtotal += float64(item.Quantity) * item.UnitPrice
	}
	tax := roundCents(subtotal * s.settings.TaxRate(ctx))

	order := &domain.Order{
		OrderNumber:  generateOrderNumber(),
		CustomerID:   in.CustomerID,
		CustomerName: in.CustomerName,
		Items:        in.Items,
		Subtotal:     roundCents(subtotal),
		Tax:          tax,
		Total:        roundCents(subtotal + tax),
		Status:       domain.OrderPending,
		DueDate:      in.DueDate,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
		StatusHistory: []domain.OrderStatusEntry{
			{Status: domain.OrderPending, Timestamp: now, ChangedBy: in.ActorID},
		},
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	s.audit.Record(domain.AuditEntry{
		Entity:   "order",
		EntityID: created.ID,
		Action:   "create",
		ActorID:  in.ActorID,
		Detail:   created.OrderNumber,
		At:       now,
	})

	s.log.Info().Str("order_number", created.OrderNumber).Str("customer_id", in.CustomerID).Msg("order created")
	return created, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *OrderService) List(ctx context.Context, f ports.ListOrdersFilter) (*ports.OrderListResult, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = s.settings.OrderPageSize(ctx)
	}
	if max := s.settings.MaxSearchResults(ctx); f.Limit > max {
		f.Limit = max
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	return &ports.OrderListResult{
		Items:      items,
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: totalPages(total, f.Limit),
	}, nil
}

// UpdateStatus applies a status transition, enforcing the order state
// machine and appending to the status history.
func (s *OrderService) UpdateStatus(ctx context.Context, in ports.UpdateOrderStatusInput) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(in.Status) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, order.Status, in.Status)
	}

	entry := domain.OrderStatusEntry{
		Status:    in.Status,
		Timestamp: time.Now().UTC(),
		ChangedBy: in.ActorID,
		Notes:     in.Notes,
	}
	if err := s.repo.UpdateStatus(ctx, in.OrderID, in.Status, entry); err != nil {
		return nil, err
	}

	order.Status = in.Status
	order.UpdatedAt = entry.Timestamp
	order.StatusHistory = append(order.StatusHistory, entry)

	s.audit.Record(domain.AuditEntry{
		Entity:   "order",
		EntityID: order.ID,
		Action:   "status:" + string(in.Status),
		ActorID:  in.ActorID,
		Detail:   order.OrderNumber,
		At:       entry.Timestamp,
	})

	s.log.Info().Str("order_number", order.OrderNumber).Str("status", string(in.Status)).Msg("order status updated")
	return order, nil
}

// Dashboard assembles the landing page summary: the most recent orders and
// the count of undelivered orders past the configured overdue threshold.
func (s *OrderService) Dashboard(ctx context.Context) (*ports.DashboardSummary, error) {
	recent, err := s.repo.Recent(ctx, s.settings.RecentOrdersLimit(ctx))
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -s.settings.OverdueThresholdDays(ctx))
	overdue, err := s.repo.CountOverdue(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	return &ports.DashboardSummary{RecentOrders: recent, OverdueCount: overdue}, nil
}

// generateOrderNumber returns a unique order number in the format ATL-XXXXXXXX.
func generateOrderNumber() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("ATL-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("ATL-%08X", b)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
