package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/atelierhq/backoffice/internal/core/domain"
	"github.com/atelierhq/backoffice/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubAudit struct {
	entries []domain.AuditEntry
}

func (a *stubAudit) Record(entry domain.AuditEntry) {
	a.entries = append(a.entries, entry)
}

type stubOrderRepo struct {
	byID      map[string]*domain.Order
	nextID    int
	createErr error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byID: make(map[string]*domain.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := *o
	clone.ID = "order_" + strconv.Itoa(r.nextID)
	r.byID[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) List(_ context.Context, f ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	var matched []*domain.Order
	for _, o := range r.byID {
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		if f.CustomerID != "" && o.CustomerID != f.CustomerID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(o.OrderNumber), strings.ToLower(f.Search)) {
			continue
		}
		clone := *o
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, entry domain.OrderStatusEntry) error {
	o, ok := r.byID[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = entry.Timestamp
	o.StatusHistory = append(o.StatusHistory, entry)
	return nil
}

func (r *stubOrderRepo) Recent(_ context.Context, limit int) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.byID {
		if len(out) == limit {
			break
		}
		clone := *o
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubOrderRepo) CountOverdue(_ context.Context, before time.Time) (int64, error) {
	var n int64
	for _, o := range r.byID {
		if o.Status == domain.OrderDelivered || o.Status == domain.OrderCancelled {
			continue
		}
		if !o.DueDate.IsZero() && o.DueDate.Before(before) {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newOrderUnderTest(repo *stubOrderRepo, settingsRepo *stubSettingsRepo, audit *stubAudit) *OrderService {
	if settingsRepo == nil {
		settingsRepo = newStubSettingsRepo()
	}
	settings := NewSettingsService(settingsRepo, discardLogger)
	return NewOrderService(repo, settings, audit, discardLogger)
}

func twoLineItems() []domain.OrderItem {
	return []domain.OrderItem{
		{Description: "business cards", Quantity: 500, UnitPrice: 0.12},
		{Description: "setup fee", Quantity: 1, UnitPrice: 40},
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestOrderService_Create_ComputesTotalsWithConfiguredTaxRate(t *testing.T) {
	repo := newStubOrderRepo()
	audit := &stubAudit{}
	svc := newOrderUnderTest(repo, nil, audit)

	order, err := svc.Create(context.Background(), ports.CreateOrderInput{
		CustomerID:   "cust_1",
		CustomerName: "Maple & Co",
		Items:        twoLineItems(),
		ActorID:      "user_1",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// 500*0.12 + 40 = 100.00, default CT tax rate 6.35%
	if order.Subtotal != 100.00 {
		t.Errorf("expected subtotal 100.00, got %v", order.Subtotal)
	}
	if order.Tax != 6.35 {
		t.Errorf("expected tax 6.35, got %v", order.Tax)
	}
	if order.Total != 106.35 {
		t.Errorf("expected total 106.35, got %v", order.Total)
	}
	if !strings.HasPrefix(order.OrderNumber, "ATL-") {
		t.Errorf("order number format wrong: %s", order.OrderNumber)
	}
	if order.Status != domain.OrderPending {
		t.Errorf("expected status %q, got %q", domain.OrderPending, order.Status)
	}
	if len(order.StatusHistory) != 1 || order.StatusHistory[0].Status != domain.OrderPending {
		t.Errorf("expected one pending history entry, got %v", order.StatusHistory)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != "create" {
		t.Errorf("expected one create audit entry, got %v", audit.entries)
	}
}

func TestOrderService_Create_UsesOverriddenTaxRate(t *testing.T) {
	settingsRepo := newStubSettingsRepo()
	settingsRepo.seed("business.ct_tax_rate", domain.FloatValue(0.10), domain.FloatValue(0.0635), "business")
	svc := newOrderUnderTest(newStubOrderRepo(), settingsRepo, &stubAudit{})

	order, err := svc.Create(context.Background(), ports.CreateOrderInput{
		CustomerID: "cust_1",
		Items:      twoLineItems(),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if order.Tax != 10.00 {
		t.Errorf("expected tax 10.00 at 10%%, got %v", order.Tax)
	}
}

func TestOrderService_Create_RepoError(t *testing.T) {
	repo := newStubOrderRepo()
	repo.createErr = errors.New("db unavailable")
	svc := newOrderUnderTest(repo, nil, &stubAudit{})

	if _, err := svc.Create(context.Background(), ports.CreateOrderInput{Items: twoLineItems()}); err == nil {
		t.Fatal("expected error when repo fails, got nil")
	}
}

// ---------------------------------------------------------------------------
// Status transitions
// ---------------------------------------------------------------------------

func TestOrderService_UpdateStatus_ValidTransition(t *testing.T) {
	repo := newStubOrderRepo()
	audit := &stubAudit{}
	svc := newOrderUnderTest(repo, nil, audit)

	created, _ := svc.Create(context.Background(), ports.CreateOrderInput{Items: twoLineItems(), ActorID: "user_1"})

	updated, err := svc.UpdateStatus(context.Background(), ports.UpdateOrderStatusInput{
		OrderID: created.ID,
		Status:  domain.OrderInProduction,
		ActorID: "user_2",
	})
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != domain.OrderInProduction {
		t.Errorf("expected status %q, got %q", domain.OrderInProduction, updated.Status)
	}
	if len(updated.StatusHistory) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(updated.StatusHistory))
	}
	if updated.StatusHistory[1].ChangedBy != "user_2" {
		t.Errorf("history entry must record the actor, got %q", updated.StatusHistory[1].ChangedBy)
	}
}

func TestOrderService_UpdateStatus_InvalidTransition(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newOrderUnderTest(repo, nil, &stubAudit{})

	created, _ := svc.Create(context.Background(), ports.CreateOrderInput{Items: twoLineItems()})

	_, err := svc.UpdateStatus(context.Background(), ports.UpdateOrderStatusInput{
		OrderID: created.ID,
		Status:  domain.OrderDelivered, // pending cannot jump straight to delivered
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Listing and dashboard
// ---------------------------------------------------------------------------

func TestOrderService_List_UsesConfiguredPageSize(t *testing.T) {
	settingsRepo := newStubSettingsRepo()
	settingsRepo.seed("orders.page_size", domain.IntValue(5), domain.IntValue(25), "orders")
	svc := newOrderUnderTest(newStubOrderRepo(), settingsRepo, &stubAudit{})

	result, err := svc.List(context.Background(), ports.ListOrdersFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.Limit != 5 {
		t.Errorf("expected configured page size 5, got %d", result.Limit)
	}
	if result.Page != 1 {
		t.Errorf("expected page 1, got %d", result.Page)
	}
}

func TestOrderService_List_CapsLimitAtMaxSearchResults(t *testing.T) {
	svc := newOrderUnderTest(newStubOrderRepo(), nil, &stubAudit{})

	result, err := svc.List(context.Background(), ports.ListOrdersFilter{Limit: 5000})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.Limit != 100 {
		t.Errorf("expected limit capped at 100, got %d", result.Limit)
	}
}

func TestOrderService_Dashboard_CountsOverdueOrders(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newOrderUnderTest(repo, nil, &stubAudit{})
	ctx := context.Background()

	svc.Create(ctx, ports.CreateOrderInput{
		Items:   twoLineItems(),
		DueDate: time.Now().UTC().AddDate(0, 0, -30),
	})
	svc.Create(ctx, ports.CreateOrderInput{
		Items:   twoLineItems(),
		DueDate: time.Now().UTC().AddDate(0, 0, 30),
	})

	summary, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if summary.OverdueCount != 1 {
		t.Errorf("expected 1 overdue order, got %d", summary.OverdueCount)
	}
	if len(summary.RecentOrders) != 2 {
		t.Errorf("expected 2 recent orders, got %d", len(summary.RecentOrders))
	}
}
