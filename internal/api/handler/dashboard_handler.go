package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelierhq/backoffice/internal/core/domain"
	"github.com/atelierhq/backoffice/internal/core/ports"
)

// DashboardHandler serves the landing page summary.
type DashboardHandler struct {
	orders ports.OrderService
}

func NewDashboardHandler(orders ports.OrderService) *DashboardHandler {
	return &DashboardHandler{orders: orders}
}

type dashboardResponse struct {
	RecentOrders []*domain.Order `json:"recent_orders"`
	OverdueCount int64           `json:"overdue_count"`
}

// Summary handles GET /dashboard.
func (h *DashboardHandler) Summary(c echo.Context) error {
	summary, err := h.orders.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{
		RecentOrders: summary.RecentOrders,
		OverdueCount: summary.OverdueCount,
	})
}
