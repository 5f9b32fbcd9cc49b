package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/atelierhq/backoffice/internal/core/domain"
	"github.com/atelierhq/backoffice/internal/core/ports"
)

// OrderHandler handles HTTP requests for the orders screen.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type orderItemRequest struct {
	Description string  `json:"description" validate:"required"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

type createOrderRequest struct {
	CustomerID   string             `json:"customer_id" validate:"required"`
	CustomerName string             `json:"customer_name" validate:"required"`
	Items        []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	DueDate      time.Time          `json:"due_date"`
	Notes        string             `json:"notes"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

type listOrdersResponse struct {
	Data       []*domain.Order    `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// Create handles POST /orders.
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	actorID, _, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	items := make([]domain.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.OrderItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	order, err := h.service.Create(c.Request().Context(), ports.CreateOrderInput{
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Items:        items,
		DueDate:      req.DueDate,
		Notes:        req.Notes,
		ActorID:      actorID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, order)
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// List handles GET /orders.
func (h *OrderHandler) List(c echo.Context) error {
	result, err := h.service.List(c.Request().Context(), ports.ListOrdersFilter{
		Status:     c.QueryParam("status"),
		CustomerID: c.QueryParam("customer_id"),
		Search:     c.QueryParam("search"),
		Page:       intQuery(c, "page", 1),
		Limit:      intQuery(c, "limit", 0),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listOrdersResponse{
		Data: result.Items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// UpdateStatus handles PATCH /orders/:id/status. Transitions outside the
// order state machine come back as 422.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	actorID, _, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	order, err := h.service.UpdateStatus(c.Request().Context(), ports.UpdateOrderStatusInput{
		OrderID: c.Param("id"),
		Status:  domain.OrderStatus(req.Status),
		Notes:   req.Notes,
		ActorID: actorID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}
