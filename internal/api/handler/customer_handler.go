package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelierhq/backoffice/internal/core/domain"
	"github.com/atelierhq/backoffice/internal/core/ports"
)

// CustomerHandler handles HTTP requests for the customers screen.
type CustomerHandler struct {
	service ports.CustomerService
}

func NewCustomerHandler(service ports.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

type customerRequest struct {
	Name    string `json:"name" validate:"required"`
	Company string `json:"company"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type listCustomersResponse struct {
	Data       []*domain.Customer `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// Create handles POST /customers.
func (h *CustomerHandler) Create(c echo.Context) error {
	var req customerRequest
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

	customer, err := h.service.Create(c.Request().Context(), &domain.Customer{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	}, actorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, customer)
}

// Get handles GET /customers/:id.
func (h *CustomerHandler) Get(c echo.Context) error {
	customer, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// List handles GET /customers.
func (h *CustomerHandler) List(c echo.Context) error {
	result, err := h.service.List(c.Request().Context(), ports.ListCustomersFilter{
		Search:          c.QueryParam("search"),
		IncludeArchived: c.QueryParam("include_archived") == "true",
		Page:            intQuery(c, "page", 1),
		Limit:           intQuery(c, "limit", 0),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listCustomersResponse{
		Data: result.Items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Update handles PUT /customers/:id.
func (h *CustomerHandler) Update(c echo.Context) error {
	var req customerRequest
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

	customer := &domain.Customer{
		ID:      c.Param("id"),
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	}
	if err := h.service.Update(c.Request().Context(), customer, actorID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// Archive handles DELETE /customers/:id. Customers are never removed, only
// hidden from the default listing.
func (h *CustomerHandler) Archive(c echo.Context) error {
	actorID, _, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.Archive(c.Request().Context(), c.Param("id"), actorID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
