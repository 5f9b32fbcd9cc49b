package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/atelierhq/backoffice/internal/core/domain"
	"github.com/atelierhq/backoffice/internal/core/ports"
)

// ProductionHandler serves the workspace, production and supplier-tracking
// screens.
type ProductionHandler struct {
	service ports.ProductionService
}

func NewProductionHandler(service ports.ProductionService) *ProductionHandler {
	return &ProductionHandler{service: service}
}

type createJobRequest struct {
	OrderID     string `json:"order_id" validate:"required"`
	OrderNumber string `json:"order_number" validate:"required"`
}

type updateStageRequest struct {
	Stage        string    `json:"stage" validate:"required"`
	AssignedTo   string    `json:"assigned_to"`
	Supplier     string    `json:"supplier"`
	SentAt       time.Time `json:"sent_at"`
	ExpectedBack time.Time `json:"expected_back"`
	Notes        string    `json:"notes"`
}

// CreateJob handles POST /production/jobs.
func (h *ProductionHandler) CreateJob(c echo.Context) error {
	var req createJobRequest
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

	job, err := h.service.CreateJob(c.Request().Context(), req.OrderID, req.OrderNumber, actorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, job)
}

// List handles GET /production/jobs.
func (h *ProductionHandler) List(c echo.Context) error {
	jobs, err := h.service.ListJobs(c.Request().Context(), ports.ListJobsFilter{
		Stage:   domain.ProductionStage(c.QueryParam("stage")),
		OrderID: c.QueryParam("order_id"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobs)
}

// UpdateStage handles PATCH /production/jobs/:id/stage.
func (h *ProductionHandler) UpdateStage(c echo.Context) error {
	var req updateStageRequest
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

	job, err := h.service.UpdateStage(c.Request().Context(), ports.UpdateStageInput{
		JobID:        c.Param("id"),
		Stage:        domain.ProductionStage(req.Stage),
		AssignedTo:   req.AssignedTo,
		Supplier:     req.Supplier,
		SentAt:       req.SentAt,
		ExpectedBack: req.ExpectedBack,
		Notes:        req.Notes,
		ActorID:      actorID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, job)
}

// AtSupplier handles GET /supplier-tracking: every job currently out at a
// supplier, for chasing late returns.
func (h *ProductionHandler) AtSupplier(c echo.Context) error {
	jobs, err := h.service.AtSupplier(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobs)
}
