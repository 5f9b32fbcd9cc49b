package ports

import (
	"context"
	"time"

	"github.com/atelierhq/backoffice/internal/core/domain"
)

// ListJobsFilter narrows a production job listing.
type ListJobsFilter struct {
	Stage   domain.ProductionStage
	OrderID string
}

// UpdateStageInput moves a job to a new stage. Supplier, SentAt and
// ExpectedBack are only meaningful when the stage is at_supplier.
type UpdateStageInput struct {
	JobID        string
	Stage        domain.ProductionStage
	AssignedTo   string
	Supplier     string
	SentAt       time.Time
	ExpectedBack time.Time
	Notes        string
	ActorID      string
}

// ProductionRepository persists production jobs.
type ProductionRepository interface {
	Create(ctx context.Context, j *domain.ProductionJob) (*domain.ProductionJob, error)
	FindByID(ctx context.Context, id string) (*domain.ProductionJob, error)
	List(ctx context.Context, f ListJobsFilter) ([]*domain.ProductionJob, error)
	Update(ctx context.Context, j *domain.ProductionJob) error
}

// ProductionService defines the workspace, production and supplier-tracking
// use cases.
type ProductionService interface {
	CreateJob(ctx context.Context, orderID, orderNumber, actorID string) (*domain.ProductionJob, error)
	ListJobs(ctx context.Context, f ListJobsFilter) ([]*domain.ProductionJob, error)
	UpdateStage(ctx context.Context, in UpdateStageInput) (*domain.ProductionJob, error)
	AtSupplier(ctx context.Context) ([]*domain.ProductionJob, error)
}
