package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelierhq/backoffice/internal/core/domain"
	"github.com/atelierhq/backoffice/internal/core/ports"
)

type ProductionService struct {
	repo  ports.ProductionRepository
	audit ports.AuditRecorder
	log   zerolog.Logger
}

func NewProductionService(repo ports.ProductionRepository, audit ports.AuditRecorder, log zerolog.Logger) *ProductionService {
	return &ProductionService{repo: repo, audit: audit, log: log}
}

// CreateJob opens a production job for an order, starting in the queue.
func (s *ProductionService) CreateJob(ctx context.Context, orderID, orderNumber, actorID string) (*domain.ProductionJob, error) {
	now := time.Now().UTC()
	job := &domain.ProductionJob{
		OrderID:     orderID,
		OrderNumber: orderNumber,
		Stage:       domain.StageQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, job)
	if err != nil {
		s.log.Error().Err(err).Str("order_id", orderID).Msg("failed to create production job")
		return nil, err
	}

	s.audit.Record(domain.AuditEntry{
		Entity:   "production_job",
		EntityID: created.ID,
		Action:   "create",
		ActorID:  actorID,
		Detail:   orderNumber,
		At:       now,
	})
	return created, nil
}

func (s *ProductionService) ListJobs(ctx context.Context, f ports.ListJobsFilter) ([]*domain.ProductionJob, error) {
	return s.repo.List(ctx, f)
}

// UpdateStage moves a job between stages. The supplier fields are recorded
// when the job moves to at_supplier and cleared when it comes back.
func (s *ProductionService) UpdateStage(ctx context.Context, in ports.UpdateStageInput) (*domain.ProductionJob, error) {
	if !in.Stage.Known() {
		return nil, domain.ErrUnknownStage
	}

	job, err := s.repo.FindByID(ctx, in.JobID)
	if err != nil {
		return nil, err
	}

	job.Stage = in.Stage
	job.AssignedTo = in.AssignedTo
	job.Notes = in.Notes
	job.UpdatedAt = time.Now().UTC()

	if in.Stage == domain.StageAtSupplier {
		job.Supplier = in.Supplier
		job.SentAt = in.SentAt
		job.ExpectedBack = in.ExpectedBack
	} else {
		job.Supplier = ""
		job.SentAt = time.Time{}
		job.ExpectedBack = time.Time{}
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEntry{
		Entity:   "production_job",
		EntityID: job.ID,
		Action:   "stage:" + string(in.Stage),
		ActorID:  in.ActorID,
		Detail:   job.OrderNumber,
		At:       job.UpdatedAt,
	})

	s.log.Info().Str("order_number", job.OrderNumber).Str("stage", string(in.Stage)).Msg("production stage updated")
	return job, nil
}

// AtSupplier lists every job currently out at a supplier, for the
// supplier-tracking screen.
func (s *ProductionService) AtSupplier(ctx context.Context) ([]*domain.ProductionJob, error) {
	return s.repo.List(ctx, ports.ListJobsFilter{Stage: domain.StageAtSupplier})
}
