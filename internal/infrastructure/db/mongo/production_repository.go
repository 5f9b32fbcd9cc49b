package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/atelierhq/backoffice/internal/core/domain"
	"github.com/atelierhq/backoffice/internal/core/ports"
)

const collectionProductionJobs = "production_jobs"

type ProductionRepository struct {
	col *mongo.Collection
}

func NewProductionRepository(db *mongo.Database) *ProductionRepository {
	return &ProductionRepository{col: db.Collection(collectionProductionJobs)}
}

func (r *ProductionRepository) Create(ctx context.Context, j *domain.ProductionJob) (*domain.ProductionJob, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if j.ID == "" {
		j.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

func (r *ProductionRepository) FindByID(ctx context.Context, id string) (*domain.ProductionJob, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var j domain.ProductionJob
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&j)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	return &j, nil
}

func (r *ProductionRepository) List(ctx context.Context, f ports.ListJobsFilter) ([]*domain.ProductionJob, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Stage != "" {
		filter["stage"] = f.Stage
	}
	if f.OrderID != "" {
		filter["order_id"] = f.OrderID
	}

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []*domain.ProductionJob
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ProductionRepository) Update(ctx context.Context, j *domain.ProductionJob) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.col.ReplaceOne(ctx, bson.M{"_id": j.ID}, j)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}
