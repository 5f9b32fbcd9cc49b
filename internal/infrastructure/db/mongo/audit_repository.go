package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/atelierhq/backoffice/internal/core/domain"
)

const collectionAuditLog = "audit_log"

type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAuditLog)}
}

func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if entry.ID == "" {
		entry.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.col.InsertOne(ctx, entry)
	return err
}

func (r *AuditRepository) ListByEntity(ctx context.Context, entity, entityID string, limit int) ([]*domain.AuditEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{"entity": entity, "entity_id": entityID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []*domain.AuditEntry
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
