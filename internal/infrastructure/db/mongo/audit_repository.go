package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ctvnews/newsroom/internal/core/domain"
)

const (
	auditCollection = "mutation_audit"
	writeTimeout    = 5 * time.Second
)

// AuditRepository implements ports.AuditRepository.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

// EnsureIndexes creates the lookup indexes used when reviewing the trail.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "resource", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "occurred_at", Value: -1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}
	return nil
}

// Insert stores one record.
func (r *AuditRepository) Insert(ctx context.Context, rec domain.MutationRecord) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	doc := bson.M{
		"action":      rec.Action,
		"resource":    rec.Resource,
		"state":       string(rec.State),
		"occurred_at": rec.OccurredAt.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if rec.ActorID != nil {
		doc["actor_id"] = *rec.ActorID
	}
	if rec.Reason != "" {
		doc["reason"] = rec.Reason
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// Recent returns the latest records for a resource, newest first.
func (r *AuditRepository) Recent(ctx context.Context, resource string, limit int64) ([]domain.MutationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx,
		bson.M{"resource": resource},
		options.Find().SetSort(bson.D{{Key: "occurred_at", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("find audit records: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.MutationRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode audit records: %w", err)
	}
	return out, nil
}
