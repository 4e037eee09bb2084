package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/debttracker/debt-api/internal/core/domain"
)

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(collectionAudits)}
}

type mongoAuditEntry struct {
	ID       string    `bson:"_id"`
	ActorID  string    `bson:"actor_id"`
	Action   string    `bson:"action"`
	TargetID string    `bson:"target_id"`
	Detail   string    `bson:"detail,omitempty"`
	At       time.Time `bson:"at"`
}

// Insert persists an entry to the audit_events collection.
func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAuditEntry{
		ID:       entry.ID,
		ActorID:  entry.ActorID,
		Action:   string(entry.Action),
		TargetID: entry.TargetID,
		Detail:   entry.Detail,
		At:       entry.At.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
