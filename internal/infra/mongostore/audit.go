package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
)

// AuditRepository журнал изменений в коллекции audit_logs
type AuditRepository struct {
	coll  *mongo.Collection
	store *Store
}

// Record добавляет запись в журнал
func (r *AuditRepository) Record(ctx context.Context, entry *domain.AuditEntry) error {
	id, err := r.store.nextID(ctx, auditCollection)
	if err != nil {
		return err
	}
	entry.ID = id
	entry.CreatedAt = time.Now().UTC()

	doc := auditDoc{
		ID:         entry.ID,
		EntityKind: string(entry.EntityKind),
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		ActorID:    entry.ActorID,
		Metadata:   entry.Metadata,
		CreatedAt:  entry.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: insert audit entry: %v", ErrMongo, err)
	}
	return nil
}

// ListByEntity получает журнал изменений записи, старые записи первыми
func (r *AuditRepository) ListByEntity(ctx context.Context, kind domain.RecordKind, id int64) ([]*domain.AuditEntry, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"entityKind": string(kind), "entityId": id},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: find audit entries: %v", ErrMongo, err)
	}
	defer cursor.Close(ctx)

	entries := make([]*domain.AuditEntry, 0)
	for cursor.Next(ctx) {
		var doc auditDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode audit entry: %v", ErrMongo, err)
		}
		entries = append(entries, &domain.AuditEntry{
			ID:         doc.ID,
			EntityKind: domain.RecordKind(doc.EntityKind),
			EntityID:   doc.EntityID,
			Action:     doc.Action,
			ActorID:    doc.ActorID,
			Metadata:   doc.Metadata,
			CreatedAt:  doc.CreatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate audit entries: %v", ErrMongo, err)
	}
	return entries, nil
}
