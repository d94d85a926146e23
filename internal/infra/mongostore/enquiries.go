package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	enquiryRepo "github.com/m04kA/SMC-BanquetService/internal/infra/storage/enquiry"
)

// EnquiryRepository репозиторий заявок, сессии хранятся внутри документа.
// Возвращает те же ошибки, что и SQL репозиторий.
type EnquiryRepository struct {
	coll  *mongo.Collection
	store *Store
}

// Create назначает ID и создает заявку
// Занятый номер заявки возвращает enquiry.ErrDuplicateNumber
func (r *EnquiryRepository) Create(ctx context.Context, enquiry *domain.Enquiry) (*domain.Enquiry, error) {
	// ошибка уникального индекса прерывает транзакцию
	taken, err := r.coll.CountDocuments(ctx, bson.M{"enquiryNumber": enquiry.EnquiryNumber})
	if err != nil {
		return nil, fmt.Errorf("%w: count enquiry numbers: %v", ErrMongo, err)
	}
	if taken > 0 {
		return nil, fmt.Errorf("%w: %s", enquiryRepo.ErrDuplicateNumber, enquiry.EnquiryNumber)
	}

	id, err := r.store.nextID(ctx, enquiriesCollection)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	enquiry.ID = id
	enquiry.CreatedAt = now
	enquiry.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, toEnquiryDoc(enquiry)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", enquiryRepo.ErrDuplicateNumber, enquiry.EnquiryNumber)
		}
		return nil, fmt.Errorf("%w: insert enquiry: %v", ErrMongo, err)
	}
	return enquiry, nil
}

// GetByID получает заявку по ID
func (r *EnquiryRepository) GetByID(ctx context.Context, id int64) (*domain.Enquiry, error) {
	var doc enquiryDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, enquiryRepo.ErrEnquiryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find enquiry %d: %v", ErrMongo, id, err)
	}
	return fromEnquiryDoc(&doc)
}

// List получает заявки по фильтру, новые первыми
func (r *EnquiryRepository) List(ctx context.Context, filter domain.EnquiryFilter) ([]*domain.Enquiry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}
	return r.find(ctx, enquiryListFilter(filter), opts)
}

// FindCommitted получает заявки в статусе converted по фильтру
func (r *EnquiryRepository) FindCommitted(ctx context.Context, filter domain.CommittedFilter) ([]*domain.Enquiry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.find(ctx, committedFilter(string(domain.EnquiryStatusConverted), filter), opts)
}

// Update обновляет редактируемые поля и заменяет сессии целиком
func (r *EnquiryRepository) Update(ctx context.Context, enquiry *domain.Enquiry) (*domain.Enquiry, error) {
	doc := toEnquiryDoc(enquiry)
	update := bson.M{"$set": bson.M{
		"clientName":   doc.ClientName,
		"clientPhone":  doc.ClientPhone,
		"clientEmail":  doc.ClientEmail,
		"eventType":    doc.EventType,
		"quotedAmount": doc.QuotedAmount,
		"notes":        doc.Notes,
		"sessions":     doc.Sessions,
		"updatedAt":    time.Now().UTC(),
	}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": enquiry.ID}, update)
	if err != nil {
		return nil, fmt.Errorf("%w: update enquiry %d: %v", ErrMongo, enquiry.ID, err)
	}
	if result.MatchedCount == 0 {
		return nil, enquiryRepo.ErrEnquiryNotFound
	}
	return r.GetByID(ctx, enquiry.ID)
}

// UpdateStatus переводит заявку в статус to, если она все еще в статусе from
func (r *EnquiryRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.EnquiryStatus) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("%w: update enquiry %d status: %v", ErrMongo, id, err)
	}
	if result.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return enquiryRepo.ErrStatusChanged
	}
	return nil
}

func (r *EnquiryRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*domain.Enquiry, error) {
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find enquiries: %v", ErrMongo, err)
	}
	defer cursor.Close(ctx)

	enquiries := make([]*domain.Enquiry, 0)
	for cursor.Next(ctx) {
		var doc enquiryDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode enquiry: %v", ErrMongo, err)
		}
		enquiry, err := fromEnquiryDoc(&doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMongo, err)
		}
		enquiries = append(enquiries, enquiry)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate enquiries: %v", ErrMongo, err)
	}
	return enquiries, nil
}
