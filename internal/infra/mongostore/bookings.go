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
	bookingRepo "github.com/m04kA/SMC-BanquetService/internal/infra/storage/booking"
)

// BookingRepository репозиторий бронирований, сессии хранятся внутри документа
type BookingRepository struct {
	coll  *mongo.Collection
	store *Store
}

// Create назначает ID и создает бронирование
// Занятый номер бронирования возвращает booking.ErrDuplicateNumber
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	// ошибка уникального индекса прерывает транзакцию
	taken, err := r.coll.CountDocuments(ctx, bson.M{"bookingNumber": booking.BookingNumber})
	if err != nil {
		return nil, fmt.Errorf("%w: count booking numbers: %v", ErrMongo, err)
	}
	if taken > 0 {
		return nil, fmt.Errorf("%w: %s", bookingRepo.ErrDuplicateNumber, booking.BookingNumber)
	}

	id, err := r.store.nextID(ctx, bookingsCollection)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, toBookingDoc(booking)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", bookingRepo.ErrDuplicateNumber, booking.BookingNumber)
		}
		return nil, fmt.Errorf("%w: insert booking: %v", ErrMongo, err)
	}
	return booking, nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var doc bookingDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, bookingRepo.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find booking %d: %v", ErrMongo, id, err)
	}
	return fromBookingDoc(&doc)
}

// List получает бронирования по фильтру, новые первыми
func (r *BookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}
	return r.find(ctx, bookingListFilter(filter), opts)
}

// FindCommitted получает бронирования в статусе booked по фильтру
func (r *BookingRepository) FindCommitted(ctx context.Context, filter domain.CommittedFilter) ([]*domain.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.find(ctx, committedFilter(string(domain.BookingStatusBooked), filter), opts)
}

// Cancel отменяет бронирование в статусе booked
func (r *BookingRepository) Cancel(ctx context.Context, id int64, reason *string) (*domain.Booking, error) {
	now := time.Now().UTC()
	set := bson.M{
		"status":      string(domain.BookingStatusCancelled),
		"cancelledAt": now,
		"updatedAt":   now,
	}
	if reason != nil {
		set["cancellationReason"] = *reason
	}

	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": string(domain.BookingStatusBooked)},
		bson.M{"$set": set},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: cancel booking %d: %v", ErrMongo, id, err)
	}
	if result.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, bookingRepo.ErrCannotCancel
	}
	return r.GetByID(ctx, id)
}

func (r *BookingRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*domain.Booking, error) {
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find bookings: %v", ErrMongo, err)
	}
	defer cursor.Close(ctx)

	bookings := make([]*domain.Booking, 0)
	for cursor.Next(ctx) {
		var doc bookingDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode booking: %v", ErrMongo, err)
		}
		booking, err := fromBookingDoc(&doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMongo, err)
		}
		bookings = append(bookings, booking)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate bookings: %v", ErrMongo, err)
	}
	return bookings, nil
}
