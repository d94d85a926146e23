package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	enquiriesCollection = "enquiries"
	bookingsCollection  = "bookings"
	auditCollection     = "audit_logs"
	countersCollection  = "counters"
)

// ErrMongo оборачивает любые ошибки драйвера
var ErrMongo = errors.New("mongostore: operation failed")

// Store документное хранилище: одна база с заявками, бронированиями,
// журналом изменений и счетчиками ID
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect подключается к uri и проверяет primary
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", ErrMongo, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping: %v", ErrMongo, err)
	}

	return &Store{client: client, db: client.Database(database)}, nil
}

// Close отключает клиента
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping проверяет соединение для health endpoint
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes создает индексы для запросов репозиториев
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		enquiriesCollection: {
			{Keys: bson.D{{Key: "enquiryNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "sessions.venue", Value: 1}, {Key: "sessions.date", Value: 1}}},
		},
		bookingsCollection: {
			{Keys: bson.D{{Key: "bookingNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "sessions.venue", Value: 1}, {Key: "sessions.date", Value: 1}}},
		},
		auditCollection: {
			{Keys: bson.D{{Key: "entityKind", Value: 1}, {Key: "entityId", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("%w: create indexes on %s: %v", ErrMongo, name, err)
		}
	}
	return nil
}

// Enquiries возвращает репозиторий заявок
func (s *Store) Enquiries() *EnquiryRepository {
	return &EnquiryRepository{coll: s.db.Collection(enquiriesCollection), store: s}
}

// Bookings возвращает репозиторий бронирований
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{coll: s.db.Collection(bookingsCollection), store: s}
}

// Audit возвращает журнал изменений
func (s *Store) Audit() *AuditRepository {
	return &AuditRepository{coll: s.db.Collection(auditCollection), store: s}
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// nextID выдает возрастающие int64 ID для коллекции
func (s *Store) nextID(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter counterDoc
	err := s.db.Collection(countersCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).
		Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("%w: next id for %s: %v", ErrMongo, name, err)
	}
	return counter.Seq, nil
}
