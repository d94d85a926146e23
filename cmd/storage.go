package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BanquetService/internal/config"
	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/internal/infra/memstore"
	"github.com/m04kA/SMC-BanquetService/internal/infra/mongostore"
	auditRepo "github.com/m04kA/SMC-BanquetService/internal/infra/storage/audit"
	bookingRepo "github.com/m04kA/SMC-BanquetService/internal/infra/storage/booking"
	enquiryRepo "github.com/m04kA/SMC-BanquetService/internal/infra/storage/enquiry"
	"github.com/m04kA/SMC-BanquetService/internal/infra/storage/migrations"
	slotClaimRepo "github.com/m04kA/SMC-BanquetService/internal/infra/storage/slotclaim"
	"github.com/m04kA/SMC-BanquetService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BanquetService/pkg/logger"
	"github.com/m04kA/SMC-BanquetService/pkg/metrics"
	"github.com/m04kA/SMC-BanquetService/pkg/txmanager"
)

type enquiryStore interface {
	Create(ctx context.Context, enquiry *domain.Enquiry) (*domain.Enquiry, error)
	GetByID(ctx context.Context, id int64) (*domain.Enquiry, error)
	List(ctx context.Context, filter domain.EnquiryFilter) ([]*domain.Enquiry, error)
	FindCommitted(ctx context.Context, filter domain.CommittedFilter) ([]*domain.Enquiry, error)
	Update(ctx context.Context, enquiry *domain.Enquiry) (*domain.Enquiry, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.EnquiryStatus) error
}

type bookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	FindCommitted(ctx context.Context, filter domain.CommittedFilter) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason *string) (*domain.Booking, error)
}

type claimStore interface {
	Claim(ctx context.Context, kind domain.RecordKind, ownerID int64, sessions []domain.Session) error
	Release(ctx context.Context, kind domain.RecordKind, ownerID int64) error
	Replace(ctx context.Context, kind domain.RecordKind, ownerID int64, sessions []domain.Session) error
}

type auditStore interface {
	Record(ctx context.Context, entry *domain.AuditEntry) error
	ListByEntity(ctx context.Context, kind domain.RecordKind, id int64) ([]*domain.AuditEntry, error)
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// storage набор репозиториев одного хранилища
type storage struct {
	enquiries enquiryStore
	bookings  bookingStore
	claims    claimStore
	audit     auditStore
	tx        txManager
	health    func(ctx context.Context) error
	close     func()
}

func openStorage(cfg *config.Config, log *logger.Logger, m *metrics.Metrics, stopCh <-chan struct{}) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		return openPostgres(cfg, log, m, stopCh)
	case config.DriverMongo:
		return openMongo(cfg, log)
	case config.DriverMemory:
		log.Warn("Using in-memory storage, records are lost on restart")
		store := memstore.New()
		return &storage{
			enquiries: store.Enquiries(),
			bookings:  store.Bookings(),
			claims:    store.Claims(),
			audit:     store.Audit(),
			tx:        store.TxManager(),
			health:    func(context.Context) error { return nil },
			close:     func() {},
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func openPostgres(cfg *config.Config, log *logger.Logger, m *metrics.Metrics, stopCh <-chan struct{}) (*storage, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.MigrateOnStart {
		if err := migrations.Up(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		if version, dirty, err := migrations.Version(db); err == nil {
			log.Info("Database schema at version %d (dirty=%t)", version, dirty)
		}
	}

	// при nil collector обертка ничего не собирает
	wrapped := dbmetrics.WrapWithDefault(db, m, cfg.Metrics.ServiceName, stopCh)
	if m != nil {
		log.Info("Database metrics collection started")
	}

	return &storage{
		enquiries: enquiryRepo.NewRepository(wrapped),
		bookings:  bookingRepo.NewRepository(wrapped),
		claims:    slotClaimRepo.NewRepository(wrapped),
		audit:     auditRepo.NewRepository(wrapped),
		tx:        txmanager.NewTransactionManager(wrapped),
		health:    db.PingContext,
		close: func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close database: %v", err)
			}
		},
	}, nil
}

func openMongo(cfg *config.Config, log *logger.Logger) (*storage, error) {
	ctx := context.Background()
	timeout := time.Duration(cfg.Mongo.ConnectTimeout) * time.Second

	store, err := mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, timeout)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, err
	}
	log.Info("Successfully connected to mongo (db=%s, transactions=%t)", cfg.Mongo.Database, cfg.Mongo.Transactions)
	if !cfg.Mongo.Transactions {
		log.Warn("Mongo transactions disabled, enable the redis lock to serialise writers")
	}

	return &storage{
		enquiries: store.Enquiries(),
		bookings:  store.Bookings(),
		claims:    mongostore.NoClaims{},
		audit:     store.Audit(),
		tx:        mongostore.NewTxManager(store, cfg.Mongo.Transactions),
		health:    store.Ping,
		close: func() {
			if err := store.Close(context.Background()); err != nil {
				log.Error("Failed to disconnect mongo: %v", err)
			}
		},
	}, nil
}
