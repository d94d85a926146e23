package bookings

import (
	"context"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason *string) (*domain.Booking, error)
}

// SlotClaims освобождает слоты отмененного бронирования
type SlotClaims interface {
	Release(ctx context.Context, kind domain.RecordKind, ownerID int64) error
}

// AuditRepository интерфейс журнала изменений
type AuditRepository interface {
	Record(ctx context.Context, entry *domain.AuditEntry) error
	ListByEntity(ctx context.Context, kind domain.RecordKind, id int64) ([]*domain.AuditEntry, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
