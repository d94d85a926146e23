package create_booking

import (
	"context"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/internal/infra/lock"
	"github.com/m04kA/SMC-BanquetService/internal/service/conflicts"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// EnquiryRepository интерфейс репозитория заявок, читает исходную заявку и переводит ее в booked
type EnquiryRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Enquiry, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.EnquiryStatus) error
}

// ConflictChecker интерфейс проверки пересечений с зафиксированными записями
type ConflictChecker interface {
	Check(ctx context.Context, sessions []domain.Session, opts conflicts.CheckOptions) (*domain.ConflictResult, error)
}

// SlotClaims интерфейс хранилища занятых слотов
type SlotClaims interface {
	Claim(ctx context.Context, kind domain.RecordKind, ownerID int64, sessions []domain.Session) error
	Release(ctx context.Context, kind domain.RecordKind, ownerID int64) error
}

// VenueLocker интерфейс блокировки дат площадок
type VenueLocker interface {
	Lock(ctx context.Context, sessions []domain.Session) (lock.Unlock, error)
}

// AuditRepository интерфейс журнала изменений
type AuditRepository interface {
	Record(ctx context.Context, entry *domain.AuditEntry) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
