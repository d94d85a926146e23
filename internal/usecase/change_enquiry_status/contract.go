package change_enquiry_status

import (
	"context"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/internal/infra/lock"
	"github.com/m04kA/SMC-BanquetService/internal/service/conflicts"
)

type EnquiryRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Enquiry, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.EnquiryStatus) error
}

type ConflictChecker interface {
	Check(ctx context.Context, sessions []domain.Session, opts conflicts.CheckOptions) (*domain.ConflictResult, error)
}

type SlotClaims interface {
	Claim(ctx context.Context, kind domain.RecordKind, ownerID int64, sessions []domain.Session) error
	Release(ctx context.Context, kind domain.RecordKind, ownerID int64) error
}

type VenueLocker interface {
	Lock(ctx context.Context, sessions []domain.Session) (lock.Unlock, error)
}

type AuditRepository interface {
	Record(ctx context.Context, entry *domain.AuditEntry) error
}

type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
