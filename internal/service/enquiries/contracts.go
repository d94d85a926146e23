package enquiries

import (
	"context"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
)

// EnquiryRepository интерфейс репозитория заявок
type EnquiryRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Enquiry, error)
	List(ctx context.Context, filter domain.EnquiryFilter) ([]*domain.Enquiry, error)
}

// AuditReader интерфейс чтения журнала изменений
type AuditReader interface {
	ListByEntity(ctx context.Context, kind domain.RecordKind, id int64) ([]*domain.AuditEntry, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
