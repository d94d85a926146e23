package conflicts

import (
	"context"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
)

// BookingSource читает бронирования в статусе booked
type BookingSource interface {
	FindCommitted(ctx context.Context, filter domain.CommittedFilter) ([]*domain.Booking, error)
}

// EnquirySource читает заявки в статусе converted
type EnquirySource interface {
	FindCommitted(ctx context.Context, filter domain.CommittedFilter) ([]*domain.Enquiry, error)
}

// Recorder получает одно наблюдение на каждую завершенную проверку
type Recorder interface {
	ObserveConflictCheck(outcome string, committed, batch int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Результаты проверки для Recorder
const (
	OutcomeClear    = "clear"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

type nopRecorder struct{}

func (nopRecorder) ObserveConflictCheck(string, int, int) {}
