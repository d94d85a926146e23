package check_availability

import (
	"context"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/internal/service/conflicts"
)

// ConflictChecker интерфейс проверки пересечений с зафиксированными записями
type ConflictChecker interface {
	Check(ctx context.Context, sessions []domain.Session, opts conflicts.CheckOptions) (*domain.ConflictResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
