package check_availability

import (
	"context"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	checkAvailability "github.com/m04kA/SMC-BanquetService/internal/usecase/check_availability"
)

type CheckAvailabilityUseCase interface {
	Execute(ctx context.Context, req *checkAvailability.Request) (*domain.ConflictResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
