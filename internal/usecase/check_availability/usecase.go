package check_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/internal/service/conflicts"
)

// UseCase use case для проверки доступности площадок, ничего не записывает
type UseCase struct {
	checker ConflictChecker
	logger  Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(checker ConflictChecker, logger Logger) *UseCase {
	return &UseCase{
		checker: checker,
		logger:  logger,
	}
}

// Execute выполняет проверку конфликтов и возвращает вердикт как есть
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.ConflictResult, error) {
	uc.logger.Info("CheckAvailability: sessions=%d", len(req.Sessions))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	result, err := uc.checker.Check(ctx, req.Sessions, conflicts.CheckOptions{
		ExcludeRecordID:   req.ExcludeRecordID,
		ExcludeRecordKind: req.ExcludeRecordKind,
	})
	if err != nil {
		if errors.Is(err, conflicts.ErrMalformedSession) {
			uc.logger.Warn("CheckAvailability: malformed session: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("CheckAvailability: conflict check failed: %v", err)
		return nil, fmt.Errorf("%w: conflict check: %v", ErrInternal, err)
	}

	return result, nil
}
