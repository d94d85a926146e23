package change_enquiry_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/internal/infra/lock"
	enquiryRepo "github.com/m04kA/SMC-BanquetService/internal/infra/storage/enquiry"
	"github.com/m04kA/SMC-BanquetService/internal/infra/storage/slotclaim"
	"github.com/m04kA/SMC-BanquetService/internal/service/conflicts"
	"github.com/m04kA/SMC-BanquetService/pkg/txmanager"
)

// UseCase use case для смены статуса заявки
type UseCase struct {
	enquiryRepo EnquiryRepository
	auditRepo   AuditRepository
	claims      SlotClaims
	locker      VenueLocker
	checker     ConflictChecker
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	enquiryRepo EnquiryRepository,
	auditRepo AuditRepository,
	claims SlotClaims,
	locker VenueLocker,
	checker ConflictChecker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		enquiryRepo: enquiryRepo,
		auditRepo:   auditRepo,
		claims:      claims,
		locker:      locker,
		checker:     checker,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет один переход статуса.
// При переходе в converted сессии заявки проверяются на конфликты и занимают слоты,
// при выходе из converted слоты освобождаются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Enquiry, error) {
	uc.logger.Info("ChangeEnquiryStatus: id=%d, user=%d, status=%s", req.ID, req.ActorID, req.Status)

	// 1. Валидация входных данных
	to, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("ChangeEnquiryStatus: validation failed for id=%d: %v", req.ID, err)
		return nil, err
	}

	current, err := uc.getEnquiry(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	// 2. Блокируем даты площадок, если сессии займут слоты
	if to == domain.EnquiryStatusConverted {
		unlock, err := uc.locker.Lock(ctx, current.Sessions)
		if err != nil {
			if errors.Is(err, lock.ErrLocked) {
				uc.logger.Warn("ChangeEnquiryStatus: venue dates locked for id=%d: %v", req.ID, err)
				return nil, &conflicts.ConflictError{}
			}
			uc.logger.Error("ChangeEnquiryStatus: failed to lock venue dates: %v", err)
			return nil, fmt.Errorf("%w: lock venue dates: %v", ErrInternal, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				uc.logger.Warn("ChangeEnquiryStatus: failed to release venue locks: %v", err)
			}
		}()
	}

	// 3. Переход, проверка и запись в одной serializable транзакции
	var from domain.EnquiryStatus

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		enquiry, err := uc.getEnquiry(txCtx, req.ID)
		if err != nil {
			return err
		}
		from = enquiry.Status

		if !domain.CanTransitionEnquiry(from, to) {
			uc.logger.Warn("ChangeEnquiryStatus: transition %s -> %s rejected for id=%d", from, to, req.ID)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
		}

		if to == domain.EnquiryStatusConverted {
			if err := uc.commitSessions(txCtx, enquiry); err != nil {
				return err
			}
		}
		if from == domain.EnquiryStatusConverted {
			if err := uc.claims.Release(txCtx, domain.RecordKindEnquiry, enquiry.ID); err != nil {
				uc.logger.Error("ChangeEnquiryStatus: failed to release slot claims for id=%d: %v", req.ID, err)
				return fmt.Errorf("%w: failed to release slot claims: %v", ErrInternal, err)
			}
		}

		if err := uc.enquiryRepo.UpdateStatus(txCtx, enquiry.ID, from, to); err != nil {
			if errors.Is(err, enquiryRepo.ErrStatusChanged) {
				uc.logger.Warn("ChangeEnquiryStatus: status of id=%d changed concurrently", req.ID)
				return ErrStatusChanged
			}
			uc.logger.Error("ChangeEnquiryStatus: failed to update status for id=%d: %v", req.ID, err)
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}

		if err := uc.auditRepo.Record(txCtx, &domain.AuditEntry{
			EntityKind: domain.RecordKindEnquiry,
			EntityID:   enquiry.ID,
			Action:     domain.AuditEnquiryStatusChanged,
			ActorID:    req.ActorID,
			Metadata:   map[string]interface{}{"from": string(from), "to": string(to)},
		}); err != nil {
			uc.logger.Error("ChangeEnquiryStatus: failed to write audit entry: %v", err)
			return fmt.Errorf("%w: failed to write audit entry: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			uc.logger.Warn("ChangeEnquiryStatus: serialization failure for id=%d: %v", req.ID, err)
			return nil, &conflicts.ConflictError{}
		}
		return nil, err
	}

	uc.logger.Info("ChangeEnquiryStatus: enquiry id=%d moved %s -> %s", req.ID, from, to)
	return uc.getEnquiry(ctx, req.ID)
}

// commitSessions проверяет сессии заявки против остальных зафиксированных записей
// и занимает их слоты
func (uc *UseCase) commitSessions(ctx context.Context, enquiry *domain.Enquiry) error {
	if err := domain.ValidateSessions(enquiry.Sessions, true); err != nil {
		uc.logger.Warn("ChangeEnquiryStatus: enquiry id=%d has draft sessions: %v", enquiry.ID, err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	check, err := uc.checker.Check(ctx, enquiry.Sessions, conflicts.CheckOptions{
		ExcludeRecordID:   &enquiry.ID,
		ExcludeRecordKind: domain.RecordKindEnquiry,
	})
	if err != nil {
		if errors.Is(err, conflicts.ErrMalformedSession) {
			uc.logger.Warn("ChangeEnquiryStatus: enquiry id=%d has a malformed session: %v", enquiry.ID, err)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("ChangeEnquiryStatus: conflict check failed: %v", err)
		return fmt.Errorf("%w: conflict check: %v", ErrInternal, err)
	}
	if check.HasConflict {
		uc.logger.Warn("ChangeEnquiryStatus: %d conflicts converting id=%d", len(check.Conflicts), enquiry.ID)
		return conflicts.NewConflictError(check)
	}

	if err := uc.claims.Claim(ctx, domain.RecordKindEnquiry, enquiry.ID, enquiry.Sessions); err != nil {
		if errors.Is(err, slotclaim.ErrSlotTaken) {
			uc.logger.Warn("ChangeEnquiryStatus: slot claim rejected for id=%d", enquiry.ID)
			return &conflicts.ConflictError{}
		}
		uc.logger.Error("ChangeEnquiryStatus: failed to claim slots for id=%d: %v", enquiry.ID, err)
		return fmt.Errorf("%w: failed to claim slots: %v", ErrInternal, err)
	}
	return nil
}

func (uc *UseCase) getEnquiry(ctx context.Context, id int64) (*domain.Enquiry, error) {
	enquiry, err := uc.enquiryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, enquiryRepo.ErrEnquiryNotFound) {
			uc.logger.Warn("ChangeEnquiryStatus: enquiry id=%d not found", id)
			return nil, ErrEnquiryNotFound
		}
		uc.logger.Error("ChangeEnquiryStatus: failed to get enquiry id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get enquiry: %v", ErrInternal, err)
	}
	return enquiry, nil
}
