package update_enquiry

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

// UseCase use case для изменения заявки и ее сессий
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

// Execute проверяет новые сессии против всех зафиксированных записей, кроме
// самой заявки, и заменяет сохраненные поля и сессии.
// У заявки в статусе converted заменяются и занятые слоты.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Enquiry, error) {
	uc.logger.Info("UpdateEnquiry: id=%d, user=%d, sessions=%d", req.ID, req.ActorID, len(req.Sessions))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateEnquiry: validation failed for id=%d: %v", req.ID, err)
		return nil, err
	}

	// 2. Блокируем даты площадок
	unlock, err := uc.locker.Lock(ctx, req.Sessions)
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			uc.logger.Warn("UpdateEnquiry: venue dates locked for id=%d: %v", req.ID, err)
			return nil, &conflicts.ConflictError{}
		}
		uc.logger.Error("UpdateEnquiry: failed to lock venue dates: %v", err)
		return nil, fmt.Errorf("%w: lock venue dates: %v", ErrInternal, err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			uc.logger.Warn("UpdateEnquiry: failed to release venue locks: %v", err)
		}
	}()

	// 3. Проверка и запись в одной serializable транзакции
	var result *domain.Enquiry

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		enquiry, err := uc.enquiryRepo.GetByID(txCtx, req.ID)
		if err != nil {
			if errors.Is(err, enquiryRepo.ErrEnquiryNotFound) {
				uc.logger.Warn("UpdateEnquiry: enquiry id=%d not found", req.ID)
				return ErrEnquiryNotFound
			}
			uc.logger.Error("UpdateEnquiry: failed to get enquiry id=%d: %v", req.ID, err)
			return fmt.Errorf("%w: failed to get enquiry: %v", ErrInternal, err)
		}

		if !enquiry.CanBeUpdated() {
			uc.logger.Warn("UpdateEnquiry: enquiry id=%d is %s", req.ID, enquiry.Status)
			return fmt.Errorf("%w: status is %s", ErrNotEditable, enquiry.Status)
		}
		if enquiry.IsCommitted() {
			if err := domain.ValidateSessions(req.Sessions, true); err != nil {
				uc.logger.Warn("UpdateEnquiry: converted enquiry id=%d needs schedulable sessions: %v", req.ID, err)
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
		}

		check, err := uc.checker.Check(txCtx, req.Sessions, conflicts.CheckOptions{
			ExcludeRecordID:   &enquiry.ID,
			ExcludeRecordKind: domain.RecordKindEnquiry,
		})
		if err != nil {
			if errors.Is(err, conflicts.ErrMalformedSession) {
				uc.logger.Warn("UpdateEnquiry: malformed session: %v", err)
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			uc.logger.Error("UpdateEnquiry: conflict check failed: %v", err)
			return fmt.Errorf("%w: conflict check: %v", ErrInternal, err)
		}
		if check.HasConflict {
			uc.logger.Warn("UpdateEnquiry: %d conflicts for id=%d", len(check.Conflicts), req.ID)
			return conflicts.NewConflictError(check)
		}

		enquiry.ClientName = req.ClientName
		enquiry.ClientPhone = req.ClientPhone
		enquiry.ClientEmail = req.ClientEmail
		enquiry.EventType = req.EventType
		enquiry.QuotedAmount = req.QuotedAmount
		enquiry.Notes = req.Notes
		enquiry.Sessions = req.Sessions

		updated, err := uc.enquiryRepo.Update(txCtx, enquiry)
		if err != nil {
			uc.logger.Error("UpdateEnquiry: failed to update enquiry id=%d: %v", req.ID, err)
			return fmt.Errorf("%w: failed to update enquiry: %v", ErrInternal, err)
		}

		if updated.IsCommitted() {
			if err := uc.claims.Replace(txCtx, domain.RecordKindEnquiry, updated.ID, updated.Sessions); err != nil {
				if errors.Is(err, slotclaim.ErrSlotTaken) {
					uc.logger.Warn("UpdateEnquiry: slot claim rejected for id=%d", req.ID)
					return &conflicts.ConflictError{}
				}
				uc.logger.Error("UpdateEnquiry: failed to replace slot claims for id=%d: %v", req.ID, err)
				return fmt.Errorf("%w: failed to replace slot claims: %v", ErrInternal, err)
			}
		}

		if err := uc.auditRepo.Record(txCtx, &domain.AuditEntry{
			EntityKind: domain.RecordKindEnquiry,
			EntityID:   updated.ID,
			Action:     domain.AuditEnquiryUpdated,
			ActorID:    req.ActorID,
			Metadata:   map[string]interface{}{"sessions": len(updated.Sessions)},
		}); err != nil {
			uc.logger.Error("UpdateEnquiry: failed to write audit entry: %v", err)
			return fmt.Errorf("%w: failed to write audit entry: %v", ErrInternal, err)
		}

		result = updated
		return nil
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			uc.logger.Warn("UpdateEnquiry: serialization failure for id=%d: %v", req.ID, err)
			return nil, &conflicts.ConflictError{}
		}
		return nil, err
	}

	uc.logger.Info("UpdateEnquiry: updated enquiry id=%d", result.ID)
	return result, nil
}
