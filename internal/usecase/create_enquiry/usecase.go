package create_enquiry

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	enquiryRepo "github.com/m04kA/SMC-BanquetService/internal/infra/storage/enquiry"
	"github.com/m04kA/SMC-BanquetService/internal/service/conflicts"
)

// UseCase use case для создания заявки в статусе new
type UseCase struct {
	enquiryRepo EnquiryRepository
	auditRepo   AuditRepository
	checker     ConflictChecker
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	enquiryRepo EnquiryRepository,
	auditRepo AuditRepository,
	checker ConflictChecker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		enquiryRepo: enquiryRepo,
		auditRepo:   auditRepo,
		checker:     checker,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute создает заявку. Если сессия пересекается с зафиксированной записью,
// возвращается *conflicts.ConflictError
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Enquiry, error) {
	uc.logger.Info("CreateEnquiry: user=%d, client=%q, sessions=%d", req.CreatedBy, req.ClientName, len(req.Sessions))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateEnquiry: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Enquiry

	// 2. Проверка конфликтов и запись в транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		check, err := uc.checker.Check(txCtx, req.Sessions, conflicts.CheckOptions{})
		if err != nil {
			if errors.Is(err, conflicts.ErrMalformedSession) {
				uc.logger.Warn("CreateEnquiry: malformed session: %v", err)
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			uc.logger.Error("CreateEnquiry: conflict check failed: %v", err)
			return fmt.Errorf("%w: conflict check: %v", ErrInternal, err)
		}
		if check.HasConflict {
			uc.logger.Warn("CreateEnquiry: %d conflicts for client=%q", len(check.Conflicts), req.ClientName)
			return conflicts.NewConflictError(check)
		}

		enquiry := &domain.Enquiry{
			EnquiryNumber: domain.NewRecordNumber(domain.EnquiryNumberPrefix),
			ClientName:    req.ClientName,
			ClientPhone:   req.ClientPhone,
			ClientEmail:   req.ClientEmail,
			EventType:     req.EventType,
			Status:        domain.EnquiryStatusNew,
			QuotedAmount:  req.QuotedAmount,
			Notes:         req.Notes,
			CreatedBy:     req.CreatedBy,
			Sessions:      req.Sessions,
		}

		created, err := uc.createEnquiry(txCtx, enquiry)
		if err != nil {
			return err
		}

		if err := uc.auditRepo.Record(txCtx, &domain.AuditEntry{
			EntityKind: domain.RecordKindEnquiry,
			EntityID:   created.ID,
			Action:     domain.AuditEnquiryCreated,
			ActorID:    req.CreatedBy,
			Metadata:   map[string]interface{}{"enquiryNumber": created.EnquiryNumber},
		}); err != nil {
			uc.logger.Error("CreateEnquiry: failed to write audit entry: %v", err)
			return fmt.Errorf("%w: failed to write audit entry: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateEnquiry: created enquiry id=%d number=%s", result.ID, result.EnquiryNumber)
	return result, nil
}

// createEnquiry повторяет вставку с новым номером, пока номер занят
func (uc *UseCase) createEnquiry(ctx context.Context, enquiry *domain.Enquiry) (*domain.Enquiry, error) {
	for attempt := 1; ; attempt++ {
		created, err := uc.enquiryRepo.Create(ctx, enquiry)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, enquiryRepo.ErrDuplicateNumber) || attempt == domain.MaxRecordNumberAttempts {
			uc.logger.Error("CreateEnquiry: failed to create enquiry: %v", err)
			return nil, fmt.Errorf("%w: failed to create enquiry: %v", ErrInternal, err)
		}
		uc.logger.Warn("CreateEnquiry: enquiry number %s taken, retrying", enquiry.EnquiryNumber)
		enquiry.EnquiryNumber = domain.NewRecordNumber(domain.EnquiryNumberPrefix)
	}
}
