package enquiries

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	enquiryRepo "github.com/m04kA/SMC-BanquetService/internal/infra/storage/enquiry"
	"github.com/m04kA/SMC-BanquetService/internal/service/enquiries/models"
	"github.com/m04kA/SMC-BanquetService/pkg/ptr"
)

// Границы страницы списка
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Service сервис для чтения заявок
type Service struct {
	enquiryRepo EnquiryRepository
	auditRepo   AuditReader
	logger      Logger
}

// NewService создает новый экземпляр сервиса заявок
func NewService(enquiryRepo EnquiryRepository, auditRepo AuditReader, logger Logger) *Service {
	return &Service{
		enquiryRepo: enquiryRepo,
		auditRepo:   auditRepo,
		logger:      logger,
	}
}

// GetByID получает заявку по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.EnquiryResponse, error) {
	s.logger.Info("GetByID: fetching enquiry id=%d", id)

	enquiry, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainEnquiry(enquiry), nil
}

// List получает список заявок, новые первыми
// Опционально фильтрует по статусу
func (s *Service) List(ctx context.Context, req *models.ListEnquiriesRequest) (*models.EnquiryListResponse, error) {
	s.logger.Info("List: fetching enquiries status=%s", ptr.Deref(req.Status))

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	filter.Limit = req.Limit
	if filter.Limit == 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	filter.Offset = req.Offset

	enquiries, err := s.enquiryRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d enquiries", len(enquiries))
	return models.FromDomainEnquiryList(enquiries), nil
}

// History получает журнал изменений заявки, старые записи первыми
func (s *Service) History(ctx context.Context, id int64) (*models.HistoryResponse, error) {
	s.logger.Info("History: fetching audit trail of enquiry id=%d", id)

	if _, err := s.get(ctx, "History", id); err != nil {
		return nil, err
	}

	entries, err := s.auditRepo.ListByEntity(ctx, domain.RecordKindEnquiry, id)
	if err != nil {
		s.logger.Error("History: audit read failed for enquiry id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: History - audit error: %v", ErrInternal, err)
	}
	return models.FromDomainAudit(entries), nil
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Enquiry, error) {
	enquiry, err := s.enquiryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, enquiryRepo.ErrEnquiryNotFound) {
			s.logger.Warn("%s: enquiry id=%d not found", op, id)
			return nil, ErrEnquiryNotFound
		}
		s.logger.Error("%s: repository error for enquiry id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return enquiry, nil
}
