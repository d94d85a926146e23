package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BanquetService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BanquetService/internal/service/bookings/models"
	"github.com/m04kA/SMC-BanquetService/pkg/ptr"
)

// Границы страницы списка
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	claims      SlotClaims
	auditRepo   AuditRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	claims SlotClaims,
	auditRepo AuditRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		claims:      claims,
		auditRepo:   auditRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// List получает бронирования по фильтру, новые первыми
// Дата и площадка должны совпасть в одной сессии
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings status=%v date=%v venue=%v", ptr.Deref(req.Status), req.Date, ptr.Deref(req.Venue))

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	filter.Limit, filter.Offset = pageBounds(req.Limit, req.Offset)

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование и освобождает его слоты
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", id, req.ActorID)

	if err := req.Validate(); err != nil {
		s.logger.Warn("Cancel: validation failed for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var cancelled *domain.Booking
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.Cancel(txCtx, id, req.Reason)
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				s.logger.Warn("Cancel: booking id=%d not found", id)
				return ErrBookingNotFound
			case errors.Is(err, bookingRepo.ErrCannotCancel):
				s.logger.Warn("Cancel: booking id=%d is not booked", id)
				return ErrCannotCancel
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if err := s.claims.Release(txCtx, domain.RecordKindBooking, id); err != nil {
			s.logger.Error("Cancel: failed to release slots for booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Cancel - release slots: %v", ErrInternal, err)
		}

		metadata := map[string]interface{}{"bookingNumber": booking.BookingNumber}
		if req.Reason != nil {
			metadata["reason"] = *req.Reason
		}
		if err := s.auditRepo.Record(txCtx, &domain.AuditEntry{
			EntityKind: domain.RecordKindBooking,
			EntityID:   id,
			Action:     domain.AuditBookingCancelled,
			ActorID:    req.ActorID,
			Metadata:   metadata,
		}); err != nil {
			s.logger.Error("Cancel: failed to write audit entry for booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Cancel - audit: %v", ErrInternal, err)
		}

		cancelled = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: cancelled booking id=%d", id)
	return models.FromDomainBooking(cancelled), nil
}

// History получает журнал изменений бронирования, старые записи первыми
func (s *Service) History(ctx context.Context, id int64) (*models.HistoryResponse, error) {
	s.logger.Info("History: fetching audit trail of booking id=%d", id)

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	entries, err := s.auditRepo.ListByEntity(ctx, domain.RecordKindBooking, id)
	if err != nil {
		s.logger.Error("History: audit read failed for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: History - audit error: %v", ErrInternal, err)
	}
	return models.FromDomainAudit(entries), nil
}

func pageBounds(limit, offset uint64) (uint64, uint64) {
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return limit, offset
}
