package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/internal/infra/lock"
	bookingRepo "github.com/m04kA/SMC-BanquetService/internal/infra/storage/booking"
	enquiryRepo "github.com/m04kA/SMC-BanquetService/internal/infra/storage/enquiry"
	"github.com/m04kA/SMC-BanquetService/internal/infra/storage/slotclaim"
	"github.com/m04kA/SMC-BanquetService/internal/service/conflicts"
	"github.com/m04kA/SMC-BanquetService/pkg/txmanager"
)

// UseCase use case для создания бронирования, в том числе из заявки в статусе converted
type UseCase struct {
	bookingRepo BookingRepository
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
	bookingRepo BookingRepository,
	enquiryRepo EnquiryRepository,
	auditRepo AuditRepository,
	claims SlotClaims,
	locker VenueLocker,
	checker ConflictChecker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		enquiryRepo: enquiryRepo,
		auditRepo:   auditRepo,
		claims:      claims,
		locker:      locker,
		checker:     checker,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute создает бронирование в статусе booked.
// Проверка и все записи выполняются в одной serializable транзакции под
// блокировками дат площадок, сессии бронирования занимают слоты, поэтому
// пересекающаяся параллельная запись упадет на уровне хранилища.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("CreateBooking: user=%d, enquiry=%v, client=%q, sessions=%d",
		req.CreatedBy, derefID(req.EnquiryID), req.ClientName, len(req.Sessions))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем итоговый список сессий, при пустом списке берем сессии заявки
	sessions := req.Sessions
	fromEnquiry := false
	if req.EnquiryID != nil {
		enquiry, err := uc.getEnquiry(ctx, *req.EnquiryID)
		if err != nil {
			return nil, err
		}
		if !enquiry.CanBeBooked() {
			uc.logger.Warn("CreateBooking: enquiry id=%d is %s", enquiry.ID, enquiry.Status)
			return nil, fmt.Errorf("%w: status is %s", ErrEnquiryNotConverted, enquiry.Status)
		}
		if len(sessions) == 0 {
			sessions = enquiry.Sessions
			fromEnquiry = true
		}
	}
	if err := validateSessions(sessions); err != nil {
		uc.logger.Warn("CreateBooking: session validation failed: %v", err)
		return nil, err
	}

	// 3. Блокируем даты площадок
	unlock, err := uc.locker.Lock(ctx, sessions)
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			uc.logger.Warn("CreateBooking: venue dates locked: %v", err)
			return nil, &conflicts.ConflictError{}
		}
		uc.logger.Error("CreateBooking: failed to lock venue dates: %v", err)
		return nil, fmt.Errorf("%w: lock venue dates: %v", ErrInternal, err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			uc.logger.Warn("CreateBooking: failed to release venue locks: %v", err)
		}
	}()

	var result *domain.Booking

	// 4. Проверка и запись в одной serializable транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var enquiry *domain.Enquiry
		checkOpts := conflicts.CheckOptions{}
		bookingSessions := sessions

		if req.EnquiryID != nil {
			loaded, err := uc.getEnquiry(txCtx, *req.EnquiryID)
			if err != nil {
				return err
			}
			enquiry = loaded
			// перечитываем заявку в транзакции, статус мог измениться
			if !enquiry.CanBeBooked() {
				uc.logger.Warn("CreateBooking: enquiry id=%d is %s", enquiry.ID, enquiry.Status)
				return fmt.Errorf("%w: status is %s", ErrEnquiryNotConverted, enquiry.Status)
			}
			if fromEnquiry {
				bookingSessions = enquiry.Sessions
				if err := validateSessions(bookingSessions); err != nil {
					uc.logger.Warn("CreateBooking: enquiry id=%d sessions invalid: %v", enquiry.ID, err)
					return err
				}
				// сессии заявки переехали на даты, которые не заблокированы
				if !coversVenueDates(sessions, bookingSessions) {
					uc.logger.Warn("CreateBooking: enquiry id=%d sessions changed concurrently", enquiry.ID)
					return &conflicts.ConflictError{}
				}
			}
			// слоты заявки переходят к бронированию
			checkOpts = conflicts.CheckOptions{
				ExcludeRecordID:   &enquiry.ID,
				ExcludeRecordKind: domain.RecordKindEnquiry,
			}
		}

		check, err := uc.checker.Check(txCtx, bookingSessions, checkOpts)
		if err != nil {
			if errors.Is(err, conflicts.ErrMalformedSession) {
				uc.logger.Warn("CreateBooking: malformed session: %v", err)
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			uc.logger.Error("CreateBooking: conflict check failed: %v", err)
			return fmt.Errorf("%w: conflict check: %v", ErrInternal, err)
		}
		if check.HasConflict {
			uc.logger.Warn("CreateBooking: %d conflicts", len(check.Conflicts))
			return conflicts.NewConflictError(check)
		}

		booking := &domain.Booking{
			BookingNumber: domain.NewRecordNumber(domain.BookingNumberPrefix),
			EnquiryID:     req.EnquiryID,
			ClientName:    req.ClientName,
			ClientPhone:   req.ClientPhone,
			Status:        domain.BookingStatusBooked,
			TotalAmount:   req.TotalAmount,
			AdvanceAmount: req.AdvanceAmount,
			Notes:         req.Notes,
			CreatedBy:     req.CreatedBy,
			Sessions:      bookingSessions,
		}
		if enquiry != nil {
			if booking.ClientName == "" {
				booking.ClientName = enquiry.ClientName
			}
			if booking.ClientPhone == "" {
				booking.ClientPhone = enquiry.ClientPhone
			}
			if err := uc.claims.Release(txCtx, domain.RecordKindEnquiry, enquiry.ID); err != nil {
				uc.logger.Error("CreateBooking: failed to release enquiry claims id=%d: %v", enquiry.ID, err)
				return fmt.Errorf("%w: failed to release enquiry claims: %v", ErrInternal, err)
			}
		}

		created, err := uc.createBooking(txCtx, booking)
		if err != nil {
			return err
		}

		if err := uc.claims.Claim(txCtx, domain.RecordKindBooking, created.ID, created.Sessions); err != nil {
			if errors.Is(err, slotclaim.ErrSlotTaken) {
				uc.logger.Warn("CreateBooking: slot claim rejected for booking id=%d", created.ID)
				return &conflicts.ConflictError{}
			}
			uc.logger.Error("CreateBooking: failed to claim slots for booking id=%d: %v", created.ID, err)
			return fmt.Errorf("%w: failed to claim slots: %v", ErrInternal, err)
		}

		if enquiry != nil {
			if err := uc.markEnquiryBooked(txCtx, enquiry, created, req.CreatedBy); err != nil {
				return err
			}
		}

		if err := uc.auditRepo.Record(txCtx, &domain.AuditEntry{
			EntityKind: domain.RecordKindBooking,
			EntityID:   created.ID,
			Action:     domain.AuditBookingCreated,
			ActorID:    req.CreatedBy,
			Metadata:   map[string]interface{}{"bookingNumber": created.BookingNumber, "enquiryId": derefID(req.EnquiryID)},
		}); err != nil {
			uc.logger.Error("CreateBooking: failed to write audit entry: %v", err)
			return fmt.Errorf("%w: failed to write audit entry: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			uc.logger.Warn("CreateBooking: serialization failure: %v", err)
			return nil, &conflicts.ConflictError{}
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d number=%s", result.ID, result.BookingNumber)
	return result, nil
}

func (uc *UseCase) markEnquiryBooked(ctx context.Context, enquiry *domain.Enquiry, booking *domain.Booking, actorID int64) error {
	err := uc.enquiryRepo.UpdateStatus(ctx, enquiry.ID, domain.EnquiryStatusConverted, domain.EnquiryStatusBooked)
	if err != nil {
		if errors.Is(err, enquiryRepo.ErrStatusChanged) {
			uc.logger.Warn("CreateBooking: enquiry id=%d changed status concurrently", enquiry.ID)
			return fmt.Errorf("%w: status changed concurrently", ErrEnquiryNotConverted)
		}
		uc.logger.Error("CreateBooking: failed to mark enquiry id=%d booked: %v", enquiry.ID, err)
		return fmt.Errorf("%w: failed to mark enquiry booked: %v", ErrInternal, err)
	}

	if err := uc.auditRepo.Record(ctx, &domain.AuditEntry{
		EntityKind: domain.RecordKindEnquiry,
		EntityID:   enquiry.ID,
		Action:     domain.AuditEnquiryStatusChanged,
		ActorID:    actorID,
		Metadata: map[string]interface{}{
			"from":      string(domain.EnquiryStatusConverted),
			"to":        string(domain.EnquiryStatusBooked),
			"bookingId": booking.ID,
		},
	}); err != nil {
		uc.logger.Error("CreateBooking: failed to write enquiry audit entry: %v", err)
		return fmt.Errorf("%w: failed to write audit entry: %v", ErrInternal, err)
	}
	return nil
}

func (uc *UseCase) getEnquiry(ctx context.Context, id int64) (*domain.Enquiry, error) {
	enquiry, err := uc.enquiryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, enquiryRepo.ErrEnquiryNotFound) {
			uc.logger.Warn("CreateBooking: enquiry id=%d not found", id)
			return nil, ErrEnquiryNotFound
		}
		uc.logger.Error("CreateBooking: failed to get enquiry id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get enquiry: %v", ErrInternal, err)
	}
	return enquiry, nil
}

// coversVenueDates проверяет, что каждая пара площадка-дата из sessions есть в locked
func coversVenueDates(locked, sessions []domain.Session) bool {
	held := make(map[string]struct{}, len(locked))
	for i := range locked {
		held[venueDateKey(&locked[i])] = struct{}{}
	}
	for i := range sessions {
		if _, ok := held[venueDateKey(&sessions[i])]; !ok {
			return false
		}
	}
	return true
}

func venueDateKey(s *domain.Session) string {
	return s.Venue + "|" + s.SessionDate.Key()
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}

// createBooking повторяет вставку с новым номером, пока номер занят
func (uc *UseCase) createBooking(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	for attempt := 1; ; attempt++ {
		created, err := uc.bookingRepo.Create(ctx, booking)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, bookingRepo.ErrDuplicateNumber) || attempt == domain.MaxRecordNumberAttempts {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		uc.logger.Warn("CreateBooking: booking number %s taken, retrying", booking.BookingNumber)
		booking.BookingNumber = domain.NewRecordNumber(domain.BookingNumberPrefix)
	}
}
