package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/internal/infra/storage/sessions"
	"github.com/m04kA/SMC-BanquetService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BanquetService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"booking_number",
	"enquiry_id",
	"client_name",
	"client_phone",
	"status",
	"total_amount",
	"advance_amount",
	"notes",
	"created_by",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование вместе с сессиями
// Вызывать внутри транзакции, чтобы бронирование не осталось без сессий
// Если номер бронирования уже занят, возвращает ErrDuplicateNumber без прерывания транзакции
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"booking_number",
			"enquiry_id",
			"client_name",
			"client_phone",
			"status",
			"total_amount",
			"advance_amount",
			"notes",
			"created_by",
		).
		Values(
			booking.BookingNumber,
			booking.EnquiryID,
			booking.ClientName,
			booking.ClientPhone,
			booking.Status,
			booking.TotalAmount,
			booking.AdvanceAmount,
			booking.Notes,
			booking.CreatedBy,
		).
		Suffix("ON CONFLICT (booking_number) DO NOTHING RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNumber, booking.BookingNumber)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	if err := sessions.BookingSessions.Insert(ctx, r.db, booking.ID, booking.Sessions); err != nil {
		return nil, fmt.Errorf("%w: Create - insert sessions: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование с сессиями по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	// Блокируем строку от параллельной отмены
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	if err := r.attachSessions(ctx, []*domain.Booking{booking}); err != nil {
		return nil, err
	}
	return booking, nil
}

// List получает бронирования по фильтру, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("created_at DESC", "id DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	// Дата и площадка должны совпасть в одной сессии
	if filter.Date != nil || filter.Venue != nil {
		sub := psqlbuilder.Select("booking_id").From("booking_sessions")
		if filter.Date != nil {
			sub = sub.Where(squirrel.Eq{"session_date": *filter.Date})
		}
		if filter.Venue != nil {
			sub = sub.Where(squirrel.Eq{"venue": *filter.Venue})
		}
		subQuery, subArgs, err := sub.PlaceholderFormat(squirrel.Question).ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: List - build session filter: %v", ErrBuildQuery, err)
		}
		selectBuilder = selectBuilder.Where("id IN ("+subQuery+")", subArgs...)
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(filter.Offset)
	}

	return r.query(ctx, "List", selectBuilder)
}

// FindCommitted получает бронирования в статусе booked
// Опционально исключает filter.ExcludeID и оставляет только записи с сессией на одну из filter.Dates
func (r *Repository) FindCommitted(ctx context.Context, filter domain.CommittedFilter) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.BookingStatusBooked}).
		OrderBy("id ASC")

	if filter.ExcludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeID})
	}
	if len(filter.Dates) > 0 {
		keys := make([]string, len(filter.Dates))
		for i, d := range filter.Dates {
			keys[i] = d.Key()
		}
		selectBuilder = selectBuilder.Where(sessions.BookingSessions.OwnersOnDates("id", keys))
	}

	return r.query(ctx, "FindCommitted", selectBuilder)
}

// Cancel отменяет бронирование в статусе booked
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	now := time.Now()
	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.BookingStatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", now).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id, "status": domain.BookingStatusBooked}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrCannotCancel
	}

	return r.GetByID(ctx, id)
}

func (r *Repository) query(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, op, err)
	}
	rows.Close()

	if err := r.attachSessions(ctx, bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *Repository) attachSessions(ctx context.Context, bookings []*domain.Booking) error {
	ids := make([]int64, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
	}

	byOwner, err := sessions.BookingSessions.Load(ctx, r.db, ids)
	if err != nil {
		return fmt.Errorf("%w: load sessions: %v", ErrExecQuery, err)
	}
	for _, b := range bookings {
		b.Sessions = byOwner[b.ID]
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var enquiryID sql.NullInt64
	var notes, reason sql.NullString
	var cancelledAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.BookingNumber,
		&enquiryID,
		&booking.ClientName,
		&booking.ClientPhone,
		&booking.Status,
		&booking.TotalAmount,
		&booking.AdvanceAmount,
		&notes,
		&booking.CreatedBy,
		&reason,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if enquiryID.Valid {
		booking.EnquiryID = &enquiryID.Int64
	}
	if notes.Valid {
		booking.Notes = &notes.String
	}
	if reason.Valid {
		booking.CancellationReason = &reason.String
	}
	if cancelledAt.Valid {
		booking.CancelledAt = &cancelledAt.Time
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
