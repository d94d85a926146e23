package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	conflictModels "github.com/m04kA/SMC-BanquetService/internal/service/conflicts/models"
	"github.com/m04kA/SMC-BanquetService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается для неизвестного статуса бронирования
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request models

// CancelBookingRequest модель запроса на отмену бронирования
type CancelBookingRequest struct {
	ActorID int64   `json:"-"`
	Reason  *string `json:"reason,omitempty"`
}

// Validate проверяет длину причины отмены
func (r *CancelBookingRequest) Validate() error {
	if r.Reason != nil && len(*r.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("reason longer than %d characters", domain.MaxCancellationReasonLength)
	}
	return nil
}

// ListBookingsRequest модель запроса списка бронирований
type ListBookingsRequest struct {
	Status *string
	Date   *types.Date
	Venue  *string
	Limit  uint64
	Offset uint64
}

// ToDomainFilter конвертирует запрос в фильтр хранилища без пагинации
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingFilter, error) {
	filter := domain.BookingFilter{
		Date:  r.Date,
		Venue: r.Venue,
	}
	if r.Status != nil {
		status, ok := domain.ParseBookingStatus(*r.Status)
		if !ok {
			return filter, fmt.Errorf("%w: %q", ErrInvalidStatus, *r.Status)
		}
		filter.Status = &status
	}
	return filter, nil
}

// Response models

// BookingResponse модель ответа с бронированием
type BookingResponse struct {
	ID            int64                            `json:"id"`
	BookingNumber string                           `json:"bookingNumber"`
	EnquiryID     *int64                           `json:"enquiryId,omitempty"`
	ClientName    string                           `json:"clientName"`
	ClientPhone   string                           `json:"clientPhone"`
	Status        string                           `json:"status"`
	TotalAmount   string                           `json:"totalAmount"`
	AdvanceAmount string                           `json:"advanceAmount"`
	BalanceDue    string                           `json:"balanceDue"`
	Notes         *string                          `json:"notes,omitempty"`
	CreatedBy     int64                            `json:"createdBy"`
	Sessions      []conflictModels.SessionResponse `json:"sessions"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // RFC 3339

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse модель ответа со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain.Booking в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		BookingNumber:      b.BookingNumber,
		EnquiryID:          b.EnquiryID,
		ClientName:         b.ClientName,
		ClientPhone:        b.ClientPhone,
		Status:             string(b.Status),
		TotalAmount:        b.TotalAmount.StringFixed(2),
		AdvanceAmount:      b.AdvanceAmount.StringFixed(2),
		BalanceDue:         b.BalanceDue().StringFixed(2),
		Notes:              b.Notes,
		CreatedBy:          b.CreatedBy,
		Sessions:           conflictModels.FromDomainSessions(b.Sessions),
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список, никогда не возвращает nil
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}

// AuditEntryResponse одна строка журнала изменений
type AuditEntryResponse struct {
	Action    string                 `json:"action"`
	ActorID   int64                  `json:"actorId"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// HistoryResponse журнал изменений бронирования
type HistoryResponse struct {
	Entries []AuditEntryResponse `json:"entries"`
}

// FromDomainAudit конвертирует журнал изменений
func FromDomainAudit(entries []*domain.AuditEntry) *HistoryResponse {
	resp := &HistoryResponse{Entries: make([]AuditEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, AuditEntryResponse{
			Action:    e.Action,
			ActorID:   e.ActorID,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt,
		})
	}
	return resp
}
