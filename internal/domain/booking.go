package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BanquetService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// ParseBookingStatus validates a raw status string
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingStatusBooked, BookingStatusCancelled, BookingStatusCompleted:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// Booking is a confirmed reservation of one or more venue sessions
type Booking struct {
	ID            int64
	BookingNumber string
	EnquiryID     *int64
	ClientName    string
	ClientPhone   string
	Status        BookingStatus
	TotalAmount   decimal.Decimal
	AdvanceAmount decimal.Decimal
	Notes         *string
	CreatedBy     int64
	Sessions      []Session

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCommitted returns true if the booking's sessions hold their venue slots
func (b *Booking) IsCommitted() bool {
	return b.Status == BookingStatusBooked
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == BookingStatusBooked
}

// BalanceDue returns the amount still owed after the advance
func (b *Booking) BalanceDue() decimal.Decimal {
	return b.TotalAmount.Sub(b.AdvanceAmount)
}

// BookingFilter narrows booking listings
type BookingFilter struct {
	Status *BookingStatus
	Date   *types.Date
	Venue  *string
	Limit  uint64
	Offset uint64
}
