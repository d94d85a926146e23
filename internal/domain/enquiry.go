package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EnquiryStatus represents the position of an enquiry in the sales pipeline
type EnquiryStatus string

const (
	EnquiryStatusNew           EnquiryStatus = "new"
	EnquiryStatusQuotationSent EnquiryStatus = "quotation_sent"
	EnquiryStatusOngoing       EnquiryStatus = "ongoing"
	EnquiryStatusConverted     EnquiryStatus = "converted"
	EnquiryStatusBooked        EnquiryStatus = "booked"
	EnquiryStatusClosed        EnquiryStatus = "closed"
	EnquiryStatusLost          EnquiryStatus = "lost"
)

// enquiryTransitions lists the statuses reachable from each status.
// lost -> ongoing is the reopen path; lost cannot go back to new.
var enquiryTransitions = map[EnquiryStatus]map[EnquiryStatus]bool{
	EnquiryStatusNew:           {EnquiryStatusQuotationSent: true, EnquiryStatusLost: true},
	EnquiryStatusQuotationSent: {EnquiryStatusOngoing: true, EnquiryStatusLost: true},
	EnquiryStatusOngoing:       {EnquiryStatusConverted: true, EnquiryStatusLost: true},
	EnquiryStatusConverted:     {EnquiryStatusBooked: true, EnquiryStatusLost: true},
	EnquiryStatusBooked:        {EnquiryStatusClosed: true},
	EnquiryStatusLost:          {EnquiryStatusOngoing: true},
	EnquiryStatusClosed:        {},
}

// ParseEnquiryStatus validates a raw status string
func ParseEnquiryStatus(s string) (EnquiryStatus, bool) {
	status := EnquiryStatus(s)
	_, ok := enquiryTransitions[status]
	return status, ok
}

// CanTransitionEnquiry returns true if an enquiry may move from one status to another
func CanTransitionEnquiry(from, to EnquiryStatus) bool {
	next, ok := enquiryTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// Enquiry is a client's request for one or more banquet sessions
type Enquiry struct {
	ID            int64
	EnquiryNumber string
	ClientName    string
	ClientPhone   string
	ClientEmail   string
	EventType     string
	Status        EnquiryStatus
	QuotedAmount  decimal.Decimal
	Notes         *string
	CreatedBy     int64
	Sessions      []Session

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCommitted returns true if the enquiry's sessions hold their venue slots
func (e *Enquiry) IsCommitted() bool {
	return e.Status == EnquiryStatusConverted
}

// CanBeUpdated returns true while the enquiry is still editable.
// Booked and closed enquiries are owned by their booking.
func (e *Enquiry) CanBeUpdated() bool {
	return e.Status != EnquiryStatusBooked && e.Status != EnquiryStatusClosed
}

// CanBeBooked returns true if a booking can be created from the enquiry
func (e *Enquiry) CanBeBooked() bool {
	return e.Status == EnquiryStatusConverted
}

// EnquiryFilter narrows enquiry listings
type EnquiryFilter struct {
	Status *EnquiryStatus
	Limit  uint64
	Offset uint64
}
