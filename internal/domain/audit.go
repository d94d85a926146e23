package domain

import "time"

// Audit actions written after successful state changes
const (
	AuditEnquiryCreated       = "enquiry.created"
	AuditEnquiryUpdated       = "enquiry.updated"
	AuditEnquiryStatusChanged = "enquiry.status_changed"
	AuditBookingCreated       = "booking.created"
	AuditBookingCancelled     = "booking.cancelled"
)

// AuditEntry records who changed what
type AuditEntry struct {
	ID         int64
	EntityKind RecordKind
	EntityID   int64
	Action     string
	ActorID    int64
	Metadata   map[string]interface{}
	CreatedAt  time.Time
}
