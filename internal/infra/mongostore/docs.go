package mongostore

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/pkg/types"
)

// Даты хранятся строками YYYY-MM-DD, время строками HH:MM, чтобы фильтры
// по sessions.date не зависели от часового пояса.
type sessionDoc struct {
	Venue               string `bson:"venue"`
	Date                string `bson:"date,omitempty"`
	StartTime           string `bson:"startTime,omitempty"`
	EndTime             string `bson:"endTime,omitempty"`
	SessionName         string `bson:"sessionName"`
	PaxCount            int    `bson:"paxCount"`
	SpecialInstructions string `bson:"specialInstructions"`
}

type enquiryDoc struct {
	ID            int64        `bson:"_id"`
	EnquiryNumber string       `bson:"enquiryNumber"`
	ClientName    string       `bson:"clientName"`
	ClientPhone   string       `bson:"clientPhone"`
	ClientEmail   string       `bson:"clientEmail"`
	EventType     string       `bson:"eventType"`
	Status        string       `bson:"status"`
	QuotedAmount  string       `bson:"quotedAmount"`
	Notes         *string      `bson:"notes,omitempty"`
	CreatedBy     int64        `bson:"createdBy"`
	Sessions      []sessionDoc `bson:"sessions"`
	CreatedAt     time.Time    `bson:"createdAt"`
	UpdatedAt     time.Time    `bson:"updatedAt"`
}

type bookingDoc struct {
	ID                 int64        `bson:"_id"`
	BookingNumber      string       `bson:"bookingNumber"`
	EnquiryID          *int64       `bson:"enquiryId,omitempty"`
	ClientName         string       `bson:"clientName"`
	ClientPhone        string       `bson:"clientPhone"`
	Status             string       `bson:"status"`
	TotalAmount        string       `bson:"totalAmount"`
	AdvanceAmount      string       `bson:"advanceAmount"`
	Notes              *string      `bson:"notes,omitempty"`
	CreatedBy          int64        `bson:"createdBy"`
	Sessions           []sessionDoc `bson:"sessions"`
	CancellationReason *string      `bson:"cancellationReason,omitempty"`
	CancelledAt        *time.Time   `bson:"cancelledAt,omitempty"`
	CreatedAt          time.Time    `bson:"createdAt"`
	UpdatedAt          time.Time    `bson:"updatedAt"`
}

type auditDoc struct {
	ID         int64                  `bson:"_id"`
	EntityKind string                 `bson:"entityKind"`
	EntityID   int64                  `bson:"entityId"`
	Action     string                 `bson:"action"`
	ActorID    int64                  `bson:"actorId"`
	Metadata   map[string]interface{} `bson:"metadata,omitempty"`
	CreatedAt  time.Time              `bson:"createdAt"`
}

func toSessionDocs(items []domain.Session) []sessionDoc {
	docs := make([]sessionDoc, len(items))
	for i, s := range items {
		docs[i] = sessionDoc{
			Venue:               s.Venue,
			StartTime:           s.StartTime.String(),
			EndTime:             s.EndTime.String(),
			SessionName:         s.SessionName,
			PaxCount:            s.PaxCount,
			SpecialInstructions: s.SpecialInstructions,
		}
		if !s.SessionDate.IsZero() {
			docs[i].Date = s.SessionDate.Key()
		}
	}
	return docs
}

func fromSessionDocs(docs []sessionDoc) ([]domain.Session, error) {
	items := make([]domain.Session, len(docs))
	for i, d := range docs {
		date, err := types.ParseDate(d.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("session %d: %w", i, err)
		}
		items[i] = domain.Session{
			Venue:               d.Venue,
			SessionDate:         date,
			StartTime:           types.TimeString(d.StartTime),
			EndTime:             types.TimeString(d.EndTime),
			SessionName:         d.SessionName,
			PaxCount:            d.PaxCount,
			SpecialInstructions: d.SpecialInstructions,
		}
	}
	return items, nil
}

func toEnquiryDoc(e *domain.Enquiry) enquiryDoc {
	return enquiryDoc{
		ID:            e.ID,
		EnquiryNumber: e.EnquiryNumber,
		ClientName:    e.ClientName,
		ClientPhone:   e.ClientPhone,
		ClientEmail:   e.ClientEmail,
		EventType:     e.EventType,
		Status:        string(e.Status),
		QuotedAmount:  e.QuotedAmount.String(),
		Notes:         e.Notes,
		CreatedBy:     e.CreatedBy,
		Sessions:      toSessionDocs(e.Sessions),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func fromEnquiryDoc(d *enquiryDoc) (*domain.Enquiry, error) {
	amount, err := parseAmount(d.QuotedAmount)
	if err != nil {
		return nil, fmt.Errorf("enquiry %d: quotedAmount: %w", d.ID, err)
	}
	items, err := fromSessionDocs(d.Sessions)
	if err != nil {
		return nil, fmt.Errorf("enquiry %d: %w", d.ID, err)
	}
	return &domain.Enquiry{
		ID:            d.ID,
		EnquiryNumber: d.EnquiryNumber,
		ClientName:    d.ClientName,
		ClientPhone:   d.ClientPhone,
		ClientEmail:   d.ClientEmail,
		EventType:     d.EventType,
		Status:        domain.EnquiryStatus(d.Status),
		QuotedAmount:  amount,
		Notes:         d.Notes,
		CreatedBy:     d.CreatedBy,
		Sessions:      items,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}

func toBookingDoc(b *domain.Booking) bookingDoc {
	return bookingDoc{
		ID:                 b.ID,
		BookingNumber:      b.BookingNumber,
		EnquiryID:          b.EnquiryID,
		ClientName:         b.ClientName,
		ClientPhone:        b.ClientPhone,
		Status:             string(b.Status),
		TotalAmount:        b.TotalAmount.String(),
		AdvanceAmount:      b.AdvanceAmount.String(),
		Notes:              b.Notes,
		CreatedBy:          b.CreatedBy,
		Sessions:           toSessionDocs(b.Sessions),
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func fromBookingDoc(d *bookingDoc) (*domain.Booking, error) {
	total, err := parseAmount(d.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("booking %d: totalAmount: %w", d.ID, err)
	}
	advance, err := parseAmount(d.AdvanceAmount)
	if err != nil {
		return nil, fmt.Errorf("booking %d: advanceAmount: %w", d.ID, err)
	}
	items, err := fromSessionDocs(d.Sessions)
	if err != nil {
		return nil, fmt.Errorf("booking %d: %w", d.ID, err)
	}
	return &domain.Booking{
		ID:                 d.ID,
		BookingNumber:      d.BookingNumber,
		EnquiryID:          d.EnquiryID,
		ClientName:         d.ClientName,
		ClientPhone:        d.ClientPhone,
		Status:             domain.BookingStatus(d.Status),
		TotalAmount:        total,
		AdvanceAmount:      advance,
		Notes:              d.Notes,
		CreatedBy:          d.CreatedBy,
		Sessions:           items,
		CancellationReason: d.CancellationReason,
		CancelledAt:        d.CancelledAt,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// committedFilter выбирает документы в статусе status без исключенного ID
// и только с сессией на одну из dates
func committedFilter(status string, filter domain.CommittedFilter) bson.M {
	query := bson.M{"status": status}
	if filter.ExcludeID != nil {
		query["_id"] = bson.M{"$ne": *filter.ExcludeID}
	}
	if len(filter.Dates) > 0 {
		keys := make([]string, len(filter.Dates))
		for i, d := range filter.Dates {
			keys[i] = d.Key()
		}
		query["sessions.date"] = bson.M{"$in": keys}
	}
	return query
}

func bookingListFilter(filter domain.BookingFilter) bson.M {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}
	if filter.Date != nil || filter.Venue != nil {
		match := bson.M{}
		if filter.Date != nil {
			match["date"] = filter.Date.Key()
		}
		if filter.Venue != nil {
			match["venue"] = *filter.Venue
		}
		query["sessions"] = bson.M{"$elemMatch": match}
	}
	return query
}

func enquiryListFilter(filter domain.EnquiryFilter) bson.M {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}
	return query
}
