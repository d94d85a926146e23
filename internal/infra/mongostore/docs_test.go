package mongostore

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/pkg/ptr"
	"github.com/m04kA/SMC-BanquetService/pkg/types"
)

func TestEnquiryDocMapping(t *testing.T) {
	created := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	enquiry := &domain.Enquiry{
		ID:            12,
		EnquiryNumber: "ENQ-1A2B3C4D",
		ClientName:    "Menon family",
		Status:        domain.EnquiryStatusConverted,
		QuotedAmount:  decimal.RequireFromString("125000.50"),
		Notes:         ptr.Ptr("veg only"),
		CreatedBy:     3,
		Sessions: []domain.Session{
			{Venue: "Areca I", SessionDate: types.MustParseDate("2025-10-10"), StartTime: "18:00", EndTime: "22:00", PaxCount: 200},
			{Venue: "Lawn", SessionName: "draft"},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}

	doc := toEnquiryDoc(enquiry)
	assert.Equal(t, "converted", doc.Status)
	assert.Equal(t, "125000.5", doc.QuotedAmount)
	require.Len(t, doc.Sessions, 2)
	assert.Equal(t, "2025-10-10", doc.Sessions[0].Date)
	assert.Equal(t, "", doc.Sessions[1].Date)

	back, err := fromEnquiryDoc(&doc)
	require.NoError(t, err)
	assert.True(t, enquiry.QuotedAmount.Equal(back.QuotedAmount))
	assert.Equal(t, enquiry.Sessions, back.Sessions)
	assert.Equal(t, enquiry.Notes, back.Notes)
	assert.False(t, back.Sessions[1].IsSchedulable())
}

func TestBookingDocMapping_BadAmount(t *testing.T) {
	doc := bookingDoc{ID: 4, TotalAmount: "lots"}
	_, err := fromBookingDoc(&doc)
	assert.Error(t, err)
}

func TestBookingDocMapping_EmptyAmountsAreZero(t *testing.T) {
	doc := bookingDoc{ID: 4, Status: "booked", EnquiryID: ptr.Ptr(int64(9))}
	booking, err := fromBookingDoc(&doc)
	require.NoError(t, err)
	assert.True(t, booking.TotalAmount.IsZero())
	assert.Equal(t, int64(9), *booking.EnquiryID)
	assert.True(t, booking.IsCommitted())
}

func TestCommittedFilter(t *testing.T) {
	query := committedFilter("booked", domain.CommittedFilter{
		ExcludeID: ptr.Ptr(int64(5)),
		Dates:     []types.Date{types.MustParseDate("2025-10-10"), types.MustParseDate("2025-10-11")},
	})

	assert.Equal(t, bson.M{
		"status":        "booked",
		"_id":           bson.M{"$ne": int64(5)},
		"sessions.date": bson.M{"$in": []string{"2025-10-10", "2025-10-11"}},
	}, query)
}

func TestCommittedFilter_NoNarrowing(t *testing.T) {
	assert.Equal(t, bson.M{"status": "converted"}, committedFilter("converted", domain.CommittedFilter{}))
}

func TestBookingListFilter_SameSession(t *testing.T) {
	date := types.MustParseDate("2025-10-10")
	status := domain.BookingStatusBooked
	query := bookingListFilter(domain.BookingFilter{Status: &status, Date: &date, Venue: ptr.Ptr("Lawn")})

	assert.Equal(t, bson.M{
		"status":   "booked",
		"sessions": bson.M{"$elemMatch": bson.M{"date": "2025-10-10", "venue": "Lawn"}},
	}, query)
}
