package bookings

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/internal/infra/memstore"
	"github.com/m04kA/SMC-BanquetService/internal/service/bookings/models"
	"github.com/m04kA/SMC-BanquetService/pkg/logger"
	"github.com/m04kA/SMC-BanquetService/pkg/ptr"
	"github.com/m04kA/SMC-BanquetService/pkg/types"
)

func seedBooking(t *testing.T, store *memstore.Store, venue, date string) *domain.Booking {
	t.Helper()
	b, err := store.Bookings().Create(context.Background(), &domain.Booking{
		BookingNumber: domain.NewRecordNumber(domain.BookingNumberPrefix),
		ClientName:    "Menon family",
		Status:        domain.BookingStatusBooked,
		TotalAmount:   decimal.NewFromInt(1000),
		AdvanceAmount: decimal.NewFromInt(250),
		Sessions: []domain.Session{{
			Venue:       venue,
			SessionDate: types.MustParseDate(date),
			StartTime:   "18:00",
			EndTime:     "22:00",
		}},
	})
	require.NoError(t, err)
	require.NoError(t, store.Claims().Claim(context.Background(), domain.RecordKindBooking, b.ID, b.Sessions))
	return b
}

func newService(store *memstore.Store) *Service {
	return NewService(store.Bookings(), store.Claims(), store.Audit(), store.TxManager(), logger.Nop())
}

func TestGetByID(t *testing.T) {
	store := memstore.New()
	svc := newService(store)
	b := seedBooking(t, store, "Areca I", "2025-10-10")

	resp, err := svc.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.BookingNumber, resp.BookingNumber)
	assert.Equal(t, "750.00", resp.BalanceDue)
	require.Len(t, resp.Sessions, 1)
	assert.Equal(t, "2025-10-10", *resp.Sessions[0].SessionDate)

	_, err = svc.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestList_Filters(t *testing.T) {
	store := memstore.New()
	svc := newService(store)
	seedBooking(t, store, "Areca I", "2025-10-10")
	second := seedBooking(t, store, "Lawn", "2025-10-11")

	all, err := svc.List(context.Background(), &models.ListBookingsRequest{})
	require.NoError(t, err)
	require.Len(t, all.Bookings, 2)
	assert.Equal(t, second.ID, all.Bookings[0].ID)

	date := types.MustParseDate("2025-10-11")
	byDate, err := svc.List(context.Background(), &models.ListBookingsRequest{Date: &date})
	require.NoError(t, err)
	require.Len(t, byDate.Bookings, 1)
	assert.Equal(t, second.ID, byDate.Bookings[0].ID)

	empty, err := svc.List(context.Background(), &models.ListBookingsRequest{Status: ptr.Ptr("cancelled")})
	require.NoError(t, err)
	assert.Empty(t, empty.Bookings)
	assert.NotNil(t, empty.Bookings)

	_, err = svc.List(context.Background(), &models.ListBookingsRequest{Status: ptr.Ptr("pending")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_ReleasesSlots(t *testing.T) {
	store := memstore.New()
	svc := newService(store)
	b := seedBooking(t, store, "Areca I", "2025-10-10")

	resp, err := svc.Cancel(context.Background(), b.ID, &models.CancelBookingRequest{
		ActorID: 2,
		Reason:  ptr.Ptr("client postponed"),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.BookingStatusCancelled), resp.Status)
	require.NotNil(t, resp.CancelledAt)
	assert.Equal(t, "client postponed", *resp.CancellationReason)

	assert.Equal(t, 0, store.Claims().Count(domain.RecordKindBooking, b.ID))

	trail, err := store.Audit().ListByEntity(context.Background(), domain.RecordKindBooking, b.ID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, domain.AuditBookingCancelled, trail[0].Action)
	assert.Equal(t, "client postponed", trail[0].Metadata["reason"])

	history, err := svc.History(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, history.Entries, 1)
	assert.Equal(t, domain.AuditBookingCancelled, history.Entries[0].Action)

	// the freed slot can be claimed again
	require.NoError(t, store.Claims().Claim(context.Background(), domain.RecordKindBooking, 99, b.Sessions))
}

func TestCancel_OnlyBooked(t *testing.T) {
	store := memstore.New()
	svc := newService(store)
	b := seedBooking(t, store, "Areca I", "2025-10-10")

	_, err := svc.Cancel(context.Background(), b.ID, &models.CancelBookingRequest{ActorID: 2})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), b.ID, &models.CancelBookingRequest{ActorID: 2})
	assert.ErrorIs(t, err, ErrCannotCancel)

	_, err = svc.Cancel(context.Background(), 404, &models.CancelBookingRequest{ActorID: 2})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	store := memstore.New()
	svc := newService(store)
	b := seedBooking(t, store, "Areca I", "2025-10-10")

	long := strings.Repeat("x", domain.MaxCancellationReasonLength+1)
	_, err := svc.Cancel(context.Background(), b.ID, &models.CancelBookingRequest{ActorID: 2, Reason: ptr.Ptr(long)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, 1, store.Claims().Count(domain.RecordKindBooking, b.ID))
}
