package conflicts

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/pkg/logger"
	"github.com/m04kA/SMC-BanquetService/pkg/ptr"
	"github.com/m04kA/SMC-BanquetService/pkg/types"
)

// fakeStore returns records the way a real repository would: committed only,
// with ExcludeID applied
type fakeStore struct {
	bookings  []*domain.Booking
	enquiries []*domain.Enquiry
	err       error

	lastBookingFilter domain.CommittedFilter
	lastEnquiryFilter domain.CommittedFilter
	calls             int
}

type bookingSource struct{ *fakeStore }
type enquirySource struct{ *fakeStore }

func (s bookingSource) FindCommitted(_ context.Context, f domain.CommittedFilter) ([]*domain.Booking, error) {
	s.calls++
	s.lastBookingFilter = f
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if b.Status != domain.BookingStatusBooked {
			continue
		}
		if f.ExcludeID != nil && *f.ExcludeID == b.ID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (s enquirySource) FindCommitted(_ context.Context, f domain.CommittedFilter) ([]*domain.Enquiry, error) {
	s.lastEnquiryFilter = f
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*domain.Enquiry, 0)
	for _, e := range s.enquiries {
		if e.Status != domain.EnquiryStatusConverted {
			continue
		}
		if f.ExcludeID != nil && *f.ExcludeID == e.ID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type countingRecorder struct {
	outcomes []string
}

func (r *countingRecorder) ObserveConflictCheck(outcome string, _, _ int) {
	r.outcomes = append(r.outcomes, outcome)
}

func newChecker(store *fakeStore, opts ...Option) *Checker {
	return NewChecker(bookingSource{store}, enquirySource{store}, logger.Nop(), opts...)
}

func session(venue, date, start, end string) domain.Session {
	s := domain.Session{Venue: venue, StartTime: types.TimeString(start), EndTime: types.TimeString(end)}
	if date != "" {
		s.SessionDate = types.MustParseDate(date)
	}
	return s
}

func bookingA() *domain.Booking {
	return &domain.Booking{
		ID:            1,
		BookingNumber: "BKG-0001",
		ClientName:    "Menon Family",
		Status:        domain.BookingStatusBooked,
		Sessions:      []domain.Session{session("Areca I", "2025-10-10", "18:00", "22:00")},
	}
}

func TestCheck_OverlapWithBookedBooking(t *testing.T) {
	c := newChecker(&fakeStore{bookings: []*domain.Booking{bookingA()}})

	res, err := c.Check(context.Background(),
		[]domain.Session{session("Areca I", "2025-10-10", "19:00", "20:00")}, CheckOptions{})

	require.NoError(t, err)
	assert.True(t, res.HasConflict)
	require.Len(t, res.Conflicts, 1)

	got := res.Conflicts[0]
	assert.Equal(t, domain.ConflictKindCommitted, got.Kind)
	assert.Equal(t, domain.RecordKindBooking, got.RecordKind)
	assert.Equal(t, int64(1), got.RecordID)
	assert.Equal(t, "BKG-0001", got.RecordNumber)
	assert.Equal(t, "Menon Family", got.ClientName)
	assert.Equal(t, "Areca I", got.Venue)
	assert.Equal(t, "2025-10-10", got.Date.String())
	assert.Equal(t, types.TimeString("19:00"), got.RequestedStart)
	assert.Equal(t, types.TimeString("22:00"), got.ExistingEnd)
}

func TestCheck_TouchingBoundaryIsNotAConflict(t *testing.T) {
	c := newChecker(&fakeStore{bookings: []*domain.Booking{bookingA()}})

	res, err := c.Check(context.Background(),
		[]domain.Session{session("Areca I", "2025-10-10", "22:00", "23:00")}, CheckOptions{})

	require.NoError(t, err)
	assert.False(t, res.HasConflict)
	assert.Empty(t, res.Conflicts)

	res, err = c.Check(context.Background(),
		[]domain.Session{session("Areca I", "2025-10-10", "14:00", "18:00")}, CheckOptions{})
	require.NoError(t, err)
	assert.False(t, res.HasConflict)
}

func TestCheck_DifferentVenueNeverConflicts(t *testing.T) {
	c := newChecker(&fakeStore{bookings: []*domain.Booking{bookingA()}})

	res, err := c.Check(context.Background(),
		[]domain.Session{session("Areca II", "2025-10-10", "18:00", "22:00")}, CheckOptions{})

	require.NoError(t, err)
	assert.False(t, res.HasConflict)
}

func TestCheck_DifferentDateNeverConflicts(t *testing.T) {
	c := newChecker(&fakeStore{bookings: []*domain.Booking{bookingA()}})

	res, err := c.Check(context.Background(),
		[]domain.Session{session("Areca I", "2025-10-11", "18:00", "22:00")}, CheckOptions{})

	require.NoError(t, err)
	assert.False(t, res.HasConflict)
}

func TestCheck_ConvertedEnquiryExcludesItself(t *testing.T) {
	e := &domain.Enquiry{
		ID:            7,
		EnquiryNumber: "ENQ-0007",
		ClientName:    "Nair Corp",
		Status:        domain.EnquiryStatusConverted,
		Sessions:      []domain.Session{session("Board Room", "2025-11-01", "10:00", "11:00")},
	}
	store := &fakeStore{enquiries: []*domain.Enquiry{e}}
	c := newChecker(store)

	res, err := c.Check(context.Background(), e.Sessions, CheckOptions{
		ExcludeRecordID:   ptr.Ptr(e.ID),
		ExcludeRecordKind: domain.RecordKindEnquiry,
	})

	require.NoError(t, err)
	assert.False(t, res.HasConflict)
	require.NotNil(t, store.lastEnquiryFilter.ExcludeID)
	assert.Equal(t, int64(7), *store.lastEnquiryFilter.ExcludeID)
	assert.Nil(t, store.lastBookingFilter.ExcludeID, "exclusion applies to the matching kind only")

	// without exclusion the same sessions clash with the stored copy
	res, err = c.Check(context.Background(), e.Sessions, CheckOptions{})
	require.NoError(t, err)
	assert.True(t, res.HasConflict)
	assert.Equal(t, domain.RecordKindEnquiry, res.Conflicts[0].RecordKind)
}

func TestCheck_ExclusionIsKindSpecific(t *testing.T) {
	b := bookingA()
	c := newChecker(&fakeStore{bookings: []*domain.Booking{b}})

	// an enquiry that happens to share the booking's id must not hide the booking
	res, err := c.Check(context.Background(), b.Sessions, CheckOptions{
		ExcludeRecordID:   ptr.Ptr(b.ID),
		ExcludeRecordKind: domain.RecordKindEnquiry,
	})
	require.NoError(t, err)
	assert.True(t, res.HasConflict)

	res, err = c.Check(context.Background(), b.Sessions, CheckOptions{
		ExcludeRecordID:   ptr.Ptr(b.ID),
		ExcludeRecordKind: domain.RecordKindBooking,
	})
	require.NoError(t, err)
	assert.False(t, res.HasConflict)
}

func TestCheck_OnlyCommittedStatusesBlock(t *testing.T) {
	slot := session("Board Room", "2025-11-01", "10:00", "11:00")
	store := &fakeStore{
		enquiries: []*domain.Enquiry{
			{ID: 1, Status: domain.EnquiryStatusOngoing, Sessions: []domain.Session{slot}},
			{ID: 2, Status: domain.EnquiryStatusLost, Sessions: []domain.Session{slot}},
			{ID: 3, Status: domain.EnquiryStatusNew, Sessions: []domain.Session{slot}},
			{ID: 4, Status: domain.EnquiryStatusBooked, Sessions: []domain.Session{slot}},
		},
		bookings: []*domain.Booking{
			{ID: 5, Status: domain.BookingStatusCancelled, Sessions: []domain.Session{slot}},
		},
	}
	c := newChecker(store)

	res, err := c.Check(context.Background(), []domain.Session{slot}, CheckOptions{})

	require.NoError(t, err)
	assert.False(t, res.HasConflict)
}

func TestCheck_StatusGatingDoesNotTrustTheSource(t *testing.T) {
	slot := session("Board Room", "2025-11-01", "10:00", "11:00")
	ongoing := &domain.Enquiry{ID: 1, Status: domain.EnquiryStatusOngoing, Sessions: []domain.Session{slot}}

	c := NewChecker(bookingSource{&fakeStore{}}, leakySource{ongoing}, logger.Nop())

	res, err := c.Check(context.Background(), []domain.Session{slot}, CheckOptions{})
	require.NoError(t, err)
	assert.False(t, res.HasConflict)
}

type leakySource struct{ e *domain.Enquiry }

func (s leakySource) FindCommitted(context.Context, domain.CommittedFilter) ([]*domain.Enquiry, error) {
	return []*domain.Enquiry{s.e}, nil
}

func TestCheck_IncompleteCandidatesAreSkipped(t *testing.T) {
	store := &fakeStore{bookings: []*domain.Booking{bookingA()}}
	c := newChecker(store)

	res, err := c.Check(context.Background(), []domain.Session{
		session("", "2025-10-10", "19:00", "20:00"),
		session("Areca I", "", "19:00", "20:00"),
		session("Areca I", "2025-10-10", "", "20:00"),
	}, CheckOptions{})

	require.NoError(t, err)
	assert.False(t, res.HasConflict)
	assert.Empty(t, res.Conflicts)
	assert.Zero(t, store.calls, "nothing schedulable means nothing to read")
}

func TestCheck_IncompleteCommittedSessionsAreSkipped(t *testing.T) {
	b := bookingA()
	b.Sessions = append(b.Sessions, domain.Session{Venue: "Areca II", StartTime: "10:00", EndTime: "12:00"})
	c := newChecker(&fakeStore{bookings: []*domain.Booking{b}})

	res, err := c.Check(context.Background(),
		[]domain.Session{session("Areca II", "2025-10-10", "10:00", "12:00")}, CheckOptions{})

	require.NoError(t, err)
	assert.False(t, res.HasConflict)
}

func TestCheck_MalformedCandidate(t *testing.T) {
	c := newChecker(&fakeStore{})

	_, err := c.Check(context.Background(),
		[]domain.Session{session("Areca I", "2025-10-10", "25:00", "26:00")}, CheckOptions{})
	assert.ErrorIs(t, err, ErrMalformedSession)

	_, err = c.Check(context.Background(),
		[]domain.Session{session("Areca I", "2025-10-10", "20:00", "19:00")}, CheckOptions{})
	assert.ErrorIs(t, err, ErrMalformedSession)
}

func TestCheck_StorageFailureFailsClosed(t *testing.T) {
	rec := &countingRecorder{}
	boom := errors.New("connection reset")
	c := newChecker(&fakeStore{err: boom}, WithRecorder(rec))

	res, err := c.Check(context.Background(),
		[]domain.Session{session("Areca I", "2025-10-10", "19:00", "20:00")}, CheckOptions{})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrStorage)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, []string{OutcomeError}, rec.outcomes)
}

func TestCheck_PassesCandidateDatesToSources(t *testing.T) {
	store := &fakeStore{}
	c := newChecker(store)

	_, err := c.Check(context.Background(), []domain.Session{
		session("Areca I", "2025-10-10", "10:00", "11:00"),
		session("Areca II", "2025-10-10", "10:00", "11:00"),
		session("Areca I", "2025-10-12", "10:00", "11:00"),
	}, CheckOptions{})

	require.NoError(t, err)
	assert.Equal(t, []types.Date{types.MustParseDate("2025-10-10"), types.MustParseDate("2025-10-12")},
		store.lastBookingFilter.Dates)
	assert.Equal(t, store.lastBookingFilter.Dates, store.lastEnquiryFilter.Dates)
}

func TestCheck_WithinBatch(t *testing.T) {
	batch := []domain.Session{
		session("Areca I", "2025-10-10", "10:00", "12:00"),
		session("Areca I", "2025-10-10", "11:00", "13:00"),
		session("Areca I", "2025-10-10", "13:00", "14:00"),
	}

	c := newChecker(&fakeStore{})
	res, err := c.Check(context.Background(), batch, CheckOptions{})
	require.NoError(t, err)
	assert.True(t, res.HasConflict)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, domain.ConflictKindBatch, res.Conflicts[0].Kind)
	assert.Equal(t, 1, res.Conflicts[0].CandidateIndex)
	assert.Equal(t, 0, res.Conflicts[0].ExistingIndex)

	c = newChecker(&fakeStore{}, WithinBatch(false))
	res, err = c.Check(context.Background(), batch, CheckOptions{})
	require.NoError(t, err)
	assert.False(t, res.HasConflict)
}

func TestCheck_ReportsEveryOverlap(t *testing.T) {
	other := &domain.Booking{
		ID:            2,
		BookingNumber: "BKG-0002",
		Status:        domain.BookingStatusBooked,
		Sessions:      []domain.Session{session("Areca I", "2025-10-10", "12:00", "15:00")},
	}
	rec := &countingRecorder{}
	c := newChecker(&fakeStore{bookings: []*domain.Booking{bookingA(), other}}, WithRecorder(rec))

	res, err := c.Check(context.Background(), []domain.Session{
		session("Areca I", "2025-10-10", "14:00", "19:00"),
		session("Areca I", "2025-10-10", "08:00", "09:00"),
	}, CheckOptions{})

	require.NoError(t, err)
	require.Len(t, res.Conflicts, 2)
	assert.Equal(t, int64(1), res.Conflicts[0].RecordID)
	assert.Equal(t, int64(2), res.Conflicts[1].RecordID)
	assert.Equal(t, []string{OutcomeConflict}, rec.outcomes)
}

func TestConflictError(t *testing.T) {
	err := error(NewConflictError(&domain.ConflictResult{
		HasConflict: true,
		Conflicts:   []domain.ConflictDetail{{Venue: "Areca I"}},
	}))

	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "1 conflicting sessions")

	var conflictErr *ConflictError
	require.ErrorAs(t, fmt.Errorf("create_enquiry: %w", err), &conflictErr)
	assert.Len(t, conflictErr.Conflicts, 1)

	bare := NewConflictError(nil)
	assert.Empty(t, bare.Conflicts)
	assert.Equal(t, ErrConflict.Error(), bare.Error())
}
