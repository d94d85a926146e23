package create_enquiry

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/internal/infra/memstore"
	enquiryRepo "github.com/m04kA/SMC-BanquetService/internal/infra/storage/enquiry"
	"github.com/m04kA/SMC-BanquetService/internal/service/conflicts"
	"github.com/m04kA/SMC-BanquetService/pkg/logger"
	"github.com/m04kA/SMC-BanquetService/pkg/types"
)

func session(venue, date, start, end string) domain.Session {
	return domain.Session{
		Venue:       venue,
		SessionDate: types.MustParseDate(date),
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
	}
}

func newUseCase(store *memstore.Store) *UseCase {
	log := logger.Nop()
	checker := conflicts.NewChecker(store.Bookings(), store.Enquiries(), log)
	return NewUseCase(store.Enquiries(), store.Audit(), checker, store.TxManager(), log)
}

func validRequest(sessions ...domain.Session) *Request {
	return &Request{
		CreatedBy:    1,
		ClientName:   "Menon family",
		EventType:    "wedding",
		QuotedAmount: decimal.RequireFromString("150000"),
		Sessions:     sessions,
	}
}

func TestExecute_CreatesNewEnquiry(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	enquiry, err := newUseCase(store).Execute(ctx, validRequest(
		session("Areca I", "2025-10-10", "18:00", "22:00"),
		domain.Session{Venue: "Lawn", SessionName: "mehendi, date tbc"},
	))
	require.NoError(t, err)

	assert.Equal(t, domain.EnquiryStatusNew, enquiry.Status)
	assert.Regexp(t, `^ENQ-[0-9A-F]{12}$`, enquiry.EnquiryNumber)
	assert.Len(t, enquiry.Sessions, 2)

	trail, err := store.Audit().ListByEntity(ctx, domain.RecordKindEnquiry, enquiry.ID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, domain.AuditEnquiryCreated, trail[0].Action)
}

func TestExecute_RejectsOverlapWithBooking(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	existing, err := store.Bookings().Create(ctx, &domain.Booking{
		BookingNumber: "BKG-00000001",
		ClientName:    "Nair",
		Status:        domain.BookingStatusBooked,
		Sessions:      []domain.Session{session("Areca I", "2025-10-10", "18:00", "22:00")},
	})
	require.NoError(t, err)

	_, err = newUseCase(store).Execute(ctx, validRequest(session("Areca I", "2025-10-10", "19:00", "23:00")))

	var conflictErr *conflicts.ConflictError
	require.True(t, errors.As(err, &conflictErr))
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, existing.ID, conflictErr.Conflicts[0].RecordID)
	assert.Equal(t, domain.RecordKindBooking, conflictErr.Conflicts[0].RecordKind)

	list, err := store.Enquiries().List(ctx, domain.EnquiryFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "nothing is written on conflict")
}

func TestExecute_TouchingSlotIsAccepted(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	_, err := store.Bookings().Create(ctx, &domain.Booking{
		Status:   domain.BookingStatusBooked,
		Sessions: []domain.Session{session("Areca I", "2025-10-10", "10:00", "14:00")},
	})
	require.NoError(t, err)

	_, err = newUseCase(store).Execute(ctx, validRequest(session("Areca I", "2025-10-10", "14:00", "18:00")))
	assert.NoError(t, err)
}

func TestExecute_UncommittedEnquiriesDoNotBlock(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	uc := newUseCase(store)

	_, err := uc.Execute(ctx, validRequest(session("Areca I", "2025-10-10", "18:00", "22:00")))
	require.NoError(t, err)

	// a second new enquiry for the same slot is fine: only converted enquiries hold slots
	_, err = uc.Execute(ctx, validRequest(session("Areca I", "2025-10-10", "18:00", "22:00")))
	assert.NoError(t, err)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{name: "missing client", mutate: func(r *Request) { r.ClientName = "  " }},
		{name: "missing creator", mutate: func(r *Request) { r.CreatedBy = 0 }},
		{name: "negative quote", mutate: func(r *Request) { r.QuotedAmount = decimal.NewFromInt(-1) }},
		{name: "inverted session", mutate: func(r *Request) {
			r.Sessions = []domain.Session{session("Areca I", "2025-10-10", "22:00", "18:00")}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := newUseCase(memstore.New()).Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

type failingEnquiries struct{}

func (failingEnquiries) FindCommitted(context.Context, domain.CommittedFilter) ([]*domain.Enquiry, error) {
	return nil, errors.New("connection refused")
}

func TestExecute_StorageFailureIsInternal(t *testing.T) {
	store := memstore.New()
	log := logger.Nop()
	checker := conflicts.NewChecker(store.Bookings(), failingEnquiries{}, log)
	uc := NewUseCase(store.Enquiries(), store.Audit(), checker, store.TxManager(), log)

	_, err := uc.Execute(context.Background(), validRequest(session("Areca I", "2025-10-10", "18:00", "22:00")))
	assert.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, conflicts.ErrConflict)
}

// takenNumbers fails the first taken creates with a number collision
type takenNumbers struct {
	*memstore.EnquiryRepository
	taken int
	tried []string
}

func (r *takenNumbers) Create(ctx context.Context, enquiry *domain.Enquiry) (*domain.Enquiry, error) {
	r.tried = append(r.tried, enquiry.EnquiryNumber)
	if len(r.tried) <= r.taken {
		return nil, enquiryRepo.ErrDuplicateNumber
	}
	return r.EnquiryRepository.Create(ctx, enquiry)
}

func TestExecute_RetriesTakenNumber(t *testing.T) {
	tests := []struct {
		name    string
		taken   int
		wantErr error
	}{
		{name: "second number is free", taken: 1},
		{name: "every number taken", taken: domain.MaxRecordNumberAttempts, wantErr: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memstore.New()
			repo := &takenNumbers{EnquiryRepository: store.Enquiries(), taken: tt.taken}
			log := logger.Nop()
			checker := conflicts.NewChecker(store.Bookings(), store.Enquiries(), log)
			uc := NewUseCase(repo, store.Audit(), checker, store.TxManager(), log)

			enquiry, err := uc.Execute(context.Background(), validRequest(session("Areca I", "2025-10-10", "18:00", "22:00")))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, repo.tried, domain.MaxRecordNumberAttempts)
				return
			}
			require.NoError(t, err)
			require.Len(t, repo.tried, 2)
			assert.NotEqual(t, repo.tried[0], repo.tried[1])
			assert.Equal(t, repo.tried[1], enquiry.EnquiryNumber)
		})
	}
}
