package check_availability

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/internal/infra/memstore"
	"github.com/m04kA/SMC-BanquetService/internal/service/conflicts"
	"github.com/m04kA/SMC-BanquetService/pkg/logger"
	"github.com/m04kA/SMC-BanquetService/pkg/types"
)

type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) Check(ctx context.Context, sessions []domain.Session, opts conflicts.CheckOptions) (*domain.ConflictResult, error) {
	args := m.Called(ctx, sessions, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConflictResult), args.Error(1)
}

func session(venue, date, start, end string) domain.Session {
	return domain.Session{
		Venue:       venue,
		SessionDate: types.MustParseDate(date),
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
	}
}

func TestExecute_ReportsCommittedConflict(t *testing.T) {
	store := memstore.New()
	booked, err := store.Bookings().Create(context.Background(), &domain.Booking{
		BookingNumber: "BKG-00000001",
		ClientName:    "Menon family",
		Status:        domain.BookingStatusBooked,
		Sessions:      []domain.Session{session("Areca I", "2025-10-10", "18:00", "22:00")},
	})
	require.NoError(t, err)

	uc := NewUseCase(conflicts.NewChecker(store.Bookings(), store.Enquiries(), logger.Nop()), logger.Nop())

	result, err := uc.Execute(context.Background(), &Request{
		Sessions: []domain.Session{session("Areca I", "2025-10-10", "20:00", "23:00")},
	})
	require.NoError(t, err)
	assert.True(t, result.HasConflict)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, booked.ID, result.Conflicts[0].RecordID)

	// excluding the booking itself clears the conflict
	result, err = uc.Execute(context.Background(), &Request{
		Sessions:          []domain.Session{session("Areca I", "2025-10-10", "20:00", "23:00")},
		ExcludeRecordID:   &booked.ID,
		ExcludeRecordKind: domain.RecordKindBooking,
	})
	require.NoError(t, err)
	assert.False(t, result.HasConflict)
	assert.Empty(t, result.Conflicts)
}

func TestExecute_PassesExclusionToChecker(t *testing.T) {
	checker := new(MockChecker)
	uc := NewUseCase(checker, logger.Nop())

	id := int64(7)
	sessions := []domain.Session{session("Areca I", "2025-10-10", "18:00", "22:00")}
	opts := conflicts.CheckOptions{ExcludeRecordID: &id, ExcludeRecordKind: domain.RecordKindEnquiry}
	checker.On("Check", mock.Anything, sessions, opts).Return(&domain.ConflictResult{}, nil)

	_, err := uc.Execute(context.Background(), &Request{
		Sessions:          sessions,
		ExcludeRecordID:   &id,
		ExcludeRecordKind: domain.RecordKindEnquiry,
	})
	require.NoError(t, err)
	checker.AssertExpectations(t)
}

func TestExecute_StorageFailure(t *testing.T) {
	checker := new(MockChecker)
	uc := NewUseCase(checker, logger.Nop())

	checker.On("Check", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: connection refused", conflicts.ErrStorage))

	_, err := uc.Execute(context.Background(), &Request{
		Sessions: []domain.Session{session("Areca I", "2025-10-10", "18:00", "22:00")},
	})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_MalformedSession(t *testing.T) {
	checker := new(MockChecker)
	uc := NewUseCase(checker, logger.Nop())

	checker.On("Check", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: candidate 0: bad time", conflicts.ErrMalformedSession))

	_, err := uc.Execute(context.Background(), &Request{
		Sessions: []domain.Session{session("Areca I", "2025-10-10", "18:00", "22:00")},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(new(MockChecker), logger.Nop())
	id := int64(3)

	cases := map[string]*Request{
		"empty":            {},
		"kind without id":  {Sessions: []domain.Session{session("Areca I", "2025-10-10", "18:00", "22:00")}, ExcludeRecordKind: domain.RecordKindBooking},
		"id without kind":  {Sessions: []domain.Session{session("Areca I", "2025-10-10", "18:00", "22:00")}, ExcludeRecordID: &id},
		"end before start": {Sessions: []domain.Session{session("Areca I", "2025-10-10", "22:00", "18:00")}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
