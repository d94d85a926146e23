package change_enquiry_status

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/internal/infra/lock"
	"github.com/m04kA/SMC-BanquetService/internal/infra/memstore"
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
	return NewUseCase(store.Enquiries(), store.Audit(), store.Claims(), lock.NoopLocker{}, checker, store.TxManager(), log)
}

func seed(t *testing.T, store *memstore.Store, status domain.EnquiryStatus, sessions ...domain.Session) *domain.Enquiry {
	t.Helper()
	e, err := store.Enquiries().Create(context.Background(), &domain.Enquiry{
		EnquiryNumber: domain.NewRecordNumber(domain.EnquiryNumberPrefix),
		ClientName:    "Menon family",
		Status:        status,
		Sessions:      sessions,
	})
	require.NoError(t, err)
	return e
}

func move(uc *UseCase, id int64, status domain.EnquiryStatus) (*domain.Enquiry, error) {
	return uc.Execute(context.Background(), &Request{ID: id, ActorID: 2, Status: string(status)})
}

func TestExecute_HappyPathThroughPipeline(t *testing.T) {
	store := memstore.New()
	uc := newUseCase(store)
	e := seed(t, store, domain.EnquiryStatusNew, session("Areca I", "2025-10-10", "18:00", "22:00"))

	for _, status := range []domain.EnquiryStatus{
		domain.EnquiryStatusQuotationSent,
		domain.EnquiryStatusOngoing,
		domain.EnquiryStatusConverted,
	} {
		updated, err := move(uc, e.ID, status)
		require.NoError(t, err, status)
		assert.Equal(t, status, updated.Status)
	}

	assert.Equal(t, 1, store.Claims().Count(domain.RecordKindEnquiry, e.ID))

	trail, err := store.Audit().ListByEntity(context.Background(), domain.RecordKindEnquiry, e.ID)
	require.NoError(t, err)
	require.Len(t, trail, 3)
	assert.Equal(t, map[string]interface{}{"from": "ongoing", "to": "converted"}, trail[2].Metadata)
}

func TestExecute_ConvertRunsConflictCheck(t *testing.T) {
	store := memstore.New()
	uc := newUseCase(store)

	first := seed(t, store, domain.EnquiryStatusOngoing, session("Areca I", "2025-10-10", "18:00", "22:00"))
	second := seed(t, store, domain.EnquiryStatusOngoing, session("Areca I", "2025-10-10", "20:00", "23:00"))

	_, err := move(uc, first.ID, domain.EnquiryStatusConverted)
	require.NoError(t, err)

	_, err = move(uc, second.ID, domain.EnquiryStatusConverted)
	var conflictErr *conflicts.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, first.ID, conflictErr.Conflicts[0].RecordID)

	stored, err := store.Enquiries().GetByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EnquiryStatusOngoing, stored.Status)
}

func TestExecute_LosingConvertedReleasesSlot(t *testing.T) {
	store := memstore.New()
	uc := newUseCase(store)

	first := seed(t, store, domain.EnquiryStatusOngoing, session("Areca I", "2025-10-10", "18:00", "22:00"))
	second := seed(t, store, domain.EnquiryStatusOngoing, session("Areca I", "2025-10-10", "20:00", "23:00"))

	_, err := move(uc, first.ID, domain.EnquiryStatusConverted)
	require.NoError(t, err)
	_, err = move(uc, first.ID, domain.EnquiryStatusLost)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Claims().Count(domain.RecordKindEnquiry, first.ID))

	_, err = move(uc, second.ID, domain.EnquiryStatusConverted)
	assert.NoError(t, err)
}

func TestExecute_ReopenOnlyFromLost(t *testing.T) {
	store := memstore.New()
	uc := newUseCase(store)
	e := seed(t, store, domain.EnquiryStatusLost)

	_, err := move(uc, e.ID, domain.EnquiryStatusNew)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	reopened, err := move(uc, e.ID, domain.EnquiryStatusOngoing)
	require.NoError(t, err)
	assert.Equal(t, domain.EnquiryStatusOngoing, reopened.Status)
}

func TestExecute_Rejections(t *testing.T) {
	store := memstore.New()
	uc := newUseCase(store)
	e := seed(t, store, domain.EnquiryStatusNew)

	_, err := move(uc, e.ID, domain.EnquiryStatusConverted)
	assert.ErrorIs(t, err, ErrInvalidTransition, "new cannot skip to converted")

	_, err = move(uc, e.ID, domain.EnquiryStatusBooked)
	assert.ErrorIs(t, err, ErrBookedViaBooking)

	_, err = move(uc, e.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = move(uc, 999, domain.EnquiryStatusLost)
	assert.ErrorIs(t, err, ErrEnquiryNotFound)
}

func TestExecute_ConvertRejectsDraftSessions(t *testing.T) {
	store := memstore.New()
	uc := newUseCase(store)
	draft := domain.Session{Venue: "Areca I", SessionDate: types.MustParseDate("2025-10-10")}
	e := seed(t, store, domain.EnquiryStatusOngoing, session("Lawn", "2025-10-10", "10:00", "12:00"), draft)

	_, err := move(uc, e.ID, domain.EnquiryStatusConverted)
	assert.ErrorIs(t, err, ErrInvalidInput)

	stored, err := store.Enquiries().GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EnquiryStatusOngoing, stored.Status)
	assert.Equal(t, 0, store.Claims().Count(domain.RecordKindEnquiry, e.ID))
}
