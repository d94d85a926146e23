package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BanquetService/internal/infra/storage/booking"
	enquiryRepo "github.com/m04kA/SMC-BanquetService/internal/infra/storage/enquiry"
	"github.com/m04kA/SMC-BanquetService/internal/infra/storage/slotclaim"
)

// Store хранит все записи в памяти процесса с той же семантикой, что и SQL хранилище,
// включая правило пересечения слотов и его ошибки.
// Данные теряются при перезапуске.
type Store struct {
	mu sync.Mutex
	// txMu выполняет транзакции TxManager по одной
	txMu sync.Mutex

	state state
	now   func() time.Time
}

type claim struct {
	kind    domain.RecordKind
	ownerID int64
	venue   string
	date    string
	start   int
	end     int
}

type state struct {
	enquiries     map[int64]*domain.Enquiry
	bookings      map[int64]*domain.Booking
	claims        []claim
	audit         []*domain.AuditEntry
	lastEnquiryID int64
	lastBookingID int64
	lastAuditID   int64
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		state: state{
			enquiries: map[int64]*domain.Enquiry{},
			bookings:  map[int64]*domain.Booking{},
		},
		now: time.Now,
	}
}

func (s *state) clone() state {
	c := *s
	c.enquiries = make(map[int64]*domain.Enquiry, len(s.enquiries))
	for id, e := range s.enquiries {
		c.enquiries[id] = copyEnquiry(e)
	}
	c.bookings = make(map[int64]*domain.Booking, len(s.bookings))
	for id, b := range s.bookings {
		c.bookings[id] = copyBooking(b)
	}
	c.claims = append([]claim(nil), s.claims...)
	c.audit = append([]*domain.AuditEntry(nil), s.audit...)
	return c
}

func copySessions(sessions []domain.Session) []domain.Session {
	if sessions == nil {
		return nil
	}
	return append([]domain.Session(nil), sessions...)
}

func copyEnquiry(e *domain.Enquiry) *domain.Enquiry {
	c := *e
	c.Sessions = copySessions(e.Sessions)
	return &c
}

func copyBooking(b *domain.Booking) *domain.Booking {
	c := *b
	c.Sessions = copySessions(b.Sessions)
	return &c
}

func hasSessionOn(sessions []domain.Session, dates []string) bool {
	if len(dates) == 0 {
		return true
	}
	for _, s := range sessions {
		key := s.SessionDate.Key()
		for _, d := range dates {
			if key == d {
				return true
			}
		}
	}
	return false
}

func dateKeys(filter domain.CommittedFilter) []string {
	keys := make([]string, len(filter.Dates))
	for i, d := range filter.Dates {
		keys[i] = d.Key()
	}
	return keys
}

func page[T any](items []T, limit, offset uint64) []T {
	if offset >= uint64(len(items)) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < uint64(len(items)) {
		items = items[:limit]
	}
	return items
}

// ---- enquiries ----

// Enquiries возвращает репозиторий заявок
func (s *Store) Enquiries() *EnquiryRepository { return &EnquiryRepository{s: s} }

// EnquiryRepository репозиторий заявок в памяти
type EnquiryRepository struct{ s *Store }

func (r *EnquiryRepository) Create(_ context.Context, enquiry *domain.Enquiry) (*domain.Enquiry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range r.s.state.enquiries {
		if enquiry.EnquiryNumber != "" && e.EnquiryNumber == enquiry.EnquiryNumber {
			return nil, fmt.Errorf("%w: %s", enquiryRepo.ErrDuplicateNumber, enquiry.EnquiryNumber)
		}
	}

	r.s.state.lastEnquiryID++
	now := r.s.now()
	enquiry.ID = r.s.state.lastEnquiryID
	enquiry.CreatedAt = now
	enquiry.UpdatedAt = now
	r.s.state.enquiries[enquiry.ID] = copyEnquiry(enquiry)
	return copyEnquiry(enquiry), nil
}

func (r *EnquiryRepository) GetByID(_ context.Context, id int64) (*domain.Enquiry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.state.enquiries[id]
	if !ok {
		return nil, enquiryRepo.ErrEnquiryNotFound
	}
	return copyEnquiry(e), nil
}

func (r *EnquiryRepository) List(_ context.Context, filter domain.EnquiryFilter) ([]*domain.Enquiry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]*domain.Enquiry, 0, len(r.s.state.enquiries))
	for _, e := range r.s.state.enquiries {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		result = append(result, copyEnquiry(e))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return page(result, filter.Limit, filter.Offset), nil
}

func (r *EnquiryRepository) FindCommitted(_ context.Context, filter domain.CommittedFilter) ([]*domain.Enquiry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	dates := dateKeys(filter)
	result := make([]*domain.Enquiry, 0)
	for _, e := range r.s.state.enquiries {
		if e.Status != domain.EnquiryStatusConverted {
			continue
		}
		if filter.ExcludeID != nil && e.ID == *filter.ExcludeID {
			continue
		}
		if !hasSessionOn(e.Sessions, dates) {
			continue
		}
		result = append(result, copyEnquiry(e))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *EnquiryRepository) Update(_ context.Context, enquiry *domain.Enquiry) (*domain.Enquiry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.state.enquiries[enquiry.ID]
	if !ok {
		return nil, enquiryRepo.ErrEnquiryNotFound
	}
	stored.ClientName = enquiry.ClientName
	stored.ClientPhone = enquiry.ClientPhone
	stored.ClientEmail = enquiry.ClientEmail
	stored.EventType = enquiry.EventType
	stored.QuotedAmount = enquiry.QuotedAmount
	stored.Notes = enquiry.Notes
	stored.Sessions = copySessions(enquiry.Sessions)
	stored.UpdatedAt = r.s.now()
	return copyEnquiry(stored), nil
}

func (r *EnquiryRepository) UpdateStatus(_ context.Context, id int64, from, to domain.EnquiryStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.state.enquiries[id]
	if !ok {
		return enquiryRepo.ErrEnquiryNotFound
	}
	if stored.Status != from {
		return enquiryRepo.ErrStatusChanged
	}
	stored.Status = to
	stored.UpdatedAt = r.s.now()
	return nil
}

// ---- bookings ----

// Bookings возвращает репозиторий бронирований
func (s *Store) Bookings() *BookingRepository { return &BookingRepository{s: s} }

// BookingRepository репозиторий бронирований в памяти
type BookingRepository struct{ s *Store }

func (r *BookingRepository) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.state.bookings {
		if booking.BookingNumber != "" && b.BookingNumber == booking.BookingNumber {
			return nil, fmt.Errorf("%w: %s", bookingRepo.ErrDuplicateNumber, booking.BookingNumber)
		}
	}

	r.s.state.lastBookingID++
	now := r.s.now()
	booking.ID = r.s.state.lastBookingID
	booking.CreatedAt = now
	booking.UpdatedAt = now
	r.s.state.bookings[booking.ID] = copyBooking(booking)
	return copyBooking(booking), nil
}

func (r *BookingRepository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.state.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return copyBooking(b), nil
}

func (r *BookingRepository) List(_ context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]*domain.Booking, 0, len(r.s.state.bookings))
	for _, b := range r.s.state.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if (filter.Date != nil || filter.Venue != nil) && !matchesSession(b.Sessions, filter) {
			continue
		}
		result = append(result, copyBooking(b))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return page(result, filter.Limit, filter.Offset), nil
}

func matchesSession(sessions []domain.Session, filter domain.BookingFilter) bool {
	for _, s := range sessions {
		if filter.Date != nil && s.SessionDate != *filter.Date {
			continue
		}
		if filter.Venue != nil && s.Venue != *filter.Venue {
			continue
		}
		return true
	}
	return false
}

func (r *BookingRepository) FindCommitted(_ context.Context, filter domain.CommittedFilter) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	dates := dateKeys(filter)
	result := make([]*domain.Booking, 0)
	for _, b := range r.s.state.bookings {
		if b.Status != domain.BookingStatusBooked {
			continue
		}
		if filter.ExcludeID != nil && b.ID == *filter.ExcludeID {
			continue
		}
		if !hasSessionOn(b.Sessions, dates) {
			continue
		}
		result = append(result, copyBooking(b))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *BookingRepository) Cancel(_ context.Context, id int64, reason *string) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.state.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	if !stored.CanBeCancelled() {
		return nil, bookingRepo.ErrCannotCancel
	}
	now := r.s.now()
	stored.Status = domain.BookingStatusCancelled
	stored.CancellationReason = reason
	stored.CancelledAt = &now
	stored.UpdatedAt = now
	return copyBooking(stored), nil
}

// ---- slot claims ----

// Claims возвращает репозиторий занятых слотов
func (s *Store) Claims() *ClaimRepository { return &ClaimRepository{s: s} }

// ClaimRepository применяет то же правило, что и EXCLUDE ограничение venue_slot_claims:
// слоты разных владельцев не пересекаются, слоты одного владельца могут
type ClaimRepository struct{ s *Store }

func (r *ClaimRepository) Claim(_ context.Context, kind domain.RecordKind, ownerID int64, items []domain.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	pending := make([]claim, 0, len(items))
	for i := range items {
		s := &items[i]
		if !s.IsSchedulable() {
			continue
		}
		start, end, err := s.Interval()
		if err != nil || end <= start {
			return slotclaim.ErrInvalidSession
		}
		c := claim{kind: kind, ownerID: ownerID, venue: s.Venue, date: s.SessionDate.Key(), start: start, end: end}
		if overlapsAny(r.s.state.claims, c) {
			return slotclaim.ErrSlotTaken
		}
		pending = append(pending, c)
	}

	r.s.state.claims = append(r.s.state.claims, pending...)
	return nil
}

func overlapsAny(claims []claim, c claim) bool {
	for _, existing := range claims {
		if existing.kind == c.kind && existing.ownerID == c.ownerID {
			continue
		}
		if existing.venue == c.venue && existing.date == c.date &&
			domain.IntervalsOverlap(existing.start, existing.end, c.start, c.end) {
			return true
		}
	}
	return false
}

func (r *ClaimRepository) Release(_ context.Context, kind domain.RecordKind, ownerID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	kept := r.s.state.claims[:0]
	for _, c := range r.s.state.claims {
		if c.kind == kind && c.ownerID == ownerID {
			continue
		}
		kept = append(kept, c)
	}
	r.s.state.claims = kept
	return nil
}

func (r *ClaimRepository) Replace(ctx context.Context, kind domain.RecordKind, ownerID int64, items []domain.Session) error {
	if err := r.Release(ctx, kind, ownerID); err != nil {
		return err
	}
	return r.Claim(ctx, kind, ownerID, items)
}

// Count возвращает число слотов владельца
func (r *ClaimRepository) Count(kind domain.RecordKind, ownerID int64) int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for _, c := range r.s.state.claims {
		if c.kind == kind && c.ownerID == ownerID {
			n++
		}
	}
	return n
}

// ---- audit ----

// Audit возвращает журнал изменений
func (s *Store) Audit() *AuditRepository { return &AuditRepository{s: s} }

// AuditRepository журнал изменений в памяти
type AuditRepository struct{ s *Store }

func (r *AuditRepository) Record(_ context.Context, entry *domain.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.state.lastAuditID++
	entry.ID = r.s.state.lastAuditID
	entry.CreatedAt = r.s.now()
	c := *entry
	r.s.state.audit = append(r.s.state.audit, &c)
	return nil
}

func (r *AuditRepository) ListByEntity(_ context.Context, kind domain.RecordKind, id int64) ([]*domain.AuditEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]*domain.AuditEntry, 0)
	for _, e := range r.s.state.audit {
		if e.EntityKind == kind && e.EntityID == id {
			c := *e
			result = append(result, &c)
		}
	}
	return result, nil
}
