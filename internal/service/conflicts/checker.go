package conflicts

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/pkg/types"
)

// CheckOptions задает перезаписываемую запись, собственные сессии которой
// не считаются конфликтом
type CheckOptions struct {
	ExcludeRecordID   *int64
	ExcludeRecordKind domain.RecordKind
}

// Option настройка Checker
type Option func(*Checker)

// WithinBatch включает проверку сессий запроса друг против друга
func WithinBatch(enabled bool) Option {
	return func(c *Checker) {
		c.checkWithinBatch = enabled
	}
}

// WithRecorder подключает сборщик метрик
func WithRecorder(r Recorder) Option {
	return func(c *Checker) {
		if r != nil {
			c.recorder = r
		}
	}
}

// Checker определяет, можно ли зафиксировать сессии без двойного бронирования
// площадки. Выполняет только чтение.
type Checker struct {
	bookings         BookingSource
	enquiries        EnquirySource
	recorder         Recorder
	checkWithinBatch bool
	logger           Logger
}

// NewChecker создает новый экземпляр Checker поверх зафиксированных бронирований и заявок
func NewChecker(bookings BookingSource, enquiries EnquirySource, logger Logger, opts ...Option) *Checker {
	c := &Checker{
		bookings:         bookings,
		enquiries:        enquiries,
		recorder:         nopRecorder{},
		checkWithinBatch: true,
		logger:           logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// candidate is a schedulable session from the request with its parsed interval
type candidate struct {
	index   int
	session *domain.Session
	start   int
	end     int
}

// occupied is a committed session flattened out of its owner record
type occupied struct {
	session      *domain.Session
	start        int
	end          int
	kind         domain.RecordKind
	recordID     int64
	recordNumber string
	clientName   string
}

// Check возвращает все пересечения сессий запроса с зафиксированными сессиями.
// Сессии без площадки, даты или времени пропускаются.
func (c *Checker) Check(ctx context.Context, sessions []domain.Session, opts CheckOptions) (*domain.ConflictResult, error) {
	candidates, dates, err := collectCandidates(sessions)
	if err != nil {
		c.recorder.ObserveConflictCheck(OutcomeError, 0, 0)
		return nil, err
	}

	result := &domain.ConflictResult{Conflicts: make([]domain.ConflictDetail, 0)}
	if len(candidates) == 0 {
		c.recorder.ObserveConflictCheck(OutcomeClear, 0, 0)
		return result, nil
	}

	slots, err := c.loadOccupied(ctx, dates, opts)
	if err != nil {
		c.recorder.ObserveConflictCheck(OutcomeError, 0, 0)
		c.logger.Error("Check: failed to load committed sessions: %v", err)
		return nil, err
	}

	committedCount := 0
	for _, cand := range candidates {
		for _, occ := range slots[slotKey(cand.session.Venue, cand.session.SessionDate)] {
			if !domain.IntervalsOverlap(cand.start, cand.end, occ.start, occ.end) {
				continue
			}
			result.Conflicts = append(result.Conflicts, domain.ConflictDetail{
				Kind:           domain.ConflictKindCommitted,
				CandidateIndex: cand.index,
				Venue:          cand.session.Venue,
				Date:           cand.session.SessionDate,
				RequestedStart: cand.session.StartTime,
				RequestedEnd:   cand.session.EndTime,
				ExistingStart:  occ.session.StartTime,
				ExistingEnd:    occ.session.EndTime,
				RecordKind:     occ.kind,
				RecordID:       occ.recordID,
				RecordNumber:   occ.recordNumber,
				ClientName:     occ.clientName,
				SessionName:    occ.session.SessionName,
				ExistingIndex:  -1,
			})
			committedCount++
		}
	}

	batchCount := 0
	if c.checkWithinBatch {
		batch := batchConflicts(candidates)
		batchCount = len(batch)
		result.Conflicts = append(result.Conflicts, batch...)
	}

	result.HasConflict = len(result.Conflicts) > 0
	if result.HasConflict {
		c.recorder.ObserveConflictCheck(OutcomeConflict, committedCount, batchCount)
		c.logger.Info("Check: %d conflicts (%d committed, %d within batch) for %d candidate sessions",
			len(result.Conflicts), committedCount, batchCount, len(candidates))
	} else {
		c.recorder.ObserveConflictCheck(OutcomeClear, 0, 0)
	}

	return result, nil
}

// collectCandidates разбирает заполненные сессии и собирает их даты
func collectCandidates(sessions []domain.Session) ([]candidate, []types.Date, error) {
	candidates := make([]candidate, 0, len(sessions))
	seen := make(map[types.Date]struct{})
	dates := make([]types.Date, 0)

	for i := range sessions {
		s := &sessions[i]
		if !s.IsSchedulable() {
			continue
		}

		start, end, err := s.Interval()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: session %d: %v", ErrMalformedSession, i, err)
		}
		if end <= start {
			return nil, nil, fmt.Errorf("%w: session %d: end %s is not after start %s",
				ErrMalformedSession, i, s.EndTime, s.StartTime)
		}

		candidates = append(candidates, candidate{index: i, session: s, start: start, end: end})
		if _, ok := seen[s.SessionDate]; !ok {
			seen[s.SessionDate] = struct{}{}
			dates = append(dates, s.SessionDate)
		}
	}

	return candidates, dates, nil
}

// loadOccupied читает зафиксированные записи и индексирует их сессии по площадке и дате
func (c *Checker) loadOccupied(ctx context.Context, dates []types.Date, opts CheckOptions) (map[string][]occupied, error) {
	bookingFilter := domain.CommittedFilter{Dates: dates}
	enquiryFilter := domain.CommittedFilter{Dates: dates}
	if opts.ExcludeRecordID != nil {
		switch opts.ExcludeRecordKind {
		case domain.RecordKindBooking:
			bookingFilter.ExcludeID = opts.ExcludeRecordID
		case domain.RecordKindEnquiry:
			enquiryFilter.ExcludeID = opts.ExcludeRecordID
		}
	}

	bookings, err := c.bookings.FindCommitted(ctx, bookingFilter)
	if err != nil {
		return nil, fmt.Errorf("%w: bookings: %v", ErrStorage, err)
	}

	enquiries, err := c.enquiries.FindCommitted(ctx, enquiryFilter)
	if err != nil {
		return nil, fmt.Errorf("%w: enquiries: %v", ErrStorage, err)
	}

	slots := make(map[string][]occupied)

	for _, b := range bookings {
		if b == nil || !b.IsCommitted() || isExcluded(opts, domain.RecordKindBooking, b.ID) {
			continue
		}
		for i := range b.Sessions {
			addOccupied(slots, &b.Sessions[i], domain.RecordKindBooking, b.ID, b.BookingNumber, b.ClientName)
		}
	}

	for _, e := range enquiries {
		if e == nil || !e.IsCommitted() || isExcluded(opts, domain.RecordKindEnquiry, e.ID) {
			continue
		}
		for i := range e.Sessions {
			addOccupied(slots, &e.Sessions[i], domain.RecordKindEnquiry, e.ID, e.EnquiryNumber, e.ClientName)
		}
	}

	return slots, nil
}

// addOccupied indexes a committed session; incomplete or unparseable sessions are skipped
func addOccupied(slots map[string][]occupied, s *domain.Session, kind domain.RecordKind, id int64, number, client string) {
	if !s.IsSchedulable() {
		return
	}
	start, end, err := s.Interval()
	if err != nil || end <= start {
		return
	}

	key := slotKey(s.Venue, s.SessionDate)
	slots[key] = append(slots[key], occupied{
		session:      s,
		start:        start,
		end:          end,
		kind:         kind,
		recordID:     id,
		recordNumber: number,
		clientName:   client,
	})
}

// batchConflicts находит сессии, пересекающиеся с более ранней сессией того же запроса
func batchConflicts(candidates []candidate) []domain.ConflictDetail {
	conflicts := make([]domain.ConflictDetail, 0)

	for j := 1; j < len(candidates); j++ {
		later := candidates[j]
		for i := 0; i < j; i++ {
			earlier := candidates[i]
			if !later.session.SameSlotDay(earlier.session) {
				continue
			}
			if !domain.IntervalsOverlap(later.start, later.end, earlier.start, earlier.end) {
				continue
			}
			conflicts = append(conflicts, domain.ConflictDetail{
				Kind:           domain.ConflictKindBatch,
				CandidateIndex: later.index,
				Venue:          later.session.Venue,
				Date:           later.session.SessionDate,
				RequestedStart: later.session.StartTime,
				RequestedEnd:   later.session.EndTime,
				ExistingStart:  earlier.session.StartTime,
				ExistingEnd:    earlier.session.EndTime,
				SessionName:    earlier.session.SessionName,
				ExistingIndex:  earlier.index,
			})
		}
	}

	return conflicts
}

func isExcluded(opts CheckOptions, kind domain.RecordKind, id int64) bool {
	return opts.ExcludeRecordID != nil && opts.ExcludeRecordKind == kind && *opts.ExcludeRecordID == id
}

func slotKey(venue string, date types.Date) string {
	return venue + "|" + date.Key()
}
