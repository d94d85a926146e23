package domain

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BanquetService/pkg/types"
)

// Session is one scheduled occupation of a venue, embedded in an enquiry or booking
type Session struct {
	Venue               string
	SessionDate         types.Date
	StartTime           types.TimeString
	EndTime             types.TimeString
	SessionName         string
	PaxCount            int
	SpecialInstructions string
}

// IsSchedulable returns true when venue, date and both times are present.
// Sessions that are not schedulable never take part in conflict checks.
func (s *Session) IsSchedulable() bool {
	return s.Venue != "" && !s.SessionDate.IsZero() && !s.StartTime.IsZero() && !s.EndTime.IsZero()
}

// Interval returns the session's [start, end) range in minutes since midnight
func (s *Session) Interval() (start, end int, err error) {
	start, err = s.StartTime.Minutes()
	if err != nil {
		return 0, 0, err
	}
	end, err = s.EndTime.Minutes()
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// SameSlotDay returns true if both sessions are in the same venue on the same calendar date
func (s *Session) SameSlotDay(other *Session) bool {
	return s.Venue == other.Venue && s.SessionDate == other.SessionDate
}

// IntervalsOverlap tests half-open intervals [aStart, aEnd) and [bStart, bEnd).
// Touching boundaries (one ends at 14:00, the other starts at 14:00) do not overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// ErrInvalidSession is returned by Session.Validate
var ErrInvalidSession = errors.New("domain: invalid session")

// Validate checks field limits and, when both times are present, that end is after start.
// It does not require the session to be schedulable.
func (s *Session) Validate() error {
	if len(s.Venue) > MaxVenueLength {
		return fmt.Errorf("%w: venue longer than %d characters", ErrInvalidSession, MaxVenueLength)
	}
	if s.PaxCount < 0 || s.PaxCount > MaxPaxCount {
		return fmt.Errorf("%w: paxCount must be between 0 and %d", ErrInvalidSession, MaxPaxCount)
	}
	if !s.StartTime.IsZero() {
		if err := s.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: startTime: %v", ErrInvalidSession, err)
		}
	}
	if !s.EndTime.IsZero() {
		if err := s.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: endTime: %v", ErrInvalidSession, err)
		}
	}
	if !s.StartTime.IsZero() && !s.EndTime.IsZero() && !s.StartTime.IsBefore(s.EndTime) {
		return fmt.Errorf("%w: endTime %s must be after startTime %s", ErrInvalidSession, s.EndTime, s.StartTime)
	}
	return nil
}

// ValidateSessions validates every session; with requireSchedulable each one
// must also carry venue, date and both times
func ValidateSessions(sessions []Session, requireSchedulable bool) error {
	if len(sessions) > MaxSessionsPerRecord {
		return fmt.Errorf("%w: at most %d sessions per record", ErrInvalidSession, MaxSessionsPerRecord)
	}
	for i := range sessions {
		if err := sessions[i].Validate(); err != nil {
			return fmt.Errorf("sessions[%d]: %w", i, err)
		}
		if requireSchedulable && !sessions[i].IsSchedulable() {
			return fmt.Errorf("sessions[%d]: %w: venue, sessionDate, startTime and endTime are required", i, ErrInvalidSession)
		}
	}
	return nil
}
