package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/pkg/types"
)

// ErrInvalidSession возвращается, когда дата или время сессии не разбираются
var ErrInvalidSession = errors.New("invalid session")

// SessionInput сессия в запросе клиента.
// sessionDate принимает YYYY-MM-DD или RFC3339, во втором случае дата
// берется в часовом поясе курорта.
type SessionInput struct {
	Venue               string `json:"venue"`
	SessionDate         string `json:"sessionDate"`
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	SessionName         string `json:"sessionName"`
	PaxCount            int    `json:"paxCount"`
	SpecialInstructions string `json:"specialInstructions"`
}

// ToDomainSessions конвертирует сессии по порядку, loc часовой пояс курорта
func ToDomainSessions(inputs []SessionInput, loc *time.Location) ([]domain.Session, error) {
	sessions := make([]domain.Session, len(inputs))
	for i, in := range inputs {
		date, err := types.ParseDate(in.SessionDate, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: sessions[%d].sessionDate: %v", ErrInvalidSession, i, err)
		}

		start := types.TimeString(in.StartTime)
		if !start.IsZero() {
			if err := start.Validate(); err != nil {
				return nil, fmt.Errorf("%w: sessions[%d].startTime: %v", ErrInvalidSession, i, err)
			}
		}
		end := types.TimeString(in.EndTime)
		if !end.IsZero() {
			if err := end.Validate(); err != nil {
				return nil, fmt.Errorf("%w: sessions[%d].endTime: %v", ErrInvalidSession, i, err)
			}
		}

		sessions[i] = domain.Session{
			Venue:               in.Venue,
			SessionDate:         date,
			StartTime:           start,
			EndTime:             end,
			SessionName:         in.SessionName,
			PaxCount:            in.PaxCount,
			SpecialInstructions: in.SpecialInstructions,
		}
	}
	return sessions, nil
}

// SessionResponse сессия в ответе клиенту
type SessionResponse struct {
	Venue               string  `json:"venue"`
	SessionDate         *string `json:"sessionDate"`
	StartTime           *string `json:"startTime"`
	EndTime             *string `json:"endTime"`
	SessionName         string  `json:"sessionName"`
	PaxCount            int     `json:"paxCount"`
	SpecialInstructions string  `json:"specialInstructions"`
}

// FromDomainSessions конвертирует сессии для ответа, никогда не возвращает nil
func FromDomainSessions(sessions []domain.Session) []SessionResponse {
	resp := make([]SessionResponse, len(sessions))
	for i, s := range sessions {
		resp[i] = SessionResponse{
			Venue:               s.Venue,
			SessionName:         s.SessionName,
			PaxCount:            s.PaxCount,
			SpecialInstructions: s.SpecialInstructions,
		}
		if !s.SessionDate.IsZero() {
			date := s.SessionDate.String()
			resp[i].SessionDate = &date
		}
		if !s.StartTime.IsZero() {
			start := s.StartTime.String()
			resp[i].StartTime = &start
		}
		if !s.EndTime.IsZero() {
			end := s.EndTime.String()
			resp[i].EndTime = &end
		}
	}
	return resp
}

// ConflictResponse описание одного пересечения
type ConflictResponse struct {
	Kind           string `json:"kind"`
	CandidateIndex int    `json:"candidateIndex"`
	Venue          string `json:"venue"`
	Date           string `json:"date"`
	RequestedStart string `json:"requestedStart"`
	RequestedEnd   string `json:"requestedEnd"`
	ExistingStart  string `json:"existingStart"`
	ExistingEnd    string `json:"existingEnd"`

	RecordKind    string `json:"recordKind,omitempty"`
	RecordID      int64  `json:"recordId,omitempty"`
	RecordNumber  string `json:"recordNumber,omitempty"`
	ClientName    string `json:"clientName,omitempty"`
	SessionName   string `json:"sessionName,omitempty"`
	ExistingIndex *int   `json:"existingIndex,omitempty"`
}

// FromDomainConflicts конвертирует пересечения, никогда не возвращает nil
func FromDomainConflicts(details []domain.ConflictDetail) []ConflictResponse {
	resp := make([]ConflictResponse, len(details))
	for i, d := range details {
		resp[i] = ConflictResponse{
			Kind:           string(d.Kind),
			CandidateIndex: d.CandidateIndex,
			Venue:          d.Venue,
			Date:           d.Date.String(),
			RequestedStart: d.RequestedStart.String(),
			RequestedEnd:   d.RequestedEnd.String(),
			ExistingStart:  d.ExistingStart.String(),
			ExistingEnd:    d.ExistingEnd.String(),
			RecordKind:     string(d.RecordKind),
			RecordID:       d.RecordID,
			RecordNumber:   d.RecordNumber,
			ClientName:     d.ClientName,
			SessionName:    d.SessionName,
		}
		if d.Kind == domain.ConflictKindBatch {
			idx := d.ExistingIndex
			resp[i].ExistingIndex = &idx
		}
	}
	return resp
}

// CheckResponse вердикт проверки доступности
type CheckResponse struct {
	HasConflict bool               `json:"hasConflict"`
	Conflicts   []ConflictResponse `json:"conflicts"`
}

// FromDomainResult конвертирует результат проверки
func FromDomainResult(result *domain.ConflictResult) *CheckResponse {
	if result == nil {
		return &CheckResponse{Conflicts: []ConflictResponse{}}
	}
	return &CheckResponse{
		HasConflict: result.HasConflict,
		Conflicts:   FromDomainConflicts(result.Conflicts),
	}
}
