package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/pkg/types"
)

func TestToDomainSessions_NormalisesTimestampToLocalDate(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC on the 9th is 01:30 on the 10th in Kolkata
	sessions, err := ToDomainSessions([]SessionInput{
		{Venue: "Areca I", SessionDate: "2025-10-09T20:00:00Z", StartTime: "18:00", EndTime: "22:00"},
		{Venue: "Lawn", SessionDate: "2025-10-11"},
	}, kolkata)
	require.NoError(t, err)

	assert.Equal(t, types.MustParseDate("2025-10-10"), sessions[0].SessionDate)
	assert.True(t, sessions[0].IsSchedulable())
	assert.Equal(t, types.MustParseDate("2025-10-11"), sessions[1].SessionDate)
	assert.False(t, sessions[1].IsSchedulable())
}

func TestToDomainSessions_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input SessionInput
	}{
		{name: "bad date", input: SessionInput{SessionDate: "10/10/2025"}},
		{name: "bad start", input: SessionInput{StartTime: "6pm"}},
		{name: "bad end", input: SessionInput{EndTime: "25:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToDomainSessions([]SessionInput{tt.input}, time.UTC)
			assert.ErrorIs(t, err, ErrInvalidSession)
		})
	}
}

func TestFromDomainSessions_OmitsMissingParts(t *testing.T) {
	resp := FromDomainSessions([]domain.Session{{Venue: "Lawn", SessionName: "draft"}})
	require.Len(t, resp, 1)
	assert.Nil(t, resp[0].SessionDate)
	assert.Nil(t, resp[0].StartTime)

	assert.NotNil(t, FromDomainSessions(nil))
}

func TestFromDomainConflicts(t *testing.T) {
	resp := FromDomainConflicts([]domain.ConflictDetail{
		{
			Kind:           domain.ConflictKindCommitted,
			Venue:          "Areca I",
			Date:           types.MustParseDate("2025-10-10"),
			RequestedStart: "19:00",
			RequestedEnd:   "23:00",
			ExistingStart:  "18:00",
			ExistingEnd:    "22:00",
			RecordKind:     domain.RecordKindBooking,
			RecordID:       4,
			RecordNumber:   "BKG-00000004",
			ExistingIndex:  -1,
		},
		{Kind: domain.ConflictKindBatch, CandidateIndex: 1, ExistingIndex: 0},
	})

	require.Len(t, resp, 2)
	assert.Equal(t, "2025-10-10", resp[0].Date)
	assert.Equal(t, "booking", resp[0].RecordKind)
	assert.Nil(t, resp[0].ExistingIndex)
	require.NotNil(t, resp[1].ExistingIndex)
	assert.Equal(t, 0, *resp[1].ExistingIndex)
}
