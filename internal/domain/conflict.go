package domain

import "github.com/m04kA/SMC-BanquetService/pkg/types"

// RecordKind names the entity that owns a set of sessions
type RecordKind string

const (
	RecordKindBooking RecordKind = "booking"
	RecordKindEnquiry RecordKind = "enquiry"
)

// ConflictKind separates clashes with stored records from clashes inside the submitted batch
type ConflictKind string

const (
	ConflictKindCommitted ConflictKind = "committed"
	ConflictKindBatch     ConflictKind = "batch"
)

// ConflictDetail explains one overlap between a candidate session and an occupied slot
type ConflictDetail struct {
	Kind           ConflictKind
	CandidateIndex int
	Venue          string
	Date           types.Date
	RequestedStart types.TimeString
	RequestedEnd   types.TimeString
	ExistingStart  types.TimeString
	ExistingEnd    types.TimeString

	// Owner of the existing slot. For batch conflicts RecordKind is empty and
	// ExistingIndex points at the other candidate.
	RecordKind    RecordKind
	RecordID      int64
	RecordNumber  string
	ClientName    string
	SessionName   string
	ExistingIndex int
}

// ConflictResult is the verdict of a conflict check
type ConflictResult struct {
	HasConflict bool
	Conflicts   []ConflictDetail
}

// CommittedFilter narrows the committed-record read
type CommittedFilter struct {
	// ExcludeID drops the record being updated from the committed set
	ExcludeID *int64
	// Dates limits sessions to these calendar dates; empty means all dates
	Dates []types.Date
}
