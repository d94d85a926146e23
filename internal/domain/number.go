package domain

import (
	"strings"

	"github.com/google/uuid"
)

// RecordNumberLength is the number of hex digits after the prefix
const RecordNumberLength = 12

// MaxRecordNumberAttempts bounds how many fresh numbers a create tries
// after the storage reports the number as taken
const MaxRecordNumberAttempts = 5

// NewRecordNumber returns a human-facing number such as ENQ-1F3A9C2B07D4
func NewRecordNumber(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(id[:RecordNumberLength])
}
