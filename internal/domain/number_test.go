package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRecordNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^BKG-[0-9A-F]{12}$`)

	a := NewRecordNumber(BookingNumberPrefix)
	b := NewRecordNumber(BookingNumberPrefix)

	assert.Regexp(t, pattern, a)
	assert.Regexp(t, pattern, b)
	assert.NotEqual(t, a, b)
}
