package sessions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BanquetService/pkg/psqlbuilder"
)

func TestOwnersOnDates(t *testing.T) {
	query, args, err := psqlbuilder.Select("id").
		From("bookings").
		Where(BookingSessions.OwnersOnDates("id", []string{"2025-10-10", "2025-10-11"})).
		ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id FROM bookings WHERE id IN (SELECT booking_id FROM booking_sessions WHERE session_date = ANY($1::date[]))",
		query,
	)
	require.Len(t, args, 1)
}
