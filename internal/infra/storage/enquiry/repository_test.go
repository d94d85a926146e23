package enquiry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/pkg/types"
)

var errNoDatabase = errors.New("no database")

// recordingExecutor captures the statements and fails every query
type recordingExecutor struct {
	queries []string
	args    [][]interface{}
}

func (e *recordingExecutor) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	e.queries = append(e.queries, query)
	e.args = append(e.args, args)
	return nil, errNoDatabase
}

func (e *recordingExecutor) QueryContext(_ context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	e.queries = append(e.queries, query)
	e.args = append(e.args, args)
	return nil, errNoDatabase
}

func (e *recordingExecutor) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func TestFindCommitted_Query(t *testing.T) {
	exclude := int64(42)
	tests := []struct {
		name      string
		filter    domain.CommittedFilter
		wantWhere string
		wantArgs  []interface{}
	}{
		{
			name:      "all committed",
			filter:    domain.CommittedFilter{},
			wantWhere: "",
			wantArgs:  []interface{}{domain.EnquiryStatusConverted},
		},
		{
			name:      "exclude record",
			filter:    domain.CommittedFilter{ExcludeID: &exclude},
			wantWhere: " AND id <> $2",
			wantArgs:  []interface{}{domain.EnquiryStatusConverted, int64(42)},
		},
		{
			name: "exclude record on dates",
			filter: domain.CommittedFilter{
				ExcludeID: &exclude,
				Dates:     []types.Date{types.MustParseDate("2025-10-10"), types.MustParseDate("2025-10-11")},
			},
			wantWhere: " AND id <> $2 AND id IN (SELECT enquiry_id FROM enquiry_sessions WHERE session_date = ANY($3::date[]))",
			wantArgs:  []interface{}{domain.EnquiryStatusConverted, int64(42), pq.Array([]string{"2025-10-10", "2025-10-11"})},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &recordingExecutor{}
			repo := NewRepository(exec)

			_, err := repo.FindCommitted(context.Background(), tt.filter)
			assert.ErrorIs(t, err, ErrExecQuery)

			require.Len(t, exec.queries, 1)
			assert.Equal(t, committedQuery(tt.wantWhere), exec.queries[0])
			assert.Equal(t, tt.wantArgs, exec.args[0])
		})
	}
}

func committedQuery(where string) string {
	return "SELECT " + strings.Join(enquiryColumns, ", ") + " FROM enquiries WHERE status = $1" + where + " ORDER BY id ASC"
}
