package sessions

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BanquetService/pkg/psqlbuilder"
)

// Table дочерняя таблица с упорядоченными сессиями записи-владельца
// (booking_sessions по booking_id, enquiry_sessions по enquiry_id)
type Table struct {
	Name     string
	OwnerCol string
}

var (
	BookingSessions = Table{Name: "booking_sessions", OwnerCol: "booking_id"}
	EnquirySessions = Table{Name: "enquiry_sessions", OwnerCol: "enquiry_id"}
)

var columns = []string{
	"position",
	"venue",
	"session_date",
	"start_time",
	"end_time",
	"session_name",
	"pax_count",
	"special_instructions",
}

// Insert записывает сессии ownerID в исходном порядке
func (t Table) Insert(ctx context.Context, db dbmetrics.DBExecutor, ownerID int64, items []domain.Session) error {
	if len(items) == 0 {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, db)

	insert := psqlbuilder.Insert(t.Name).Columns(append([]string{t.OwnerCol}, columns...)...)
	for i, s := range items {
		insert = insert.Values(
			ownerID,
			i,
			s.Venue,
			s.SessionDate,
			s.StartTime,
			s.EndTime,
			s.SessionName,
			s.PaxCount,
			s.SpecialInstructions,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Insert %s: %v", ErrBuildQuery, t.Name, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Insert %s: %v", ErrExecQuery, t.Name, err)
	}
	return nil
}

// Replace удаляет все сессии ownerID и записывает items вместо них
func (t Table) Replace(ctx context.Context, db dbmetrics.DBExecutor, ownerID int64, items []domain.Session) error {
	executor := dbmetrics.GetExecutor(ctx, db)

	query, args, err := psqlbuilder.Delete(t.Name).
		Where(squirrel.Eq{t.OwnerCol: ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace %s: %v", ErrBuildQuery, t.Name, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Replace %s: %v", ErrExecQuery, t.Name, err)
	}

	return t.Insert(ctx, db, ownerID, items)
}

// Load получает сессии всех владельцев из ownerIDs, упорядоченные по position
func (t Table) Load(ctx context.Context, db dbmetrics.DBExecutor, ownerIDs []int64) (map[int64][]domain.Session, error) {
	result := make(map[int64][]domain.Session, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return result, nil
	}
	executor := dbmetrics.GetExecutor(ctx, db)

	query, args, err := psqlbuilder.Select(append([]string{t.OwnerCol}, columns...)...).
		From(t.Name).
		Where(squirrel.Eq{t.OwnerCol: ownerIDs}).
		OrderBy(t.OwnerCol, "position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Load %s: %v", ErrBuildQuery, t.Name, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Load %s: %v", ErrExecQuery, t.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ownerID int64
		var position int
		var s domain.Session
		if err := rows.Scan(
			&ownerID,
			&position,
			&s.Venue,
			&s.SessionDate,
			&s.StartTime,
			&s.EndTime,
			&s.SessionName,
			&s.PaxCount,
			&s.SpecialInstructions,
		); err != nil {
			return nil, fmt.Errorf("%w: Load %s: %v", ErrScanRow, t.Name, err)
		}
		result[ownerID] = append(result[ownerID], s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Load %s - rows iteration: %v", ErrScanRow, t.Name, err)
	}
	return result, nil
}

// OwnersOnDates условие выборки владельцев, у которых есть сессия на одну из dates
func (t Table) OwnersOnDates(idCol string, dates []string) squirrel.Sqlizer {
	sub := fmt.Sprintf("%s IN (SELECT %s FROM %s WHERE session_date = ANY(?::date[]))", idCol, t.OwnerCol, t.Name)
	return squirrel.Expr(sub, pq.Array(dates))
}
