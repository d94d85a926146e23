package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BanquetService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с журналом изменений audit_logs
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала изменений
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Record добавляет запись в журнал
// Внутри транзакции запись фиксируется или откатывается вместе с изменением
func (r *Repository) Record(ctx context.Context, entry *domain.AuditEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var metadata interface{}
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncodeMetadata, err)
		}
		metadata = string(raw)
	}

	query, args, err := psqlbuilder.Insert("audit_logs").
		Columns("entity_kind", "entity_id", "action", "actor_id", "metadata").
		Values(entry.EntityKind, entry.EntityID, entry.Action, entry.ActorID, metadata).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Record - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return fmt.Errorf("%w: Record - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// ListByEntity получает журнал изменений записи, старые записи первыми
func (r *Repository) ListByEntity(ctx context.Context, kind domain.RecordKind, id int64) ([]*domain.AuditEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "entity_kind", "entity_id", "action", "actor_id", "metadata", "created_at").
		From("audit_logs").
		Where(squirrel.Eq{"entity_kind": kind, "entity_id": id}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByEntity - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByEntity - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.AuditEntry, 0)
	for rows.Next() {
		var entry domain.AuditEntry
		var metadata sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.EntityKind,
			&entry.EntityID,
			&entry.Action,
			&entry.ActorID,
			&metadata,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListByEntity - scan entry: %v", ErrScanRow, err)
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &entry.Metadata); err != nil {
				return nil, fmt.Errorf("%w: ListByEntity - decode metadata: %v", ErrScanRow, err)
			}
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByEntity - rows iteration: %v", ErrScanRow, err)
	}
	return entries, nil
}
