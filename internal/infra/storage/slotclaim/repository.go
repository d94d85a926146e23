package slotclaim

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BanquetService/pkg/psqlbuilder"
)

// exclusionViolation SQLSTATE 23P01 от EXCLUDE ограничения venue_slot_claims
const exclusionViolation = pq.ErrorCode("23P01")

// Repository репозиторий занятых слотов venue_slot_claims
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория занятых слотов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Claim занимает слоты всех заполненных сессий владельца.
// Незаполненные сессии пропускаются. Пересечение со слотом другого владельца
// возвращает ErrSlotTaken, вызывать внутри транзакции, чтобы упавший запрос
// откатил всю запись.
func (r *Repository) Claim(ctx context.Context, kind domain.RecordKind, ownerID int64, items []domain.Session) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert("venue_slot_claims").
		Columns("owner_kind", "owner_id", "venue", "session_date", "start_minute", "end_minute")

	rows := 0
	for i := range items {
		s := &items[i]
		if !s.IsSchedulable() {
			continue
		}
		start, end, err := s.Interval()
		if err != nil || end <= start {
			return fmt.Errorf("%w: session %d", ErrInvalidSession, i)
		}
		insert = insert.Values(kind, ownerID, s.Venue, s.SessionDate, start, end)
		rows++
	}
	if rows == 0 {
		return nil
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Claim - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if IsSlotTaken(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("%w: Claim - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// Release освобождает все слоты владельца
func (r *Repository) Release(ctx context.Context, kind domain.RecordKind, ownerID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("venue_slot_claims").
		Where(squirrel.Eq{"owner_kind": kind, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Release - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Release - execute delete: %v", ErrExecQuery, err)
	}
	return nil
}

// Replace заменяет слоты владельца слотами sessions
func (r *Repository) Replace(ctx context.Context, kind domain.RecordKind, ownerID int64, items []domain.Session) error {
	if err := r.Release(ctx, kind, ownerID); err != nil {
		return err
	}
	return r.Claim(ctx, kind, ownerID, items)
}

// IsSlotTaken проверяет, является ли err нарушением EXCLUDE ограничения
func IsSlotTaken(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == exclusionViolation
	}
	return false
}
