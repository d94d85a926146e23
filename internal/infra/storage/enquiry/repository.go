package enquiry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/internal/infra/storage/sessions"
	"github.com/m04kA/SMC-BanquetService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BanquetService/pkg/psqlbuilder"
)

var enquiryColumns = []string{
	"id",
	"enquiry_number",
	"client_name",
	"client_phone",
	"client_email",
	"event_type",
	"status",
	"quoted_amount",
	"notes",
	"created_by",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с заявками
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую заявку вместе с сессиями
// Если номер заявки уже занят, возвращает ErrDuplicateNumber без прерывания транзакции
func (r *Repository) Create(ctx context.Context, enquiry *domain.Enquiry) (*domain.Enquiry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("enquiries").
		Columns(
			"enquiry_number",
			"client_name",
			"client_phone",
			"client_email",
			"event_type",
			"status",
			"quoted_amount",
			"notes",
			"created_by",
		).
		Values(
			enquiry.EnquiryNumber,
			enquiry.ClientName,
			enquiry.ClientPhone,
			enquiry.ClientEmail,
			enquiry.EventType,
			enquiry.Status,
			enquiry.QuotedAmount,
			enquiry.Notes,
			enquiry.CreatedBy,
		).
		Suffix("ON CONFLICT (enquiry_number) DO NOTHING RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&enquiry.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNumber, enquiry.EnquiryNumber)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	enquiry.CreatedAt = createdAt.Time
	enquiry.UpdatedAt = updatedAt.Time

	if err := sessions.EnquirySessions.Insert(ctx, r.db, enquiry.ID, enquiry.Sessions); err != nil {
		return nil, fmt.Errorf("%w: Create - insert sessions: %v", ErrExecQuery, err)
	}

	return enquiry, nil
}

// GetByID получает заявку с сессиями по ID
// Внутри транзакции строка блокируется FOR UPDATE
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Enquiry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(enquiryColumns...).
		From("enquiries").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	enquiry, err := scanEnquiry(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEnquiryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan enquiry: %v", ErrScanRow, err)
	}

	if err := r.attachSessions(ctx, []*domain.Enquiry{enquiry}); err != nil {
		return nil, err
	}
	return enquiry, nil
}

// List получает заявки по фильтру, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.EnquiryFilter) ([]*domain.Enquiry, error) {
	selectBuilder := psqlbuilder.Select(enquiryColumns...).
		From("enquiries").
		OrderBy("created_at DESC", "id DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(filter.Offset)
	}

	return r.query(ctx, "List", selectBuilder)
}

// FindCommitted получает заявки в статусе converted
// Опционально исключает filter.ExcludeID и оставляет только записи с сессией на одну из filter.Dates
func (r *Repository) FindCommitted(ctx context.Context, filter domain.CommittedFilter) ([]*domain.Enquiry, error) {
	selectBuilder := psqlbuilder.Select(enquiryColumns...).
		From("enquiries").
		Where(squirrel.Eq{"status": domain.EnquiryStatusConverted}).
		OrderBy("id ASC")

	if filter.ExcludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeID})
	}
	if len(filter.Dates) > 0 {
		keys := make([]string, len(filter.Dates))
		for i, d := range filter.Dates {
			keys[i] = d.Key()
		}
		selectBuilder = selectBuilder.Where(sessions.EnquirySessions.OwnersOnDates("id", keys))
	}

	return r.query(ctx, "FindCommitted", selectBuilder)
}

// Update обновляет редактируемые поля и заменяет сессии целиком
func (r *Repository) Update(ctx context.Context, enquiry *domain.Enquiry) (*domain.Enquiry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("enquiries").
		Set("client_name", enquiry.ClientName).
		Set("client_phone", enquiry.ClientPhone).
		Set("client_email", enquiry.ClientEmail).
		Set("event_type", enquiry.EventType).
		Set("quoted_amount", enquiry.QuotedAmount).
		Set("notes", enquiry.Notes).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": enquiry.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	if err := r.execOne(ctx, executor, "Update", query, args); err != nil {
		return nil, err
	}

	if err := sessions.EnquirySessions.Replace(ctx, r.db, enquiry.ID, enquiry.Sessions); err != nil {
		return nil, fmt.Errorf("%w: Update - replace sessions: %v", ErrExecQuery, err)
	}

	return r.GetByID(ctx, enquiry.ID)
}

// UpdateStatus переводит заявку из статуса from в статус to
// Запись применяется, только если сохраненный статус все еще равен from
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.EnquiryStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("enquiries").
		Set("status", to).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	err = r.execOne(ctx, executor, "UpdateStatus", query, args)
	if errors.Is(err, ErrEnquiryNotFound) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrStatusChanged
	}
	return err
}

func (r *Repository) execOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %v", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrEnquiryNotFound
	}
	return nil
}

func (r *Repository) query(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Enquiry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	enquiries := make([]*domain.Enquiry, 0)
	for rows.Next() {
		enquiry, err := scanEnquiry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan enquiry: %v", ErrScanRow, op, err)
		}
		enquiries = append(enquiries, enquiry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, op, err)
	}
	rows.Close()

	if err := r.attachSessions(ctx, enquiries); err != nil {
		return nil, err
	}
	return enquiries, nil
}

func (r *Repository) attachSessions(ctx context.Context, enquiries []*domain.Enquiry) error {
	ids := make([]int64, len(enquiries))
	for i, e := range enquiries {
		ids[i] = e.ID
	}

	byOwner, err := sessions.EnquirySessions.Load(ctx, r.db, ids)
	if err != nil {
		return fmt.Errorf("%w: load sessions: %v", ErrExecQuery, err)
	}
	for _, e := range enquiries {
		e.Sessions = byOwner[e.ID]
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEnquiry(row rowScanner) (*domain.Enquiry, error) {
	var enquiry domain.Enquiry
	var notes sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&enquiry.ID,
		&enquiry.EnquiryNumber,
		&enquiry.ClientName,
		&enquiry.ClientPhone,
		&enquiry.ClientEmail,
		&enquiry.EventType,
		&enquiry.Status,
		&enquiry.QuotedAmount,
		&notes,
		&enquiry.CreatedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if notes.Valid {
		enquiry.Notes = &notes.String
	}
	enquiry.CreatedAt = createdAt.Time
	enquiry.UpdatedAt = updatedAt.Time

	return &enquiry, nil
}
