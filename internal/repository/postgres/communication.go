package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/vidinfra/commtrack/internal/domain/communication"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/postgres"
)

type communicationRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCommunicationRepository(db *postgres.DB, logger *logger.Logger) communication.Repository {
	return &communicationRepository{db: db, logger: logger}
}

func (r *communicationRepository) Create(ctx context.Context, c *communication.Communication) error {
	query := `
		INSERT INTO communications (
			id, title, type_code, current_status, source_file_url, is_active,
			created_at, last_updated_at, created_by, updated_by
		) VALUES (
			:id, :title, :type_code, :current_status, :source_file_url, :is_active,
			:created_at, :last_updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating communication",
		"communication_id", c.ID,
		"type_code", c.TypeCode,
		"status_code", c.CurrentStatus,
	)

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, c); err != nil {
		return postgres.TranslateError(err, "failed to create communication")
	}
	return nil
}

func (r *communicationRepository) Get(ctx context.Context, id string) (*communication.Communication, error) {
	return r.get(ctx, `SELECT * FROM communications WHERE id = $1`, id)
}

func (r *communicationRepository) GetForUpdate(ctx context.Context, id string) (*communication.Communication, error) {
	return r.get(ctx, `SELECT * FROM communications WHERE id = $1 FOR UPDATE`, id)
}

func (r *communicationRepository) get(ctx context.Context, query, id string) (*communication.Communication, error) {
	var c communication.Communication
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Communication %s not found", id).
				WithReportableDetails(map[string]any{"communication_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, postgres.TranslateError(err, "failed to get communication")
	}
	return &c, nil
}

func (r *communicationRepository) Update(ctx context.Context, c *communication.Communication) error {
	query := `
		UPDATE communications SET
			current_status = :current_status,
			last_updated_at = :last_updated_at,
			is_active = :is_active,
			updated_by = :updated_by
		WHERE id = :id`

	r.logger.Debugw("updating communication",
		"communication_id", c.ID,
		"status_code", c.CurrentStatus,
		"is_active", c.IsActive,
	)

	res, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, c)
	if err != nil {
		return postgres.TranslateError(err, "failed to update communication")
	}
	return requireRow(res, "Communication %s not found", c.ID)
}

const communicationFilterClause = `
		WHERE is_active
		  AND ($1 = '' OR type_code = $1)
		  AND ($2 = '' OR current_status = $2)`

func (r *communicationRepository) List(ctx context.Context, filter *communication.ListFilter) ([]*communication.Communication, error) {
	if filter == nil {
		filter = &communication.ListFilter{}
	}

	query := `SELECT * FROM communications` + communicationFilterClause + `
		ORDER BY last_updated_at DESC, id ASC`
	args := []interface{}{filter.TypeCode, filter.StatusCode}
	if filter.PageFilter != nil {
		query += ` LIMIT $3 OFFSET $4`
		args = append(args, filter.GetLimit(), filter.GetOffset())
	}

	var items []*communication.Communication
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &items, query, args...); err != nil {
		return nil, postgres.TranslateError(err, "failed to list communications")
	}
	return items, nil
}

func (r *communicationRepository) Count(ctx context.Context, filter *communication.ListFilter) (int, error) {
	if filter == nil {
		filter = &communication.ListFilter{}
	}

	query := `SELECT COUNT(*) FROM communications` + communicationFilterClause

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, filter.TypeCode, filter.StatusCode); err != nil {
		return 0, postgres.TranslateError(err, "failed to count communications")
	}
	return count, nil
}
