package postgres

import (
	"context"

	"github.com/vidinfra/commtrack/internal/domain/typestatus"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/postgres"
)

type typeStatusRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTypeStatusRepository(db *postgres.DB, logger *logger.Logger) typestatus.Repository {
	return &typeStatusRepository{db: db, logger: logger}
}

func (r *typeStatusRepository) ListActiveByType(ctx context.Context, typeCode string) ([]*typestatus.TypeStatus, error) {
	query := `
		SELECT * FROM communication_type_statuses
		WHERE type_code = $1 AND is_active
		ORDER BY sort_order, id`

	var mappings []*typestatus.TypeStatus
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &mappings, query, typeCode); err != nil {
		return nil, postgres.TranslateError(err, "failed to list type statuses")
	}
	return mappings, nil
}

func (r *typeStatusRepository) DeactivateByType(ctx context.Context, typeCode string) (int64, error) {
	query := `UPDATE communication_type_statuses SET is_active = FALSE WHERE type_code = $1 AND is_active`

	res, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, typeCode)
	if err != nil {
		return 0, postgres.TranslateError(err, "failed to deactivate type statuses")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, postgres.TranslateError(err, "failed to read affected rows")
	}

	r.logger.Debugw("deactivated type statuses", "type_code", typeCode, "count", n)
	return n, nil
}

func (r *typeStatusRepository) CreateBulk(ctx context.Context, mappings []*typestatus.TypeStatus) error {
	query := `
		INSERT INTO communication_type_statuses (
			type_code, status_code, description, sort_order, is_active, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id`

	q := r.db.GetQuerier(ctx)
	for _, m := range mappings {
		err := q.QueryRowxContext(ctx, query,
			m.TypeCode, m.StatusCode, m.Description, m.SortOrder, m.IsActive, m.CreatedAt,
		).Scan(&m.ID)
		if err != nil {
			return postgres.TranslateError(err, "failed to create type status")
		}
	}
	return nil
}

func (r *typeStatusRepository) CountActiveByStatus(ctx context.Context, statusCode string) (int, error) {
	query := `SELECT COUNT(*) FROM communication_type_statuses WHERE status_code = $1 AND is_active`

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, statusCode); err != nil {
		return 0, postgres.TranslateError(err, "failed to count type statuses")
	}
	return count, nil
}
