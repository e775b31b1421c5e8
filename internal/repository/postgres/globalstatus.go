package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/vidinfra/commtrack/internal/domain/globalstatus"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/postgres"
	"github.com/vidinfra/commtrack/internal/types"
)

type globalStatusRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewGlobalStatusRepository(db *postgres.DB, logger *logger.Logger) globalstatus.Repository {
	return &globalStatusRepository{db: db, logger: logger}
}

func (r *globalStatusRepository) Create(ctx context.Context, status *globalstatus.GlobalStatus) error {
	query := `
		INSERT INTO global_statuses (
			status_code, display_name, phase, sort_order, is_active, created_at
		) VALUES (
			:status_code, :display_name, :phase, :sort_order, :is_active, :created_at
		)`

	r.logger.Debugw("creating global status", "status_code", status.Code)

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, status); err != nil {
		return postgres.TranslateError(err, "failed to create global status")
	}
	return nil
}

func (r *globalStatusRepository) Get(ctx context.Context, code string) (*globalstatus.GlobalStatus, error) {
	var status globalstatus.GlobalStatus
	query := `SELECT * FROM global_statuses WHERE status_code = $1`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &status, query, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Status %s not found", code).
				WithReportableDetails(map[string]any{"status_code": code}).
				Mark(ierr.ErrNotFound)
		}
		return nil, postgres.TranslateError(err, "failed to get global status")
	}
	return &status, nil
}

func (r *globalStatusRepository) List(ctx context.Context, filter *globalstatus.ListFilter) ([]*globalstatus.GlobalStatus, error) {
	if filter == nil {
		filter = &globalstatus.ListFilter{}
	}

	query := `
		SELECT * FROM global_statuses
		WHERE ($1 OR is_active)
		  AND (cardinality($2::text[]) = 0 OR status_code = ANY($2::text[]))
		ORDER BY array_position($3::text[], phase::text), sort_order, status_code`

	phases := lo.Map(types.StatusPhases, func(p types.StatusPhase, _ int) string { return string(p) })
	codes := filter.Codes
	if codes == nil {
		codes = []string{}
	}

	var statuses []*globalstatus.GlobalStatus
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &statuses, query,
		filter.IncludeInactive,
		pq.Array(codes),
		pq.Array(phases),
	)
	if err != nil {
		return nil, postgres.TranslateError(err, "failed to list global statuses")
	}
	return statuses, nil
}

func (r *globalStatusRepository) SetActive(ctx context.Context, code string, active bool) error {
	query := `UPDATE global_statuses SET is_active = $2 WHERE status_code = $1`

	r.logger.Debugw("setting global status activity", "status_code", code, "is_active", active)

	res, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, code, active)
	if err != nil {
		return postgres.TranslateError(err, "failed to update global status")
	}
	return requireRow(res, "Status %s not found", code)
}
