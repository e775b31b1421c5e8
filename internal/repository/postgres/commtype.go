package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/vidinfra/commtrack/internal/domain/commtype"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/postgres"
)

type commTypeRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCommunicationTypeRepository(db *postgres.DB, logger *logger.Logger) commtype.Repository {
	return &commTypeRepository{db: db, logger: logger}
}

func (r *commTypeRepository) Create(ctx context.Context, t *commtype.CommunicationType) error {
	query := `
		INSERT INTO communication_types (
			type_code, display_name, description, is_active, created_at, updated_at, created_by, updated_by
		) VALUES (
			:type_code, :display_name, :description, :is_active, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating communication type", "type_code", t.TypeCode)

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, t); err != nil {
		return postgres.TranslateError(err, "failed to create communication type")
	}
	return nil
}

func (r *commTypeRepository) Get(ctx context.Context, typeCode string) (*commtype.CommunicationType, error) {
	return r.get(ctx, `SELECT * FROM communication_types WHERE type_code = $1`, typeCode)
}

func (r *commTypeRepository) GetForUpdate(ctx context.Context, typeCode string) (*commtype.CommunicationType, error) {
	return r.get(ctx, `SELECT * FROM communication_types WHERE type_code = $1 FOR UPDATE`, typeCode)
}

func (r *commTypeRepository) GetForShare(ctx context.Context, typeCode string) (*commtype.CommunicationType, error) {
	return r.get(ctx, `SELECT * FROM communication_types WHERE type_code = $1 FOR SHARE`, typeCode)
}

func (r *commTypeRepository) get(ctx context.Context, query, typeCode string) (*commtype.CommunicationType, error) {
	var t commtype.CommunicationType
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &t, query, typeCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Communication type %s not found", typeCode).
				WithReportableDetails(map[string]any{"type_code": typeCode}).
				Mark(ierr.ErrNotFound)
		}
		return nil, postgres.TranslateError(err, "failed to get communication type")
	}
	return &t, nil
}

func (r *commTypeRepository) List(ctx context.Context, filter *commtype.ListFilter) ([]*commtype.CommunicationType, error) {
	if filter == nil {
		filter = &commtype.ListFilter{}
	}

	query := `
		SELECT * FROM communication_types
		WHERE ($1 OR is_active)
		ORDER BY display_name, type_code`

	var items []*commtype.CommunicationType
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &items, query, filter.IncludeInactive); err != nil {
		return nil, postgres.TranslateError(err, "failed to list communication types")
	}
	return items, nil
}

func (r *commTypeRepository) Update(ctx context.Context, t *commtype.CommunicationType) error {
	query := `
		UPDATE communication_types SET
			display_name = :display_name,
			description = :description,
			is_active = :is_active,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE type_code = :type_code`

	r.logger.Debugw("updating communication type", "type_code", t.TypeCode, "is_active", t.IsActive)

	res, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, t)
	if err != nil {
		return postgres.TranslateError(err, "failed to update communication type")
	}
	return requireRow(res, "Communication type %s not found", t.TypeCode)
}
