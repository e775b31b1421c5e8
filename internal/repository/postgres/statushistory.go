package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/vidinfra/commtrack/internal/domain/statushistory"
	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/postgres"
)

type statusHistoryRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewStatusHistoryRepository(db *postgres.DB, logger *logger.Logger) statushistory.Repository {
	return &statusHistoryRepository{db: db, logger: logger}
}

func (r *statusHistoryRepository) Append(ctx context.Context, entry *statushistory.Entry) error {
	query := `
		INSERT INTO communication_status_history (
			communication_id, status_code, occurred_at, event_data, created_at
		) VALUES (
			$1, $2, $3, $4::jsonb, $5
		) RETURNING id`

	r.logger.Debugw("appending status history",
		"communication_id", entry.CommunicationID,
		"status_code", entry.StatusCode,
		"occurred_at", entry.OccurredAt,
	)

	err := r.db.GetQuerier(ctx).QueryRowxContext(ctx, query,
		entry.CommunicationID, entry.StatusCode, entry.OccurredAt, entry.EventData, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return postgres.TranslateError(err, "failed to append status history")
	}
	return nil
}

func (r *statusHistoryRepository) ListFor(ctx context.Context, communicationID string) ([]*statushistory.Entry, error) {
	query := `
		SELECT id, communication_id, status_code, occurred_at, event_data::text AS event_data, created_at
		FROM communication_status_history
		WHERE communication_id = $1
		ORDER BY occurred_at, id`

	var entries []*statushistory.Entry
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &entries, query, communicationID); err != nil {
		return nil, postgres.TranslateError(err, "failed to list status history")
	}
	return entries, nil
}

func (r *statusHistoryRepository) CountFor(ctx context.Context, communicationID string) (int, error) {
	query := `SELECT COUNT(*) FROM communication_status_history WHERE communication_id = $1`

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, communicationID); err != nil {
		return 0, postgres.TranslateError(err, "failed to count status history")
	}
	return count, nil
}

func (r *statusHistoryRepository) Latest(ctx context.Context, communicationID string) (*statushistory.Entry, error) {
	query := `
		SELECT id, communication_id, status_code, occurred_at, event_data::text AS event_data, created_at
		FROM communication_status_history
		WHERE communication_id = $1
		ORDER BY occurred_at DESC, id DESC
		LIMIT 1`

	var entry statushistory.Entry
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &entry, query, communicationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("No status history for communication %s", communicationID).
				Mark(ierr.ErrNotFound)
		}
		return nil, postgres.TranslateError(err, "failed to get latest status history")
	}
	return &entry, nil
}
