package postgres

import (
	"database/sql"

	ierr "github.com/vidinfra/commtrack/internal/errors"
	"github.com/vidinfra/commtrack/internal/postgres"
)

// requireRow turns a zero-row UPDATE into NotFound
func requireRow(res sql.Result, hintFormat string, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return postgres.TranslateError(err, "failed to read affected rows")
	}
	if n == 0 {
		return ierr.NewErrorf("no row for %s", key).
			WithHintf(hintFormat, key).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
