package sqlstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jacentio/pawtrail/model"
)

// isRejected reports whether err is the engine refusing the data rather than
// failing to execute.
func isRejected(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 23 is integrity constraint violation; 22001 is string too long.
		return strings.HasPrefix(pgErr.Code, "23") || pgErr.Code == "22001"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}

	return false
}

// mapError wraps a driver error in the matching model error kind.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isRejected(err) {
		return fmt.Errorf("%w: %s: %w", model.ErrWriteRejected, op, err)
	}
	return fmt.Errorf("%w: %s: %w", model.ErrStoreUnavailable, op, err)
}
