package helper

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsDuplicateEmail reports whether err is the unique violation on the
// candidates email index.
func IsDuplicateEmail(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName == "uidx_candidates_email"
	}
	return false
}
