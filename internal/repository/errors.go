package repository

import (
	"database/sql"
	"errors"
)

// IsNotFound reports whether err comes from a lookup that matched no row.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
