package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// translate maps constraint violations to domain errors and wraps
// everything else as a storage failure.
func translate(err error, onUnique, onForeignKey error) error {
	switch code := pgCode(err); {
	case code == codeUniqueViolation && onUnique != nil:
		return onUnique
	case code == codeForeignKeyViolation && onForeignKey != nil:
		return onForeignKey
	}
	return fmt.Errorf("db error: %w", err)
}
