package repositories

import (
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "gearguard/pkg/errors"
)

// psql is the shared statement builder; all queries use $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const uniqueViolationCode = "23505"

// translateUniqueViolation turns a postgres unique-constraint error into a
// field-level ConflictError so callers can report it precisely.
func translateUniqueViolation(err error, fieldsByConstraint map[string]string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return err
	}

	for fragment, field := range fieldsByConstraint {
		if strings.Contains(pgErr.ConstraintName, fragment) {
			return apperrors.NewConflictError(field, "%s already exists", field)
		}
	}
	return apperrors.NewConflictError("", "duplicate record")
}
