package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation.
// When constraint is non-empty the violated constraint name must contain it.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && constraintMatches(pgErr.ConstraintName, constraint)
	}
	// TranslateError hides the driver error and the constraint name
	return constraint == "" && errors.Is(err, gorm.ErrDuplicatedKey)
}

func constraintMatches(name, want string) bool {
	return want == "" || strings.Contains(strings.ToLower(name), strings.ToLower(want))
}
