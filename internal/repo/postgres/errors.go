package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	standupsUserDateUniq = "standups_user_date_uniq"
)

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return false
}

func isUniqueViolationOn(err error, constraint string) bool {
	var pgErr *pgconn.PgError

	return IsUniqueViolation(err) && errors.As(err, &pgErr) && pgErr.ConstraintName == constraint
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
