package dberrors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintName
}

// IsUniqueViolation reports whether err is a unique constraint failure on either
// supported database. For SQLite the column list (e.g. "users.email") is matched
// when columns is non-empty.
func IsUniqueViolation(err error, columns ...string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return false
		}
		if len(columns) == 0 {
			return true
		}
		for _, col := range columns {
			if strings.Contains(pgErr.ConstraintName, strings.ReplaceAll(col, ".", "_")) ||
				strings.Contains(pgErr.Detail, "("+col[strings.LastIndex(col, ".")+1:]) {
				return true
			}
		}
		return false
	}

	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if len(columns) == 0 {
		return true
	}
	for _, col := range columns {
		if strings.Contains(msg, col) {
			return true
		}
	}
	return false
}
