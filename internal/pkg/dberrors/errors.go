package dberrors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"go.mongodb.org/mongo-driver/mongo"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation
// for a specific constraint. An empty constraintName matches any unique violation.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}

// IsSQLiteUniqueError reports a SQLite UNIQUE constraint failure. When column is
// non-empty the failing column must appear in the driver message (e.g. "students.email").
func IsSQLiteUniqueError(err error, column string) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return false
	}
	return column == "" || strings.Contains(sqliteErr.Error(), column)
}

// IsMongoDuplicateKeyError reports a MongoDB E11000 duplicate key error
func IsMongoDuplicateKeyError(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsDuplicate reports a unique violation from any supported store
func IsDuplicate(err error) bool {
	return IsDuplicateConstraintError(err, "") || IsSQLiteUniqueError(err, "") || IsMongoDuplicateKeyError(err)
}
