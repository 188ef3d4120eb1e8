package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrorKind is the closed set of semantic database error categories the
// services branch on. Anything not recognized stays KindOther and
// propagates unchanged.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindUniqueViolation
	KindForeignKeyViolation
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Classify maps a driver error to its semantic kind. It recognizes GORM's
// translated sentinels and raw Postgres error codes.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindOther
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return KindUniqueViolation
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return KindForeignKeyViolation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return KindUniqueViolation
		case pgForeignKeyViolation:
			return KindForeignKeyViolation
		}
	}

	return KindOther
}

// IsUniqueViolation reports whether the error is a uniqueness-constraint violation.
func IsUniqueViolation(err error) bool {
	return Classify(err) == KindUniqueViolation
}
