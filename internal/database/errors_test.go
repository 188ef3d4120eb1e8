package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestClassifyGormSentinels(t *testing.T) {
	require.Equal(t, KindUniqueViolation, Classify(gorm.ErrDuplicatedKey))
	require.Equal(t, KindForeignKeyViolation, Classify(gorm.ErrForeignKeyViolated))
}

func TestClassifyPostgresCodes(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	require.Equal(t, KindUniqueViolation, Classify(unique))
	require.True(t, IsUniqueViolation(fmt.Errorf("create application: %w", unique)))

	foreign := &pgconn.PgError{Code: "23503"}
	require.Equal(t, KindForeignKeyViolation, Classify(foreign))
}

func TestClassifyUnknownErrors(t *testing.T) {
	require.Equal(t, KindOther, Classify(nil))
	require.Equal(t, KindOther, Classify(errors.New("connection reset")))
	require.Equal(t, KindOther, Classify(&pgconn.PgError{Code: "40001"}))
}
