package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(pgx.ErrNoRows))
	assert.True(t, isNotFound(fmt.Errorf("get operation: %w", pgx.ErrNoRows)))
	assert.True(t, isNotFound(&pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}),
		"un id que no es UUID equivale a inexistente")

	assert.False(t, isNotFound(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isNotFound(errors.New("conexión cerrada")))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
}
