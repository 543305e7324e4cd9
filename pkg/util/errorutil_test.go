package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThroughDomainErrors(t *testing.T) {
	wrapped := fmt.Errorf("create employee: %w", NewConflict("email taken", nil))

	de := ToDomainError(wrapped)

	require.NotNil(t, de)
	assert.Equal(t, "CONFLICT", de.Code)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)
}

func TestToDomainError_NoRowsIsNotFound(t *testing.T) {
	de := ToDomainError(fmt.Errorf("get: %w", pgx.ErrNoRows))

	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.True(t, IsNotFound(pgx.ErrNoRows))
}

func TestToDomainError_UniqueViolationIsConflict(t *testing.T) {
	de := ToDomainError(&pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"})

	assert.Equal(t, "CONFLICT", de.Code)
	assert.Equal(t, "products_sku_key", de.Details["constraint"])
}

func TestToDomainError_FiberError(t *testing.T) {
	de := ToDomainError(fiber.NewError(http.StatusBadRequest, "invalid payload"))

	assert.Equal(t, "BAD_REQUEST", de.Code)
	assert.Equal(t, "invalid payload", de.Message)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
}

func TestToDomainError_UnknownIsInternal(t *testing.T) {
	cause := errors.New("boom")

	de := ToDomainError(cause)

	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.ErrorIs(t, de, cause)
	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))
}

func TestToDomainError_PgValidationCodes(t *testing.T) {
	assert.Equal(t, "VALIDATION_FAILED", ToDomainError(&pgconn.PgError{Code: "23503"}).Code)
	assert.Equal(t, "VALIDATION_FAILED", ToDomainError(&pgconn.PgError{Code: "22P02"}).Code)
	assert.Equal(t, "INTERNAL_ERROR", ToDomainError(&pgconn.PgError{Code: "40001"}).Code)
}
