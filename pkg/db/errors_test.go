package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pq.Error{Code: "23505", Constraint: "ux_orders_order_number"}
	wrapped := fmt.Errorf("create order: %w", pgErr)
	sqliteErr := errors.New("UNIQUE constraint failed: orders.order_number")

	assert.True(t, IsUniqueViolation(pgErr, ""))
	assert.True(t, IsUniqueViolation(pgErr, "ux_orders_order_number"))
	assert.True(t, IsUniqueViolation(wrapped, "ux_orders_order_number"))
	assert.False(t, IsUniqueViolation(pgErr, "ux_some_other_constraint"))

	assert.True(t, IsUniqueViolation(sqliteErr, ""))
	assert.True(t, IsUniqueViolation(sqliteErr, "ux_orders_order_number"))

	textual := errors.New(`ERROR: duplicate key value violates unique constraint "ux_orders_order_number" (SQLSTATE 23505)`)
	assert.True(t, IsUniqueViolation(textual, "ux_orders_order_number"))
	assert.False(t, IsUniqueViolation(textual, "ux_some_other_constraint"))

	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(errors.New("connection refused"), ""))
	assert.False(t, IsUniqueViolation(nil, "ux_orders_order_number"))
}
