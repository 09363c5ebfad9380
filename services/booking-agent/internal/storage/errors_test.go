package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsNotFound(t *testing.T) {
	for _, err := range []error{ErrNotFound, pgx.ErrNoRows, sql.ErrNoRows, fmt.Errorf("wrap: %w", ErrNotFound)} {
		if !IsNotFound(err) {
			t.Fatalf("expected %v to be not found", err)
		}
	}
	if IsNotFound(errors.New("boom")) {
		t.Fatal("plain error is not a not-found")
	}
}

func TestIsConstraintViolation(t *testing.T) {
	if !IsConstraintViolation(&pgconn.PgError{Code: "23514"}) {
		t.Fatal("check_violation should match")
	}
	if IsConstraintViolation(&pgconn.PgError{Code: "42P01"}) {
		t.Fatal("undefined_table should not match")
	}
	if IsConstraintViolation(errors.New("boom")) {
		t.Fatal("plain error should not match")
	}
}
