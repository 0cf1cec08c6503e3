package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	constraint, ok := UniqueViolation(pgErr)
	assert.True(t, ok)
	assert.Equal(t, "users_email_key", constraint)

	// wrapped errors still match
	constraint, ok = UniqueViolation(fmt.Errorf("insert failed: %w", pgErr))
	assert.True(t, ok)
	assert.Equal(t, "users_email_key", constraint)
}

func TestUniqueViolation_OtherErrors(t *testing.T) {
	_, ok := UniqueViolation(errors.New("connection refused"))
	assert.False(t, ok)

	// other postgres error classes don't match
	_, ok = UniqueViolation(&pgconn.PgError{Code: "23503"})
	assert.False(t, ok)

	_, ok = UniqueViolation(nil)
	assert.False(t, ok)
}

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"valid lowercase", "11111111-2222-3333-4444-555555555555", true},
		{"valid uppercase", "11111111-2222-3333-4444-55555555555A", true},
		{"empty", "", false},
		{"missing dashes", "11111111222233334444555555555555", false},
		{"too short", "11111111-2222-3333-4444", false},
		{"not hex", "zzzzzzzz-2222-3333-4444-555555555555", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidUUID(tt.id); got != tt.want {
				t.Errorf("IsValidUUID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
