// AngelaMos | 2026
// database_test.go

package core

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestPgErrorClassification(t *testing.T) {
	wrap := func(code string) error {
		return fmt.Errorf("insert booking: %w", &pgconn.PgError{Code: code})
	}

	if !IsExclusionViolation(wrap("23P01")) {
		t.Fatal("IsExclusionViolation(23P01) = false")
	}
	if !IsUniqueViolation(wrap("23505")) || IsUniqueViolation(wrap("23P01")) {
		t.Fatal("IsUniqueViolation misclassified")
	}
	if !IsCheckViolation(wrap("23514")) {
		t.Fatal("IsCheckViolation(23514) = false")
	}
	if IsExclusionViolation(errors.New("plain")) {
		t.Fatal("IsExclusionViolation(plain) = true")
	}
}

func TestIsMissing(t *testing.T) {
	if !IsMissing(fmt.Errorf("get: %w", sql.ErrNoRows)) {
		t.Fatal("IsMissing(ErrNoRows) = false")
	}
	if !IsMissing(&pgconn.PgError{Code: "22P02"}) {
		t.Fatal("IsMissing(invalid uuid) = false")
	}
	if IsMissing(errors.New("timeout")) {
		t.Fatal("IsMissing(timeout) = true")
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"Nice":       "Nice",
		"100%":       `100\%`,
		"sea_side":   `sea\_side`,
		`back\slash`: `back\\slash`,
	}
	for in, want := range tests {
		if got := EscapeLike(in); got != want {
			t.Fatalf("EscapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStringArray(t *testing.T) {
	v, err := StringArray{}.Value()
	if err != nil || v != "{}" {
		t.Fatalf("empty Value() = %v, %v; want {}", v, err)
	}

	var a StringArray
	if err := a.Scan(nil); err != nil || a == nil || len(a) != 0 {
		t.Fatalf("Scan(nil) = %v, %v; want empty non-nil", a, err)
	}

	if err := a.Scan("{wifi,pool,\"sea view\"}"); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(a) != 3 || !a.Contains("sea view") || a.Contains("spa") {
		t.Fatalf("Scan() = %v", a)
	}
}
