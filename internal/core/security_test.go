// AngelaMos | 2026
// security_test.go

package core

import (
	"errors"
	"strings"
	"testing"
)

var cheapParams = PasswordParams{Memory: 8 * 1024, Time: 1, Threads: 1, KeyLen: 16, SaltLen: 8}

func TestHashPasswordRoundTrip(t *testing.T) {
	encoded, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$m=65536,t=1,p=4$") {
		t.Fatalf("encoded = %q", encoded)
	}

	ok, upgraded, err := CheckPassword("secret123", encoded)
	if err != nil || !ok || upgraded != "" {
		t.Fatalf("CheckPassword(match) = %v, %q, %v", ok, upgraded, err)
	}

	ok, _, err = CheckPassword("secret124", encoded)
	if err != nil || ok {
		t.Fatalf("CheckPassword(mismatch) = %v, %v", ok, err)
	}

	again, _ := HashPassword("secret123")
	if again == encoded {
		t.Fatal("two hashes of one password share a salt")
	}
}

func TestCheckPasswordUpgradesOldCost(t *testing.T) {
	old, err := cheapParams.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	ok, upgraded, err := CheckPassword("secret123", old)
	if err != nil || !ok {
		t.Fatalf("CheckPassword() = %v, %v", ok, err)
	}
	if upgraded == "" || upgraded == old {
		t.Fatalf("upgraded = %q, want a fresh default-cost hash", upgraded)
	}
	if ok, again, _ := CheckPassword("secret123", upgraded); !ok || again != "" {
		t.Fatalf("upgraded hash check = %v, %q", ok, again)
	}

	if _, upgraded, _ := CheckPassword("wrong", old); upgraded != "" {
		t.Fatal("mismatch produced an upgrade")
	}
}

func TestCheckPasswordRejectsMalformed(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plain",
		"$bcrypt$v=19$m=1,t=1,p=1$YQ$YQ",
		"$argon2id$v=18$m=1,t=1,p=1$YQ$YQ",
		"$argon2id$v=19$m=x$YQ$YQ",
		"$argon2id$v=19$m=1,t=1,p=1$!!$YQ",
	} {
		if _, _, err := CheckPassword("secret", encoded); !errors.Is(err, ErrInvalidHash) {
			t.Fatalf("CheckPassword(%q) error = %v, want ErrInvalidHash", encoded, err)
		}
	}
}

func TestCheckPasswordTimingSafe(t *testing.T) {
	if ok, _, err := CheckPasswordTimingSafe("anything", ""); ok || err != nil {
		t.Fatalf("no account = %v, %v; want false, nil", ok, err)
	}

	encoded, _ := cheapParams.Hash("secret123")
	if ok, _, err := CheckPasswordTimingSafe("secret123", encoded); !ok || err != nil {
		t.Fatalf("stored account = %v, %v", ok, err)
	}
}

func TestConstantTimeEqual(t *testing.T) {
	if !ConstantTimeEqual("admin123", "admin123") {
		t.Fatal("equal secrets compared unequal")
	}
	if ConstantTimeEqual("admin123", "admin1234") || ConstantTimeEqual("", "x") {
		t.Fatal("different secrets compared equal")
	}
}
