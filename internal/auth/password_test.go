package auth

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("expected argon2id encoded hash, got %q", hash)
	}

	// Salted: hashing the same input twice must not repeat.
	again, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == again {
		t.Error("two hashes of the same password are identical; salt is not applied")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	tests := []struct {
		name    string
		plain   string
		encoded string
		want    bool
	}{
		{name: "match", plain: "correct horse battery staple", encoded: hash, want: true},
		{name: "wrong password", plain: "incorrect", encoded: hash, want: false},
		{name: "empty password", plain: "", encoded: hash, want: false},
		{name: "malformed hash", plain: "whatever", encoded: "not-a-hash", want: false},
		{name: "empty hash", plain: "whatever", encoded: "", want: false},
		{name: "truncated hash", plain: "whatever", encoded: "$argon2id$v=19$m=65536", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyPassword(tt.plain, tt.encoded); got != tt.want {
				t.Errorf("VerifyPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifyPassword_LongInput(t *testing.T) {
	// bcrypt truncates at 72 bytes; argon2id must not. Two passwords sharing
	// a 72-byte prefix have to verify independently.
	prefix := strings.Repeat("a", 72)
	hash, err := HashPassword(prefix + "tail-one")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(prefix+"tail-one", hash) {
		t.Error("long password failed to verify against its own hash")
	}
	if VerifyPassword(prefix+"tail-two", hash) {
		t.Error("password differing only past byte 72 verified; hash truncates input")
	}
}
