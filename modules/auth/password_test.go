package auth

import (
	"strings"
	"testing"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher()

	password := "correct-horse-battery"
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if hash == password {
		t.Error("Hash() must not return the plaintext password")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() = %q, want a bcrypt hash", hash)
	}

	if !hasher.Verify(password, hash) {
		t.Error("Verify() = false for the correct password")
	}
	if hasher.Verify("wrong-password", hash) {
		t.Error("Verify() = true for a wrong password")
	}
}

func TestPasswordHasher_HashesAreSalted(t *testing.T) {
	hasher := NewPasswordHasher()

	h1, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	h2, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password should differ")
	}
}

func TestPasswordHasher_VerifyGarbageHash(t *testing.T) {
	hasher := NewPasswordHasher()
	if hasher.Verify("anything", "not-a-bcrypt-hash") {
		t.Error("Verify() = true for a malformed hash")
	}
}
