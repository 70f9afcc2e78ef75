package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_ProducesVerifiableHash(t *testing.T) {
	hash, err := HashPassword("dorm-secret-1")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	if hash == "" || hash == "dorm-secret-1" {
		t.Fatalf("HashPassword() returned %q", hash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("dorm-secret-1")); err != nil {
		t.Errorf("hash does not verify: %v", err)
	}
}

func TestHashPassword_SaltsEachHash(t *testing.T) {
	h1, _ := HashPassword("same-password")
	h2, _ := HashPassword("same-password")
	if h1 == h2 {
		t.Error("identical hashes for the same password, salt missing")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, _ := HashPassword("correct-password")

	if err := VerifyPassword(hash, "correct-password"); err != nil {
		t.Errorf("VerifyPassword() rejected the right password: %v", err)
	}
	if err := VerifyPassword(hash, "wrong-password"); err == nil {
		t.Error("VerifyPassword() accepted a wrong password")
	}
	if err := VerifyPassword(hash, ""); err == nil {
		t.Error("VerifyPassword() accepted an empty password")
	}
}
