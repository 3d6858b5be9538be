package service

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptVerifier_RoundTrip(t *testing.T) {
	v := BcryptVerifier{Cost: bcrypt.MinCost}

	stored, err := v.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if stored == "pw1" {
		t.Fatal("bcrypt must not store the plaintext password")
	}
	if !strings.HasPrefix(stored, "$2") {
		t.Errorf("stored credential %q does not look like a bcrypt hash", stored)
	}

	if err := v.Compare(stored, "pw1"); err != nil {
		t.Errorf("Compare with the right password: %v", err)
	}
	if err := v.Compare(stored, "pw2"); err == nil {
		t.Error("Compare with the wrong password must fail")
	}
}

func TestPlaintextVerifier(t *testing.T) {
	v := PlaintextVerifier{}

	stored, err := v.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if stored != "pw1" {
		t.Errorf("plaintext Hash = %q; want pw1", stored)
	}

	if err := v.Compare("pw1", "pw1"); err != nil {
		t.Errorf("Compare with the right password: %v", err)
	}
	if err := v.Compare("pw1", "pw2"); err == nil {
		t.Error("Compare with the wrong password must fail")
	}
}

func TestNewVerifier(t *testing.T) {
	if _, err := NewVerifier("bcrypt"); err != nil {
		t.Errorf("bcrypt scheme: %v", err)
	}
	if _, err := NewVerifier(""); err != nil {
		t.Errorf("default scheme: %v", err)
	}
	if _, err := NewVerifier("plaintext"); err != nil {
		t.Errorf("plaintext scheme: %v", err)
	}
	if _, err := NewVerifier("md5"); err == nil {
		t.Error("unknown scheme must be rejected")
	}
}

func TestNewSecret(t *testing.T) {
	a, err := NewSecret()
	if err != nil {
		t.Fatalf("NewSecret returned error: %v", err)
	}
	b, err := NewSecret()
	if err != nil {
		t.Fatalf("NewSecret returned error: %v", err)
	}

	if len(a) != secretBytes*2 {
		t.Errorf("secret length = %d; want %d hex chars", len(a), secretBytes*2)
	}
	if a == b {
		t.Error("two secrets must not collide")
	}
}
