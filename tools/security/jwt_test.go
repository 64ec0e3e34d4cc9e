package security

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateAndVerify(t *testing.T) {
	opts := DefaultOptions([]byte("unit-test-secret"))

	token, hash, exp, err := Generate(opts, "user-1", []string{"relay"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(hash, "sha256:") {
		t.Fatalf("hash = %q, want sha256 prefix", hash)
	}
	if !exp.After(time.Now()) {
		t.Fatalf("expiry %v is not in the future", exp)
	}

	claims, err := Verify(opts, token, hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject() != "user-1" {
		t.Fatalf("sub = %q, want user-1", claims.Subject())
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, _, _, err := Generate(DefaultOptions([]byte("secret-a")), "user-1", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := Verify(DefaultOptions([]byte("secret-b")), token, ""); err == nil {
		t.Fatal("token signed with another secret must not verify")
	}
}

func TestVerifyRejectsHashMismatch(t *testing.T) {
	opts := DefaultOptions([]byte("unit-test-secret"))
	token, _, _, err := Generate(opts, "user-1", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := Verify(opts, token, "sha256:deadbeef"); err == nil {
		t.Fatal("mismatched hash must not verify")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	opts := DefaultOptions([]byte("unit-test-secret"))
	opts.TTL = time.Millisecond

	token, _, _, err := Generate(opts, "user-1", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	time.Sleep(1100 * time.Millisecond) // exp has 1s resolution
	if _, err := Verify(opts, token, ""); err == nil {
		t.Fatal("expired token must not verify")
	}
}

func TestUnsupportedAlg(t *testing.T) {
	opts := Options{Secret: []byte("x"), Alg: "RS256"}
	if _, _, _, err := Generate(opts, "user-1", nil); err == nil {
		t.Fatal("non-HMAC alg must be refused")
	}
}
