package service

import "testing"

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret!" {
		t.Fatal("password stored in the clear")
	}
	if !CheckPassword(hash, "s3cret!") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password must differ")
	}
	if !CheckPassword(h1, "same") || !CheckPassword(h2, "same") {
		t.Fatal("both hashes must still verify")
	}
}
