package auth

import "testing"

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if !CheckPassword("correct horse battery staple", hash) {
		t.Fatalf("expected matching password to verify")
	}
	if CheckPassword("wrong password", hash) {
		t.Fatalf("expected mismatching password to fail")
	}
}
