package crypto

import "testing"

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword() returned empty string")
	}
	if hash == "correct horse battery staple" {
		t.Fatal("HashPassword() returned the plaintext")
	}

	if !VerifyPassword("correct horse battery staple", hash) {
		t.Error("VerifyPassword() rejected the correct password")
	}
}

func TestVerifyPasswordWrongPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}

	if VerifyPassword("password124", hash) {
		t.Error("VerifyPassword() accepted a wrong password")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if VerifyPassword("password123", "not-a-bcrypt-hash") {
		t.Error("VerifyPassword() accepted a malformed hash")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	first, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}
	second, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password should differ")
	}
}
