package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("digest must not equal the plaintext")
	}

	if !CheckPassword("hunter22", hash) {
		t.Fatal("expected matching password to verify")
	}
	if CheckPassword("hunter23", hash) {
		t.Fatal("expected non-matching password to fail")
	}
}

func TestHashPassword_SaltUniqueness(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two digests of the same password must differ")
	}
	if !CheckPassword("same-password", h1) || !CheckPassword("same-password", h2) {
		t.Fatal("both digests must verify against the original password")
	}
}

func TestCheckPassword_MalformedDigest(t *testing.T) {
	t.Parallel()

	for _, digest := range []string{"", "not-a-bcrypt-digest", "$2a$xx$garbage"} {
		if CheckPassword("anything", digest) {
			t.Fatalf("malformed digest %q must not verify", digest)
		}
	}
}
