package core

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	digest, err := h.Hash("s3cret!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if digest == "s3cret!" || digest == "" {
		t.Fatalf("digest must be opaque, got %q", digest)
	}

	if !h.Verify("s3cret!", digest) {
		t.Fatalf("Verify rejected the correct password")
	}
	if h.Verify("wrong", digest) {
		t.Fatalf("Verify accepted a wrong password")
	}
}

func TestPasswordHasher_SaltedDigests(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	first, err := h.Hash("same-plaintext")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	second, err := h.Hash("same-plaintext")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if first == second {
		t.Fatalf("two hashes of the same plaintext must differ")
	}
	if !h.Verify("same-plaintext", first) || !h.Verify("same-plaintext", second) {
		t.Fatalf("both digests must verify")
	}
}

func TestNewPasswordHasher_DefaultCost(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(0)
	if h.cost != bcrypt.DefaultCost {
		t.Fatalf("cost = %d, want bcrypt.DefaultCost", h.cost)
	}
}
