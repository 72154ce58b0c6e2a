package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	return h
}

func TestHasher_HashAndVerify(t *testing.T) {
	h := newTestHasher(t)

	hashed, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hashed == "pw1" || !IsHash(hashed) {
		t.Fatalf("expected a bcrypt hash, got %q", hashed)
	}

	if ok, rehash := h.Verify(hashed, "pw1"); !ok || rehash {
		t.Errorf("Verify(correct) = %v, %v; want true, false", ok, rehash)
	}
	if ok, _ := h.Verify(hashed, "PW1"); ok {
		t.Error("password comparison must be case-sensitive")
	}
	if ok, _ := h.Verify(hashed, ""); ok {
		t.Error("empty password must not verify")
	}
}

func TestHasher_SaltedHashesDiffer(t *testing.T) {
	h := newTestHasher(t)
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Error("expected different salts for the same password")
	}
}

func TestHasher_VerifyLegacyPlainText(t *testing.T) {
	h := newTestHasher(t)

	ok, rehash := h.Verify("password", "password")
	if !ok || !rehash {
		t.Errorf("Verify(legacy match) = %v, %v; want true, true", ok, rehash)
	}
	if ok, rehash := h.Verify("password", "nope"); ok || rehash {
		t.Errorf("Verify(legacy mismatch) = %v, %v; want false, false", ok, rehash)
	}
	if ok, _ := h.Verify("", ""); ok {
		t.Error("an empty stored password never verifies")
	}
}

func TestHasher_LegacyVerifyCostsAHashCompare(t *testing.T) {
	h, err := NewHasher(8)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	hashed, _ := h.Hash("pw")

	fastest := func(stored string) time.Duration {
		best := time.Duration(1<<63 - 1)
		for i := 0; i < 3; i++ {
			start := time.Now()
			h.Verify(stored, "wrong")
			if d := time.Since(start); d < best {
				best = d
			}
		}
		return best
	}

	hashCost := fastest(hashed)
	legacyCost := fastest("plain-text")
	if legacyCost < hashCost/4 {
		t.Errorf("legacy verify took %v, bcrypt verify %v; want comparable", legacyCost, hashCost)
	}
}

func TestHasher_RejectsOverlongPassword(t *testing.T) {
	h := newTestHasher(t)
	if _, err := h.Hash(strings.Repeat("x", 73)); err == nil {
		t.Error("expected error for password longer than 72 bytes")
	}
}

func TestNewHasher_CostOutOfRangeUsesDefault(t *testing.T) {
	h, err := NewHasher(99)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	if h.cost != bcrypt.DefaultCost {
		t.Errorf("expected default cost, got %d", h.cost)
	}
}

func TestTokens_IssueParse(t *testing.T) {
	tokens, err := NewTokens("test-secret")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}

	tok, err := tokens.Issue("session-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	sid, err := tokens.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sid != "session-123" {
		t.Errorf("expected session-123, got %s", sid)
	}
}

func TestTokens_WrongSecret(t *testing.T) {
	a, _ := NewTokens("secret-a")
	b, _ := NewTokens("secret-b")

	tok, _ := a.Issue("session-123")
	if _, err := b.Parse(tok); err == nil {
		t.Fatal("expected error for token signed with another secret")
	}
}

func TestTokens_RandomSecret(t *testing.T) {
	a, _ := NewTokens("")
	b, _ := NewTokens("")

	tok, _ := a.Issue("s")
	if _, err := a.Parse(tok); err != nil {
		t.Errorf("token should parse with its own signer: %v", err)
	}
	if _, err := b.Parse(tok); err == nil {
		t.Error("random secrets should differ between signers")
	}
}

func TestTokens_RejectsGarbageAndEmptyClaims(t *testing.T) {
	tokens, _ := NewTokens("test-secret")

	if _, err := tokens.Parse("not-a-token"); err == nil {
		t.Error("expected error for garbage token")
	}

	empty := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer},
	})
	signed, err := empty.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tokens.Parse(signed); err == nil {
		t.Error("expected invalid claims error for missing session id")
	}
}
