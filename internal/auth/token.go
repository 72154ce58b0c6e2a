package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	jwt "github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "user-management-console"

// Tokens signs and parses session tokens. A token names a session; all
// session state stays on the server.
type Tokens struct {
	secret []byte
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// NewTokens creates a token signer. An empty secret gets a random one, which
// invalidates every session on restart.
func NewTokens(secret string) (*Tokens, error) {
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
	}
	return &Tokens{secret: []byte(secret)}, nil
}

// Issue returns a signed token for the session id
func (t *Tokens) Issue(sessionID string) (string, error) {
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns the session id it names
func (t *Tokens) Parse(tokenStr string) (string, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(tok *jwt.Token) (interface{}, error) {
		if tok.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return "", err
	}

	c, _ := tok.Claims.(*sessionClaims)
	if c == nil || c.SessionID == "" {
		return "", errors.New("invalid claims")
	}
	return c.SessionID, nil
}
