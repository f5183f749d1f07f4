package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/yanqian/ketoslim-funnel/pkg/errors"
)

const tokenIssuer = "ketoslim-funnel"

// TokenConfig drives session token signing.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// TokenIssuer mints and verifies the signed session cookie value. The token
// only names the visitor; it grants nothing.
type TokenIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer.
func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	return &TokenIssuer{cfg: cfg, now: time.Now}
}

// TTL is how long an issued token stays valid.
func (t *TokenIssuer) TTL() time.Duration {
	return t.cfg.TTL
}

// Issue creates a new session ID and its signed token.
func (t *TokenIssuer) Issue() (string, string, error) {
	id := uuid.NewString()
	token, err := t.Sign(id)
	if err != nil {
		return "", "", err
	}
	return id, token, nil
}

// Sign produces a token for an existing session ID.
func (t *TokenIssuer) Sign(sessionID string) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   sessionID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.TTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(t.cfg.Secret))
	if err != nil {
		return "", apperrors.Wrap("session_error", "failed to sign session token", err)
	}
	return signed, nil
}

// Parse verifies token and returns the session ID it names.
func (t *TokenIssuer) Parse(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", tok.Method.Alg())
		}
		return []byte(t.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", apperrors.Wrap("invalid_token", "session token validation failed", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return "", apperrors.Wrap("invalid_token", "session token invalid", nil)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", apperrors.Wrap("invalid_token", "session token subject malformed", err)
	}
	return claims.Subject, nil
}
