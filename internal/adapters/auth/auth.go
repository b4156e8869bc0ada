// Package auth verifies bearer tokens issued at sign-in: an HS256 JWT
// carrying the user id, backed by a live session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"drivent/internal/domain"
)

type Claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret   []byte
	sessions domain.SessionStore
}

var ErrEmptySecret = errors.New("auth: empty signing secret")

// New refuses an empty secret: HS256 would accept tokens signed with it.
func New(secret []byte, sessions domain.SessionStore) (*Authenticator, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return &Authenticator{secret: secret, sessions: sessions}, nil
}

// Sign issues a token for userID the way the sign-in service does.
func Sign(secret []byte, userID int64) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: userID}).SignedString(secret)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate returns the user id behind an Authorization header.
// Every rejection wraps domain.ErrUnauthorized; session store failures do not.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (int64, error) {
	token, ok := BearerToken(header)
	if !ok {
		return 0, fmt.Errorf("missing bearer token: %w", domain.ErrUnauthorized)
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, fmt.Errorf("parse token: %v: %w", err, domain.ErrUnauthorized)
	}
	if claims.UserID <= 0 {
		return 0, fmt.Errorf("token without userId: %w", domain.ErrUnauthorized)
	}

	owner, found, err := a.sessions.UserIDForToken(ctx, token)
	if err != nil {
		return 0, fmt.Errorf("session lookup: %w", err)
	}
	if !found || owner != claims.UserID {
		return 0, fmt.Errorf("no session for user %d: %w", claims.UserID, domain.ErrUnauthorized)
	}
	return claims.UserID, nil
}

// IsUnauthorized reports whether err is a rejection rather than an infrastructure failure.
func IsUnauthorized(err error) bool { return errors.Is(err, domain.ErrUnauthorized) }
