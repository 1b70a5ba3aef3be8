package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrMissingToken = errors.New("missing authorization header")
	ErrInvalidToken = errors.New("invalid authorization header")
)

type contextKey string

const (
	UserContextKey  contextKey = "auth.user"
	EmailContextKey contextKey = "auth.email"
)

// Provider authenticates API requests, returning a context carrying the caller identity.
type Provider interface {
	Authenticate(ctx context.Context, r *http.Request) (context.Context, error)
}

// User returns the authenticated caller, preferring the email address.
func User(ctx context.Context) string {
	if val, ok := ctx.Value(EmailContextKey).(string); ok && val != "" {
		return val
	}

	if val, ok := ctx.Value(UserContextKey).(string); ok {
		return val
	}

	return ""
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")

	if header == "" {
		return "", ErrMissingToken
	}

	token, ok := strings.CutPrefix(header, "Bearer ")

	if !ok || token == "" {
		return "", ErrInvalidToken
	}

	return token, nil
}
