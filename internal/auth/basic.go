// Package auth resolves the caller identity of HTTP requests.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrUnauthorized is returned when a request carries no valid credentials.
var ErrUnauthorized = errors.New("unauthorized")

type identityKey struct{}

// DefaultUsers mirrors the stock accounts the service ships with.
func DefaultUsers() map[string]string {
	return map[string]string{
		"admin":  "admin",
		"user":   "user",
		"admin2": "admin2",
	}
}

// BasicAuthenticator checks HTTP Basic credentials against a fixed user table.
// Stored secrets starting with "$2" are bcrypt hashes, anything else is compared verbatim.
type BasicAuthenticator struct {
	users map[string]string
	realm string
}

// NewBasicAuthenticator creates an authenticator for users (username -> secret).
func NewBasicAuthenticator(realm string, users map[string]string) *BasicAuthenticator {
	copied := make(map[string]string, len(users))
	for name, secret := range users {
		copied[name] = secret
	}
	if realm == "" {
		realm = "ledger"
	}
	return &BasicAuthenticator{users: copied, realm: realm}
}

// Authenticate returns the identity for the given credentials.
func (a *BasicAuthenticator) Authenticate(username, password string) (string, error) {
	secret, ok := a.users[username]
	if !ok || username == "" {
		return "", ErrUnauthorized
	}

	if strings.HasPrefix(secret, "$2") {
		if bcrypt.CompareHashAndPassword([]byte(secret), []byte(password)) != nil {
			return "", ErrUnauthorized
		}
		return username, nil
	}

	if subtle.ConstantTimeCompare([]byte(secret), []byte(password)) != 1 {
		return "", ErrUnauthorized
	}
	return username, nil
}

// Middleware rejects unauthenticated requests with 401 and stores the
// resolved identity in the request context.
func (a *BasicAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			a.challenge(w)
			return
		}

		identity, err := a.Authenticate(username, password)
		if err != nil {
			a.challenge(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func (a *BasicAuthenticator) challenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+a.realm+`"`)
	http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
}

// WithIdentity returns a context carrying identity.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the identity stored in ctx.
func IdentityFrom(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(identityKey{}).(string)
	return identity, ok && identity != ""
}

// HashPassword returns a bcrypt hash suitable for the user table.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
