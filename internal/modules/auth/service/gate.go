package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"sensorapi/internal/metrics"
	"sensorapi/internal/utils"
)

const (
	msgInvalidCredentials = "Invalid username or password"
	msgNotAuthenticated   = "Not authenticated"
)

var ErrUnauthorized = errors.New("invalid username or password")

// Identity is the authenticated caller.
type Identity struct {
	Username string
}

type identityKey struct{}

// Gate checks HTTP Basic credentials against the single configured pair.
type Gate struct {
	username []byte
	password []byte
	metrics  *metrics.Metrics
}

func NewGate(username, password string, m *metrics.Metrics) *Gate {
	return &Gate{username: []byte(username), password: []byte(password), metrics: m}
}

// Authenticate succeeds only when both fields match byte for byte. Both
// comparisons always run.
func (g *Gate) Authenticate(username, password string) (Identity, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), g.username)
	passOK := subtle.ConstantTimeCompare([]byte(password), g.password)
	if userOK&passOK != 1 {
		return Identity{}, ErrUnauthorized
	}
	return Identity{Username: username}, nil
}

// Require lets the request through to next only with valid Basic credentials
// and stores the caller's Identity in the request context.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			g.reject(w, r, msgNotAuthenticated)
			return
		}
		id, err := g.Authenticate(username, password)
		if err != nil {
			g.reject(w, r, msgInvalidCredentials)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

func (g *Gate) reject(w http.ResponseWriter, r *http.Request, msg string) {
	g.metrics.AuthFailed()
	slog.Warn("auth rejected",
		"reason", msg,
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)
	w.Header().Set("WWW-Authenticate", "Basic")
	utils.WriteError(w, http.StatusUnauthorized, msg)
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
