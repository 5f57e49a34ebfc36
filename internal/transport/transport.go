// Package transport wraps the outgoing HTTP path to the POS API: bearer
// authorization, forced logout on authentication failure, request IDs and
// request metrics. Every call the client makes goes through this chain.
package transport

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/metrics"
)

// TokenSource yields the current bearer token, or "" when logged out.
// Satisfied by session.Manager.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Auth is an http.RoundTripper that attaches the bearer credential to every
// request carrying a token and revokes the session on any 401 response. This
// is the only place the session is cleared outside an explicit user action.
type Auth struct {
	Base          http.RoundTripper
	Tokens        TokenSource
	OnAuthFailure func()
	Log           zerolog.Logger
}

func (a *Auth) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request.
	out := req.Clone(req.Context())
	if out.Header.Get("X-Request-Id") == "" {
		out.Header.Set("X-Request-Id", uuid.NewString())
	}
	if tok := a.Tokens.Token(req.Context()); tok != "" {
		out.Header.Set("Authorization", "Bearer "+tok)
	}

	base := a.Base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		a.Log.Warn().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Msg("authentication failure, revoking session")
		metrics.AuthFailuresTotal.Inc()
		if a.OnAuthFailure != nil {
			a.OnAuthFailure()
		}
	}
	return resp, nil
}

// Metrics observes request counts and latency for whatever transport it wraps.
type Metrics struct {
	Base http.RoundTripper
}

func (m *Metrics) RoundTrip(req *http.Request) (*http.Response, error) {
	base := m.Base
	if base == nil {
		base = http.DefaultTransport
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)
	metrics.APIRequestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	metrics.APIRequestsTotal.WithLabelValues(req.Method, status).Inc()
	return resp, err
}

// NewClient builds the http.Client used for all POS API calls.
func NewClient(timeout time.Duration, tokens TokenSource, onAuthFailure func(), log zerolog.Logger) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &Metrics{
			Base: &Auth{
				Tokens:        tokens,
				OnAuthFailure: onAuthFailure,
				Log:           log,
			},
		},
	}
}
