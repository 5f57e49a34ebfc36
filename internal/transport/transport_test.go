package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type staticTokens struct{ tok string }

func (s *staticTokens) Token(context.Context) string { return s.tok }

func TestAuth_AttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(0, &staticTokens{tok: "tok-123"}, nil, zerolog.Nop())
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()

	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotReqID == "" {
		t.Fatalf("expected a generated X-Request-Id")
	}
}

func TestAuth_NoTokenNoHeader(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(0, &staticTokens{}, nil, zerolog.Nop())
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()

	if sawAuth {
		t.Fatalf("Authorization header must be absent when logged out")
	}
}

func TestAuth_401InvokesLogoutBeforeReturn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"token revoked"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	loggedOut := false
	client := NewClient(0, &staticTokens{tok: "stale"}, func() { loggedOut = true }, zerolog.Nop())

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, response must still propagate", resp.StatusCode)
	}
	if !loggedOut {
		t.Fatalf("401 must force a logout")
	}
}

func TestAuth_DoesNotMutateCallerRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, strings.NewReader(""))
	client := NewClient(0, &staticTokens{tok: "tok"}, nil, zerolog.Nop())
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()

	if req.Header.Get("Authorization") != "" {
		t.Fatalf("original request was mutated")
	}
}
