// Package session owns the authenticated state for this terminal: the current
// user, the bearer token, and their persistence in the slot store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/domain"
	"github.com/retailpos/backoffice/internal/pubsub"
	"github.com/retailpos/backoffice/internal/store"
)

// Manager is the single source of truth for "is logged in" and "what role".
// The published session and the persisted slots are set and cleared together;
// a missing token is treated as logged-out regardless of a stale user record.
type Manager struct {
	store store.Store
	log   zerolog.Logger

	current *pubsub.Value[*domain.Session]

	mu       sync.Mutex
	onLogout func()
}

func NewManager(st store.Store, log zerolog.Logger) *Manager {
	return &Manager{
		store:   st,
		log:     log,
		current: pubsub.NewValue[*domain.Session](nil),
	}
}

// SetLogoutHandler registers the navigation hook invoked after every logout.
// Typically wired to "go to the login view" by the router.
func (m *Manager) SetLogoutHandler(fn func()) {
	m.mu.Lock()
	m.onLogout = fn
	m.mu.Unlock()
}

// Restore loads the persisted session at process start. Inconsistent state
// self-heals to logged-out: a token without a readable user record, a user
// record without a token, or an already-expired JWT all clear both slots.
func (m *Manager) Restore(ctx context.Context) {
	token, err := m.store.Get(ctx, store.SlotToken)
	if err != nil {
		if !errors.Is(err, store.ErrSlotEmpty) {
			m.log.Warn().Err(err).Msg("session: token slot unreadable")
		}
		m.clearSlots(ctx)
		m.current.Set(nil)
		return
	}

	raw, err := m.store.Get(ctx, store.SlotUser)
	if err != nil {
		m.log.Warn().Err(err).Msg("session: user slot missing, discarding token")
		m.clearSlots(ctx)
		m.current.Set(nil)
		return
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		m.log.Warn().Err(err).Msg("session: corrupt user record, discarding session")
		m.clearSlots(ctx)
		m.current.Set(nil)
		return
	}

	if tokenExpired(token) {
		m.log.Info().Str("email", user.Email).Msg("session: stored token expired")
		m.clearSlots(ctx)
		m.current.Set(nil)
		return
	}

	m.log.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("session restored")
	m.current.Set(&domain.Session{User: user, Token: token})
}

// Establish persists token and user together and publishes the new session.
// A failure writing the user record rolls the token back so the slots never
// diverge.
func (m *Manager) Establish(ctx context.Context, sess domain.Session) error {
	raw, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, store.SlotToken, sess.Token); err != nil {
		return err
	}
	if err := m.store.Set(ctx, store.SlotUser, string(raw)); err != nil {
		_ = m.store.Delete(ctx, store.SlotToken)
		return err
	}
	m.current.Set(&sess)
	return nil
}

// Logout clears both slots, publishes nil, and invokes the logout handler.
// Safe to call repeatedly.
func (m *Manager) Logout(ctx context.Context) {
	m.clearSlots(ctx)
	m.current.Set(nil)

	m.mu.Lock()
	fn := m.onLogout
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// IsLoggedIn reports whether a token is currently persisted. It deliberately
// checks the store rather than the published session so that startup code can
// ask before any subscriber has attached.
func (m *Manager) IsLoggedIn(ctx context.Context) bool {
	_, err := m.store.Get(ctx, store.SlotToken)
	return err == nil
}

// Token returns the persisted bearer token, or "" when logged out.
func (m *Manager) Token(ctx context.Context) string {
	tok, err := m.store.Get(ctx, store.SlotToken)
	if err != nil {
		return ""
	}
	return tok
}

// Current returns the published session, nil when logged out.
func (m *Manager) Current() *domain.Session {
	return m.current.Get()
}

// Subscribe registers a listener for session changes and returns its release
// function.
func (m *Manager) Subscribe(fn func(*domain.Session)) func() {
	return m.current.Subscribe(fn)
}

func (m *Manager) clearSlots(ctx context.Context) {
	if err := m.store.Delete(ctx, store.SlotToken); err != nil {
		m.log.Warn().Err(err).Msg("session: clearing token slot")
	}
	if err := m.store.Delete(ctx, store.SlotUser); err != nil {
		m.log.Warn().Err(err).Msg("session: clearing user slot")
	}
}

// tokenExpired reports whether tok is a JWT whose exp claim is in the past.
// Opaque (non-JWT) tokens never expire locally; the API's 401 handling
// remains the authority.
func tokenExpired(tok string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
