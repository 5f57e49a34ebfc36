package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/domain"
	"github.com/retailpos/backoffice/internal/store"
)

func newManager(t *testing.T) (*Manager, store.Store) {
	t.Helper()
	st := store.NewFileStore(t.TempDir())
	return NewManager(st, zerolog.Nop()), st
}

func TestEstablish_PersistsBothSlots(t *testing.T) {
	m, st := newManager(t)
	ctx := context.Background()

	sess := domain.Session{
		User:  domain.User{Email: "op@store.test", Role: domain.RoleOperator},
		Token: "tok-abc",
	}
	if err := m.Establish(ctx, sess); err != nil {
		t.Fatalf("establish: %v", err)
	}

	if !m.IsLoggedIn(ctx) {
		t.Fatalf("expected logged in after establish")
	}
	if m.Token(ctx) != "tok-abc" {
		t.Fatalf("token = %q", m.Token(ctx))
	}
	if tok, err := st.Get(ctx, store.SlotToken); err != nil || tok != "tok-abc" {
		t.Fatalf("token slot = %q err %v", tok, err)
	}
	if _, err := st.Get(ctx, store.SlotUser); err != nil {
		t.Fatalf("user slot not persisted: %v", err)
	}
	cur := m.Current()
	if cur == nil || cur.User.Email != "op@store.test" {
		t.Fatalf("published session = %+v", cur)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	_ = m.Establish(ctx, domain.Session{
		User:  domain.User{Email: "op@store.test", Role: domain.RoleOperator},
		Token: "tok",
	})

	navigations := 0
	m.SetLogoutHandler(func() { navigations++ })

	m.Logout(ctx)
	m.Logout(ctx)

	if m.IsLoggedIn(ctx) {
		t.Fatalf("still logged in after logout")
	}
	if m.Current() != nil {
		t.Fatalf("session still published after logout")
	}
	if m.Token(ctx) != "" {
		t.Fatalf("token survives logout")
	}
	if navigations != 2 {
		t.Fatalf("logout handler calls = %d, want 2", navigations)
	}
}

func TestRestore_PublishesPersistedSession(t *testing.T) {
	st := store.NewFileStore(t.TempDir())
	ctx := context.Background()
	_ = st.Set(ctx, store.SlotToken, "tok-xyz")
	_ = st.Set(ctx, store.SlotUser, `{"email":"sup@store.test","role":"SUPERVISOR"}`)

	m := NewManager(st, zerolog.Nop())
	m.Restore(ctx)

	cur := m.Current()
	if cur == nil {
		t.Fatalf("expected restored session")
	}
	if cur.User.Role != domain.RoleSupervisor || cur.Token != "tok-xyz" {
		t.Fatalf("restored session = %+v", cur)
	}
}

func TestRestore_MissingTokenClearsStaleUser(t *testing.T) {
	st := store.NewFileStore(t.TempDir())
	ctx := context.Background()
	_ = st.Set(ctx, store.SlotUser, `{"email":"stale@store.test","role":"OPERATOR"}`)

	m := NewManager(st, zerolog.Nop())
	m.Restore(ctx)

	if m.Current() != nil {
		t.Fatalf("stale user record must not produce a session")
	}
	if _, err := st.Get(ctx, store.SlotUser); err == nil {
		t.Fatalf("stale user slot should have been cleared")
	}
}

func TestRestore_CorruptUserRecordClearsSession(t *testing.T) {
	st := store.NewFileStore(t.TempDir())
	ctx := context.Background()
	_ = st.Set(ctx, store.SlotToken, "tok")
	_ = st.Set(ctx, store.SlotUser, "{not json")

	m := NewManager(st, zerolog.Nop())
	m.Restore(ctx)

	if m.Current() != nil || m.IsLoggedIn(ctx) {
		t.Fatalf("corrupt user record must clear the whole session")
	}
}

func TestRestore_ExpiredJWTClearsSession(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "op@store.test",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	st := store.NewFileStore(t.TempDir())
	ctx := context.Background()
	_ = st.Set(ctx, store.SlotToken, signed)
	_ = st.Set(ctx, store.SlotUser, `{"email":"op@store.test","role":"OPERATOR"}`)

	m := NewManager(st, zerolog.Nop())
	m.Restore(ctx)

	if m.Current() != nil || m.IsLoggedIn(ctx) {
		t.Fatalf("expired token must restore to logged-out")
	}
}

func TestRestore_OpaqueTokenIsAccepted(t *testing.T) {
	st := store.NewFileStore(t.TempDir())
	ctx := context.Background()
	_ = st.Set(ctx, store.SlotToken, "opaque-session-token")
	_ = st.Set(ctx, store.SlotUser, `{"email":"op@store.test","role":"OPERATOR"}`)

	m := NewManager(st, zerolog.Nop())
	m.Restore(ctx)

	if m.Current() == nil {
		t.Fatalf("opaque tokens must not be rejected locally")
	}
}

func TestSubscribe_SeesEstablishAndLogout(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	var seen []*domain.Session
	release := m.Subscribe(func(s *domain.Session) { seen = append(seen, s) })
	defer release()

	_ = m.Establish(ctx, domain.Session{
		User:  domain.User{Email: "op@store.test", Role: domain.RoleOperator},
		Token: "tok",
	})
	m.Logout(ctx)

	// initial nil, session, nil
	if len(seen) != 3 || seen[0] != nil || seen[1] == nil || seen[2] != nil {
		t.Fatalf("unexpected publication sequence: %v", seen)
	}
}
