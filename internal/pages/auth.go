package pages

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/domain"
	"github.com/retailpos/backoffice/internal/forms"
	"github.com/retailpos/backoffice/internal/nav"
	"github.com/retailpos/backoffice/internal/toast"
)

// AuthAPI is the slice of the POS client the auth screens need.
type AuthAPI interface {
	Login(ctx context.Context, form domain.LoginForm) (domain.LoginResponse, error)
	Signup(ctx context.Context, form domain.SignupForm) (string, error)
}

// SessionWriter establishes a session after a successful login.
// Satisfied by session.Manager.
type SessionWriter interface {
	Establish(ctx context.Context, sess domain.Session) error
}

// Auth drives the login and signup screens.
type Auth struct {
	api      AuthAPI
	sessions SessionWriter
	toasts   *toast.Queue
	nav      Navigator
	validate *forms.Validator
	log      zerolog.Logger
}

func NewAuth(authAPI AuthAPI, sessions SessionWriter, toasts *toast.Queue, navigator Navigator, log zerolog.Logger) *Auth {
	return &Auth{
		api:      authAPI,
		sessions: sessions,
		toasts:   toasts,
		nav:      navigator,
		validate: forms.NewValidator(),
		log:      log,
	}
}

// Login authenticates, establishes the session, and moves to the home view.
func (a *Auth) Login(ctx context.Context, email, password string) error {
	form := domain.LoginForm{Email: strings.TrimSpace(email), Password: password}
	if err := a.validate.Validate(form); err != nil {
		a.toasts.ShowError(err.Error())
		return err
	}

	resp, err := a.api.Login(ctx, form)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			a.toasts.ShowError("Invalid email or password.")
			return err
		}
		notifyAPIError(a.toasts, a.log, err, "logging in")
		return err
	}

	sess := domain.Session{
		User:  domain.User{Email: resp.Email, Role: resp.Role},
		Token: resp.Token,
	}
	if err := a.sessions.Establish(ctx, sess); err != nil {
		a.log.Error().Err(err).Msg("auth: establishing session failed")
		a.toasts.ShowError("Could not save your session. Please try again.")
		return err
	}

	a.nav.Navigate(ctx, nav.RouteHome)
	return nil
}

// Signup registers a new account and moves to the login view. Passwords must
// match before anything is sent.
func (a *Auth) Signup(ctx context.Context, email, password, confirm string) error {
	if password != confirm {
		a.toasts.ShowError("Passwords do not match.")
		return errInputRejected
	}
	form := domain.SignupForm{Email: strings.TrimSpace(email), Password: password}
	if err := a.validate.Validate(form); err != nil {
		a.toasts.ShowError(err.Error())
		return err
	}

	message, err := a.api.Signup(ctx, form)
	if err != nil {
		notifyAPIError(a.toasts, a.log, err, "signing up")
		return err
	}

	if message == "" {
		message = "Account created successfully. Please log in."
	}
	a.toasts.ShowSuccess(message)
	a.nav.Navigate(ctx, nav.RouteLogin)
	return nil
}

// errInputRejected marks a locally rejected input; no call was made.
var errInputRejected = errors.New("input rejected")
