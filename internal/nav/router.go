// Package nav holds the route table and the router that applies guards
// before activating a view.
package nav

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/domain"
	"github.com/retailpos/backoffice/internal/guard"
	"github.com/retailpos/backoffice/internal/pubsub"
	"github.com/retailpos/backoffice/internal/toast"
)

// Route names. Navigation goes by name; Path is what a front-end displays.
const (
	RouteLogin     = "login"
	RouteSignup    = "signup"
	RouteHome      = "home"
	RouteClients   = "clients"
	RouteProducts  = "products"
	RouteOrders    = "orders"
	RouteOrderNew  = "orders/new"
	RouteOrderEdit = "orders/edit"
	RouteReports   = "reports"
)

// Routes is the static route table. Reports is the one role-gated view.
func Routes() []guard.Route {
	return []guard.Route{
		{Name: RouteLogin, Path: "/login", Public: true},
		{Name: RouteSignup, Path: "/signup", Public: true},
		{Name: RouteHome, Path: "/"},
		{Name: RouteClients, Path: "/clients"},
		{Name: RouteProducts, Path: "/products"},
		{Name: RouteOrders, Path: "/orders"},
		{Name: RouteOrderNew, Path: "/orders/new"},
		{Name: RouteOrderEdit, Path: "/orders/edit"},
		{Name: RouteReports, Path: "/reports", Roles: []domain.Role{domain.RoleSupervisor}},
	}
}

// SessionSource yields the current session for guard evaluation.
// Satisfied by session.Manager.
type SessionSource interface {
	Current() *domain.Session
}

// Router resolves navigation requests against the route table and guards.
type Router struct {
	routes   map[string]guard.Route
	sessions SessionSource
	toasts   *toast.Queue
	log      zerolog.Logger
	current  *pubsub.Value[string]
}

func NewRouter(sessions SessionSource, toasts *toast.Queue, log zerolog.Logger) *Router {
	table := make(map[string]guard.Route)
	for _, r := range Routes() {
		table[r.Name] = r
	}
	return &Router{
		routes:   table,
		sessions: sessions,
		toasts:   toasts,
		log:      log,
		current:  pubsub.NewValue(RouteLogin),
	}
}

// Navigate moves to the named route, applying the auth and role guards. An
// unknown name falls back to the login view. The returned name is where
// navigation actually landed.
func (r *Router) Navigate(_ context.Context, name string) string {
	route, ok := r.routes[name]
	if !ok {
		r.log.Debug().Str("route", name).Msg("unknown route, falling back to login")
		r.current.Set(RouteLogin)
		return RouteLogin
	}

	sess := r.sessions.Current()

	if d := guard.Auth(sess, route); !d.Allow {
		return r.deny(d)
	}
	if d := guard.RequiredRole(sess, route); !d.Allow {
		return r.deny(d)
	}

	r.current.Set(route.Name)
	return route.Name
}

func (r *Router) deny(d guard.Decision) string {
	if d.Notify != "" {
		r.toasts.ShowError(d.Notify)
	}
	r.current.Set(d.RedirectTo)
	return d.RedirectTo
}

// Current returns the active route name.
func (r *Router) Current() string {
	return r.current.Get()
}

// Subscribe registers a listener for route changes and returns its release
// function.
func (r *Router) Subscribe(fn func(string)) func() {
	return r.current.Subscribe(fn)
}

// Route returns the descriptor for a route name.
func (r *Router) Route(name string) (guard.Route, bool) {
	route, ok := r.routes[name]
	return route, ok
}
