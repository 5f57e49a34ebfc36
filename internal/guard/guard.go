// Package guard implements the navigation predicates evaluated before a
// protected view is activated. Guards are pure functions of the current
// session and the target route; the router performs the redirect/notification
// a denial asks for.
package guard

import (
	"github.com/retailpos/backoffice/internal/domain"
)

// Route describes a navigable view and its access requirements.
type Route struct {
	Name string
	Path string
	// Public routes skip the auth guard (login, signup).
	Public bool
	// Roles, when non-empty, restricts the route to sessions holding one of
	// the listed roles.
	Roles []domain.Role
}

// Decision is a guard verdict. When Allow is false, RedirectTo names the
// route to fall back to and Notify optionally carries an error notification.
type Decision struct {
	Allow      bool
	RedirectTo string
	Notify     string
}

var allow = Decision{Allow: true}

// Auth admits any logged-in session; anonymous navigation to a protected
// route is redirected to the login view.
func Auth(sess *domain.Session, route Route) Decision {
	if route.Public || sess != nil {
		return allow
	}
	return Decision{RedirectTo: "login"}
}

// RequiredRole denies sessions whose role is not in the route's required set.
// Routes with an empty set admit every session. Denials bounce to the home
// view with a notification.
func RequiredRole(sess *domain.Session, route Route) Decision {
	if len(route.Roles) == 0 {
		return allow
	}
	if sess != nil {
		for _, r := range route.Roles {
			if sess.User.Role == r {
				return allow
			}
		}
	}
	return Decision{
		RedirectTo: "home",
		Notify:     "You do not have permission to access this page.",
	}
}
