package guard

import (
	"testing"

	"github.com/retailpos/backoffice/internal/domain"
)

var reports = Route{Name: "reports", Path: "/reports", Roles: []domain.Role{domain.RoleSupervisor}}

func operator() *domain.Session {
	return &domain.Session{User: domain.User{Email: "op@store.test", Role: domain.RoleOperator}, Token: "t"}
}

func supervisor() *domain.Session {
	return &domain.Session{User: domain.User{Email: "sup@store.test", Role: domain.RoleSupervisor}, Token: "t"}
}

func TestAuth_AnonymousRedirectsToLogin(t *testing.T) {
	d := Auth(nil, Route{Name: "clients", Path: "/clients"})
	if d.Allow {
		t.Fatalf("anonymous session must be denied")
	}
	if d.RedirectTo != "login" {
		t.Fatalf("redirect = %q, want login", d.RedirectTo)
	}
}

func TestAuth_PublicRouteAlwaysAllowed(t *testing.T) {
	if d := Auth(nil, Route{Name: "login", Path: "/login", Public: true}); !d.Allow {
		t.Fatalf("public route must admit anonymous sessions")
	}
}

func TestAuth_LoggedInAllowed(t *testing.T) {
	if d := Auth(operator(), Route{Name: "clients", Path: "/clients"}); !d.Allow {
		t.Fatalf("logged-in session must be admitted")
	}
}

func TestRequiredRole_OperatorDenied(t *testing.T) {
	d := RequiredRole(operator(), reports)
	if d.Allow {
		t.Fatalf("operator must not reach a supervisor route")
	}
	if d.RedirectTo != "home" {
		t.Fatalf("redirect = %q, want home", d.RedirectTo)
	}
	if d.Notify == "" {
		t.Fatalf("denial must carry a notification")
	}
}

func TestRequiredRole_SupervisorAdmitted(t *testing.T) {
	if d := RequiredRole(supervisor(), reports); !d.Allow {
		t.Fatalf("supervisor must be admitted")
	}
}

func TestRequiredRole_EmptySetAllowsAnyone(t *testing.T) {
	if d := RequiredRole(operator(), Route{Name: "orders", Path: "/orders"}); !d.Allow {
		t.Fatalf("route without a role set must admit every session")
	}
	if d := RequiredRole(nil, Route{Name: "orders", Path: "/orders"}); !d.Allow {
		t.Fatalf("role guard without a role set does not check login state")
	}
}

func TestRequiredRole_NilSessionDenied(t *testing.T) {
	if d := RequiredRole(nil, reports); d.Allow {
		t.Fatalf("nil session must not satisfy a role requirement")
	}
}
