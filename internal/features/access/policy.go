// Package access guards page navigation with a static route table.
package access

import (
	"slices"
	"strings"

	"mineaction/internal/common/models"
	"mineaction/internal/metrics"
)

// RouteAccess lists the roles that may open paths under Path. An empty
// AllowedRoles admits any signed-in user.
type RouteAccess struct {
	Path         string   `json:"path"`
	AllowedRoles []string `json:"allowed_roles"`
}

type Outcome string

const (
	OutcomeAllow                Outcome = "allow"
	OutcomeRedirectSignIn       Outcome = "redirect_sign_in"
	OutcomeRedirectUnauthorized Outcome = "redirect_unauthorized"
)

type Decision struct {
	Outcome  Outcome `json:"outcome"`
	Redirect string  `json:"redirect,omitempty"`
}

var (
	Allow                = Decision{Outcome: OutcomeAllow}
	RedirectSignIn       = Decision{Outcome: OutcomeRedirectSignIn, Redirect: "/"}
	RedirectUnauthorized = Decision{Outcome: OutcomeRedirectUnauthorized, Redirect: "/unauthorized"}
)

type Policy interface {
	Decide(path string, session *models.Session) Decision
}

var (
	all      = []string{models.RoleAdmin, models.RoleSupervisor, models.RoleOperator}
	managers = []string{models.RoleAdmin, models.RoleSupervisor}
	admin    = []string{models.RoleAdmin}
)

// DefaultRoutes is the page table of the web client.
func DefaultRoutes() []RouteAccess {
	return []RouteAccess{
		{Path: "/projects/new", AllowedRoles: managers},
		{Path: "/projects", AllowedRoles: all},
		{Path: "/activities", AllowedRoles: all},
		{Path: "/action-tracker", AllowedRoles: all},
		{Path: "/admin", AllowedRoles: admin},
		{Path: "/dashboard", AllowedRoles: managers},
		{Path: "/reports", AllowedRoles: managers},
		{Path: "/settings", AllowedRoles: admin},
		{Path: "/tasks", AllowedRoles: all},
		{Path: "/audit-log", AllowedRoles: managers},
		{Path: "/profile"},
	}
}

// RouteGuard matches entries by raw string prefix, so "/projectsX" falls
// under "/projects" while "/project" does not. Every matching entry must
// admit the role.
type RouteGuard struct {
	Routes []RouteAccess
}

func NewRouteGuard() Policy {
	return &RouteGuard{Routes: DefaultRoutes()}
}

func (g *RouteGuard) Decide(path string, session *models.Session) Decision {
	d := g.decide(path, session)
	metrics.AccessDecisions.WithLabelValues(string(d.Outcome)).Inc()
	return d
}

func (g *RouteGuard) decide(path string, session *models.Session) Decision {
	if !session.Authenticated() {
		return RedirectSignIn
	}

	role := session.RoleName()
	for _, entry := range g.Routes {
		if !strings.HasPrefix(path, entry.Path) || len(entry.AllowedRoles) == 0 {
			continue
		}
		if role == "" || !slices.Contains(entry.AllowedRoles, role) {
			return RedirectUnauthorized
		}
	}
	return Allow
}
