package models

import (
	"context"
	"slices"
	"time"
)

type ContextKey string

const (
	SessionKey ContextKey = "session"
)

// Built-in role names
const (
	RoleAdmin      = "Admin"
	RoleSupervisor = "Supervisor"
	RoleOperator   = "Operator"

	DefaultRole = RoleOperator
)

// Identity is the authenticated handle returned by the identity provider.
// The application only reads it.
type Identity struct {
	UID            string    `json:"uid" bson:"uid"`
	Email          string    `json:"email" bson:"email"`
	DisplayName    string    `json:"display_name" bson:"display_name"`
	PhotoURL       string    `json:"photo_url" bson:"photo_url"`
	EmailVerified  bool      `json:"email_verified" bson:"email_verified"`
	CreationTime   time.Time `json:"creation_time" bson:"creation_time"`
	LastSignInTime time.Time `json:"last_sign_in_time" bson:"last_sign_in_time"`
}

// Actor identifies who performed a mutation, for audit entries.
type Actor struct {
	UID  string
	Name string
}

// RoleDefinition maps a role name to the routes it may open.
type RoleDefinition struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Routes      []string  `json:"routes" bson:"routes"`
	BuiltIn     bool      `json:"built_in" bson:"-"`
	CreatedAt   time.Time `json:"created_at,omitempty" bson:"created_at"`
}

type SessionState string

const (
	SessionLoading               SessionState = "loading"
	SessionUnauthenticated       SessionState = "unauthenticated"
	SessionAuthenticatedWithRole SessionState = "authenticated"
	SessionAuthenticatedNoRole   SessionState = "authenticated_no_role"
)

// Session is the per-sign-in view of who is signed in and what they can do.
// A nil *Session behaves as unauthenticated.
type Session struct {
	ID       string           `json:"id"`
	Identity *Identity        `json:"identity,omitempty"`
	Role     *string          `json:"role"`
	Roles    []RoleDefinition `json:"roles"`
	State    SessionState     `json:"state"`
}

// NewSession derives the state from the identity and role.
func NewSession(id string, identity *Identity, role *string, roles []RoleDefinition) *Session {
	s := &Session{ID: id, Identity: identity, Roles: roles}
	if role != nil && *role != "" {
		r := *role
		s.Role = &r
	}
	switch {
	case identity == nil:
		s.State = SessionUnauthenticated
	case s.Role == nil:
		s.State = SessionAuthenticatedNoRole
	default:
		s.State = SessionAuthenticatedWithRole
	}
	return s
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Identity != nil
}

// RoleName returns the resolved role or "".
func (s *Session) RoleName() string {
	if s == nil || s.Role == nil {
		return ""
	}
	return *s.Role
}

// Actor returns the audit actor for this session.
func (s *Session) Actor() Actor {
	if !s.Authenticated() {
		return Actor{UID: "system", Name: "System"}
	}
	name := s.Identity.DisplayName
	if name == "" {
		name = s.Identity.Email
	}
	return Actor{UID: s.Identity.UID, Name: name}
}

// HasRole reports whether a role is resolved and is one of candidates.
func (s *Session) HasRole(candidates ...string) bool {
	role := s.RoleName()
	if role == "" {
		return false
	}
	return slices.Contains(candidates, role)
}

// HasRouteAccess checks the role registry for an exact route entry.
// Admin can open everything.
func (s *Session) HasRouteAccess(path string) bool {
	role := s.RoleName()
	if role == "" {
		return false
	}
	if role == RoleAdmin {
		return true
	}
	for _, def := range s.Roles {
		if def.Name == role {
			return slices.Contains(def.Routes, path)
		}
	}
	return false
}

// WithRole returns a copy of the session with a new role.
func (s *Session) WithRole(role string) *Session {
	return NewSession(s.ID, s.Identity, &role, s.Roles)
}

// WithSession attaches the session to ctx for services that stamp audit
// entries.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

// SessionFrom returns the session carried by ctx, or nil.
func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(SessionKey).(*Session)
	return s
}

// ActorFrom returns the audit actor for ctx. Without a session the actor is
// the system.
func ActorFrom(ctx context.Context) Actor {
	return SessionFrom(ctx).Actor()
}
