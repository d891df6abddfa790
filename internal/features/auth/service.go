package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mineaction/internal/common/models"
	"mineaction/internal/config"
	"mineaction/internal/features/role"
	"mineaction/internal/features/user"
	"mineaction/internal/identity"
	"mineaction/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const stateTTL = 10 * time.Minute

type AuthService interface {
	SignInURL(ctx context.Context) (string, error)
	// SignIn completes the provider flow and opens a session. On failure no
	// session or user state changes.
	SignIn(ctx context.Context, code, state string) (*AuthResponse, error)
	// Resolve rebuilds the session behind a token. A revoked or unknown
	// session resolves unauthenticated; a failed role read resolves
	// authenticated without a role.
	Resolve(ctx context.Context, sessionID, userID string) *models.Session
	// Logout ends the session and returns where the browser should go to end
	// the provider session. It never fails.
	Logout(ctx context.Context, session *models.Session) string
	// SetUserRole changes the caller's own role. Failures are logged and
	// reported as false.
	SetUserRole(ctx context.Context, session *models.Session, role string) (*models.Session, bool)
}

type AuthServiceImpl struct {
	Provider    identity.Provider
	Users       user.UserService
	Roles       role.RoleService
	SessionRepo SessionRepository
	Config      *config.Config
	Logger      *zap.Logger
	Now         func() time.Time
}

func NewAuthService(
	provider identity.Provider,
	users user.UserService,
	roles role.RoleService,
	sessionRepo SessionRepository,
	cfg *config.Config,
	logger *zap.Logger,
) AuthService {
	return &AuthServiceImpl{
		Provider:    provider,
		Users:       users,
		Roles:       roles,
		SessionRepo: sessionRepo,
		Config:      cfg,
		Logger:      logger,
		Now:         time.Now,
	}
}

func (s *AuthServiceImpl) SignInURL(ctx context.Context) (string, error) {
	state, err := utils.GenerateStateToken(stateTTL)
	if err != nil {
		return "", err
	}
	return s.Provider.AuthCodeURL(ctx, state)
}

func (s *AuthServiceImpl) SignIn(ctx context.Context, code, state string) (*AuthResponse, error) {
	if err := utils.ValidateStateToken(state); err != nil {
		return nil, fmt.Errorf("%w: invalid state: %w", models.ErrAuthFailure, err)
	}

	ident, err := s.Provider.Exchange(ctx, code)
	if err != nil {
		s.Logger.Warn("Sign-in failed", zap.Error(err))
		return nil, err
	}

	var rolePtr *string
	userRole, err := s.Users.InitializeUser(ctx, ident, models.DefaultRole)
	if err != nil {
		s.Logger.Error("Failed to initialize user, continuing without a role",
			zap.String("user_id", ident.UID), zap.Error(err))
	} else {
		rolePtr = &userRole
	}

	now := s.Now()
	record := &SessionRecord{
		ID:        uuid.NewString(),
		UID:       ident.UID,
		Identity:  *ident,
		CreatedAt: now,
		ExpiresAt: now.Add(s.Config.SessionTTL),
	}
	if err := s.SessionRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(ident.UID, record.ID, s.Config.SessionTTL)
	if err != nil {
		return nil, err
	}

	session := models.NewSession(record.ID, ident, rolePtr, s.Roles.ListRoles(ctx))
	s.Logger.Info("User signed in",
		zap.String("user_id", ident.UID),
		zap.String("role", session.RoleName()),
	)
	return &AuthResponse{Token: token, Session: session}, nil
}

func (s *AuthServiceImpl) Resolve(ctx context.Context, sessionID, userID string) *models.Session {
	unauthenticated := models.NewSession("", nil, nil, nil)

	record, err := s.SessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.Logger.Warn("Failed to load session", zap.String("session_id", sessionID), zap.Error(err))
		}
		return unauthenticated
	}
	if record.UID != userID || !s.Now().Before(record.ExpiresAt) {
		return unauthenticated
	}

	var rolePtr *string
	if stored, err := s.Users.GetUser(ctx, userID); err != nil {
		s.Logger.Warn("Failed to load user role", zap.String("user_id", userID), zap.Error(err))
	} else {
		rolePtr = stored.Role
	}

	ident := record.Identity
	return models.NewSession(record.ID, &ident, rolePtr, s.Roles.ListRoles(ctx))
}

func (s *AuthServiceImpl) Logout(ctx context.Context, session *models.Session) string {
	if session != nil && session.ID != "" {
		if err := s.SessionRepo.Delete(ctx, session.ID); err != nil {
			s.Logger.Warn("Failed to delete session on logout", zap.String("session_id", session.ID), zap.Error(err))
		}
	}
	return s.Provider.EndSessionURL()
}

func (s *AuthServiceImpl) SetUserRole(ctx context.Context, session *models.Session, roleName string) (*models.Session, bool) {
	if !session.Authenticated() {
		return session, false
	}
	if !s.Config.AllowSelfRoleAssignment {
		s.Logger.Warn("Self-service role change refused", zap.String("user_id", session.Identity.UID))
		return session, false
	}
	if _, err := s.Roles.FindRole(ctx, roleName); err != nil {
		s.Logger.Warn("Unknown role requested", zap.String("role", roleName), zap.Error(err))
		return session, false
	}
	if err := s.Users.SetRole(ctx, session.Identity.UID, roleName); err != nil {
		s.Logger.Error("Failed to set user role",
			zap.String("user_id", session.Identity.UID), zap.String("role", roleName), zap.Error(err))
		return session, false
	}
	return session.WithRole(roleName), true
}
