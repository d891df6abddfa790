package middleware

import (
	"context"

	"mineaction/internal/common/models"
	"mineaction/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// SessionResolver rebuilds the session for a validated token.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID, userID string) *models.Session
}

// AuthMiddleware validates JWT tokens and injects the resolved session into context
func AuthMiddleware(resolver SessionResolver, skipAuth bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			// Inject dummy session for dev
			role := models.RoleAdmin
			dev := models.NewSession("dev-session", &models.Identity{
				UID:         "dev-admin-id",
				Email:       "dev@localhost",
				DisplayName: "Developer",
			}, &role, nil)
			setSession(c, dev)
			return c.Next()
		}

		// Already resolved by an enclosing group
		if existing, _ := c.Locals(models.SessionKey).(*models.Session); existing.Authenticated() {
			return c.Next()
		}

		claims, ok := bearerClaims(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Valid bearer token required",
			})
		}

		session := resolver.Resolve(c.UserContext(), claims.SessionID, claims.UserID)
		if !session.Authenticated() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Session expired or signed out",
			})
		}

		c.Locals(utils.UserClaimsKey, claims)
		setSession(c, session)
		return c.Next()
	}
}

// OptionalAuth resolves a session when a valid token is present and
// continues anonymously otherwise.
func OptionalAuth(resolver SessionResolver, skipAuth bool) fiber.Handler {
	strict := AuthMiddleware(resolver, skipAuth)
	return func(c *fiber.Ctx) error {
		if skipAuth {
			return strict(c)
		}
		claims, ok := bearerClaims(c)
		if ok {
			session := resolver.Resolve(c.UserContext(), claims.SessionID, claims.UserID)
			if session.Authenticated() {
				c.Locals(utils.UserClaimsKey, claims)
				setSession(c, session)
			}
		}
		return c.Next()
	}
}

func bearerClaims(c *fiber.Ctx) (*utils.UserClaims, bool) {
	authHeader := c.Get("Authorization")
	// Extract token from "Bearer <token>"
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return nil, false
	}
	claims, err := utils.ValidateToken(authHeader[7:])
	if err != nil {
		return nil, false
	}
	return claims, true
}

// setSession exposes the session both to handlers (Locals) and to services
// (the user context).
func setSession(c *fiber.Ctx, session *models.Session) {
	c.Locals(models.SessionKey, session)
	c.SetUserContext(models.WithSession(c.UserContext(), session))
}
