package middleware

import (
	"context"
	"strings"

	"coolcare-api/internal/adapters/persistence/models"
	"coolcare-api/internal/config"
	"coolcare-api/internal/pkg/jwt"
	"coolcare-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RoleResolver re-derives a caller's role from the backing store.
// Implemented by the profile repository.
type RoleResolver interface {
	IsAdmin(ctx context.Context, id string) (bool, error)
	ResolveRole(ctx context.Context, id string) (string, error)
}

// AuthMiddleware authenticates the request: bearer token (or cookie) must
// resolve to a valid session. Runs before any authorization or body
// parsing, so a missing credential is always a 401 regardless of payload.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set user info in context
		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// RoleMiddleware gates a route on the token's role claim. This mirrors the
// client-side route guard and is fine for non-privileged, user-scoped
// routes (dashboards); privileged routes must use AdminRequired instead,
// which does not trust the claim.
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminRequired authorizes provisioning and master-data mutations. The role
// is re-derived from the profiles table on every call: first the IsAdmin
// predicate, then a direct profile-role read when the predicate cannot
// answer. The role claim inside the token is ignored here. Runs after
// AuthMiddleware and before the handler touches the body.
func AdminRequired(resolver RoleResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userID").(string)
		if !ok || userID == "" {
			return response.Unauthorized(c, "Unauthorized")
		}

		isAdmin, err := resolver.IsAdmin(c.Context(), userID)
		if err != nil {
			// Predicate gave no definitive answer, fall back to the
			// profile role itself.
			role, rerr := resolver.ResolveRole(c.Context(), userID)
			if rerr != nil {
				return response.Forbidden(c, "Admin access required")
			}
			isAdmin = role == models.RoleAdmin
		}

		if !isAdmin {
			return response.Forbidden(c, "Admin access required")
		}

		return c.Next()
	}
}
