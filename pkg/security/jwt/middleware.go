package jwt

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dmoreira/login-service/pkg/auth"
)

// Locals keys set by the middleware for downstream handlers.
const (
	LocalsUserID = "userId"
	LocalsClaims = "claims"
)

// RequireAuth returns a Fiber middleware that validates a Bearer JWT.
// requiredRole may be empty, in which case any authenticated user
// passes; otherwise the token's role claim must match exactly.
// On success the claims are stored in c.Locals for the handler.
func RequireAuth(gen *Generator, requiredRole auth.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr, ok := bearerToken(c.Get("Authorization"))
		if !ok {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "missing bearer token"})
		}
		claims, err := gen.Verify(tokenStr)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid or expired token"})
		}
		if requiredRole != "" && claims.Role != requiredRole {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{"message": "insufficient permissions"})
		}
		c.Locals(LocalsUserID, claims.Subject)
		c.Locals(LocalsClaims, claims)
		return c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Anything else counts as a missing token.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
