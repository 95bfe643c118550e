package middleware

import (
	"github.com/gsaikumar-123/Personal-Finance-Assistant/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthRequired validates the session and stores the user identity in the
// request context. The token is read from the "token" cookie set at login;
// an Authorization header with a Bearer token is accepted as a fallback for
// non-browser clients.
func AuthRequired(jwtManager *auth.JWTManager, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("token")
		if token == "" {
			header := c.Get("Authorization")
			if len(header) > 7 && header[:7] == "Bearer " {
				token = header[7:]
			}
		}

		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Please login",
			})
		}

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			logger.Warn("Invalid token", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication failed",
			})
		}

		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)

		return c.Next()
	}
}
