package middleware

import (
	"log"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/linkedin-scheduler/configs"
	"github.com/maheshrc27/linkedin-scheduler/pkg/utils"
)

type AuthMiddleware struct {
	cfg config.Config
}

func NewAuthMiddleware(cfg config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// AuthMiddleware accepts the session cookie or the same token as a bearer
// header, and stores the member id under "user_urn".
func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(m.cfg.CookieName)
		fromCookie := tokenString != ""
		if !fromCookie {
			tokenString = strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing token or cookie",
			})
		}

		claims, err := utils.ValidateToken(m.cfg.SecretKey, tokenString)
		if err != nil || claims.UserURN == "" {
			if fromCookie {
				c.Cookie(&fiber.Cookie{
					Name:   m.cfg.CookieName,
					Value:  "",
					Path:   "/",
					MaxAge: -1,
				})
			}

			log.Printf("Token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("user_urn", claims.UserURN)
		return c.Next()
	}
}

// RequireOperator limits a route to the configured publish operators. With no
// operators configured every authenticated member passes.
func (m *AuthMiddleware) RequireOperator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(m.cfg.PublishOperators) == 0 {
			return c.Next()
		}

		urn, _ := c.Locals("user_urn").(string)
		if !slices.Contains(m.cfg.PublishOperators, urn) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Not allowed to trigger publishing",
			})
		}
		return c.Next()
	}
}
