package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localtable/recipedb/internal/services"
	"github.com/localtable/recipedb/internal/types"
	"gorm.io/gorm"
)

// AuthUser validates the Token header and loads the signed-in user into the
// request context under "user".
func AuthUser(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("Token")
		if token == "" {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Access denied. No token provided.",
				Type:    "auth.token.missing",
			}
		}

		user, err := services.GetUserByToken(db, token)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Access denied. Invalid token.",
				Type:    "auth.token.invalid",
			}
		}

		c.Locals("user", user)
		return c.Next()
	}
}
