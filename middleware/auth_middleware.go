package middleware

import (
	config "github.com/learnsphere/backend/configs"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

func AdminRequired() fiber.Handler {
	return requireRole("admin")
}

func InstructorRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := claimString(c, "role")
		if role != "instructor" && role != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Instructor access required",
			})
		}
		return c.Next()
	}
}

func requireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claimString(c, "role") != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: " + role + " access required",
			})
		}
		return c.Next()
	}
}

func claimString(c *fiber.Ctx, key string) string {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	value, _ := claims[key].(string)
	return value
}

// CurrentUserID resolves the authenticated user's id from the JWT claims.
// Handlers pass the id into the services layer explicitly; nothing below
// the handlers reads ambient auth state.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	claims := token.Claims.(jwt.MapClaims)
	raw, _ := claims["user_id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return id, nil
}
