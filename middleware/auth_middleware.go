package middleware

import (
	"errors"

	config "github.com/anjiri1684/pkl_sertifikasi/configs"
	"github.com/anjiri1684/pkl_sertifikasi/models"
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
			JSON(fiber.Map{"error": "Missing or malformed JWT", "kind": "authentication"})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"error": "Invalid or expired JWT", "kind": "authentication"})
}

var errNoClaims = errors.New("no authenticated user")

// CurrentUser reads the user id and role placed in Locals by Protected.
func CurrentUser(c *fiber.Ctx) (uuid.UUID, string, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, "", errNoClaims
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", errNoClaims
	}
	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", errNoClaims
	}
	role, _ := claims["role"].(string)
	return userID, role, nil
}

func requireRole(message string, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, role, err := CurrentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired JWT", "kind": "authentication"})
		}
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": message,
			"kind":  "authorization",
		})
	}
}

func AdminRequired() fiber.Handler {
	return requireRole("Forbidden: Admin access required", models.RoleAdmin)
}

// StaffRequired admits admins and assessors.
func StaffRequired() fiber.Handler {
	return requireRole("Forbidden: Admin or assessor access required", models.RoleAdmin, models.RoleAssessor)
}

func CandidateRequired() fiber.Handler {
	return requireRole("Forbidden: Candidate access required", models.RoleCandidate)
}
