package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/shiv90154/carrerpath-backend/services"
)

// serviceError translates an engine error into the structured boundary
// response: a stable kind plus a human message. Unknown errors become a 500
// without leaking internals.
func serviceError(c *fiber.Ctx, err error) error {
	kind := services.ErrorKind(err)

	var code int
	switch kind {
	case "NotFound":
		code = fiber.StatusNotFound
	case "DuplicateOrder", "InvalidTransition":
		code = fiber.StatusConflict
	case "NotEntitled":
		code = fiber.StatusForbidden
	case "ValidationError":
		code = fiber.StatusBadRequest
	default:
		log.Printf("[ERROR] %v | Path: %s", err, c.Path())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
			"kind":  "Internal",
		})
	}

	return c.Status(code).JSON(fiber.Map{"error": err.Error(), "kind": kind})
}

// authedUserID reads the caller id on routes behind Protected().
func authedUserID(c *fiber.Ctx) uuid.UUID {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	return userID
}

// optionalUserID reads the caller id on routes behind OptionalAuth(), where
// anonymous callers are allowed and come back as nil.
func optionalUserID(c *fiber.Ctx) *uuid.UUID {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return nil
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &userID
}
