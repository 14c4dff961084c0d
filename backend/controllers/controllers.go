package controllers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"academy/backend/services/progression"
)

var validate = validator.New()

// currentUserID reads the user ID placed in locals by the auth middleware.
func currentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userID").(uint)
	return userID, ok
}

// serviceError maps progression engine errors onto HTTP responses.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, progression.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, progression.ErrInvalidState):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, progression.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Concurrent update, please retry",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not process request",
		})
	}
}

// validationDetails flattens validator errors into a field -> message map.
func validationDetails(err error) map[string]string {
	details := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details[strings.ToLower(fe.Field())] = "failed on " + fe.Tag()
		}
	}
	return details
}
