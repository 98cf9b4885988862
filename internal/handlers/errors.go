package handlers

import (
	"errors"
	"fmt"

	"unimarket/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// statusForError maps the service error taxonomy to HTTP status codes.
// Errors matching no sentinel are infrastructure failures.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperrors.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, apperrors.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// errorJSON writes the standard error payload for a failed service call.
func errorJSON(c *fiber.Ctx, message string, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// validationErrorJSON writes the per-field payload for struct validation
// failures.
func validationErrorJSON(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// callerID extracts the authenticated user's ID placed in locals by the JWT
// middleware. An empty string means the request is unauthenticated.
func callerID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}
