package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"mineaction/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrAuthFailure):
		return fiber.StatusUnauthorized
	case errors.Is(err, models.ErrPermissionDenied):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrUploadFailed), errors.Is(err, models.ErrWriteFailed):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// RespondError writes {"error": ...} with the mapped status.
func RespondError(c *fiber.Ctx, err error) error {
	return c.Status(StatusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// CurrentSession returns the session placed in Locals by the auth middleware.
func CurrentSession(c *fiber.Ctx) *models.Session {
	s, _ := c.Locals(models.SessionKey).(*models.Session)
	return s
}

// RespondWrite answers a mutation. A partial failure still carries the
// committed result so the client can refresh.
func RespondWrite(c *fiber.Ctx, status int, result any, err error) error {
	switch {
	case errors.Is(err, models.ErrPartialFailure):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   err.Error(),
			"partial": true,
			"data":    result,
		})
	case err != nil:
		return RespondError(c, err)
	case result == nil:
		return c.SendStatus(status)
	}
	return c.Status(status).JSON(result)
}

// ParseFields reads a JSON object body as an ordered partial update.
func ParseFields(c *fiber.Ctx) (models.Fields, error) {
	var patch models.Fields
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: invalid request body", models.ErrInvalidInput)
	}
	return patch, nil
}
