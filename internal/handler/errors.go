package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/React-ChatBotify/rag-api-sub000/internal/port"
)

// statusFromErr maps the service error taxonomy onto HTTP status codes.
// Store-not-ready and embedding failures are retriable-by-caller conditions,
// distinct from plain internal errors.
func statusFromErr(err error) int {
	switch {
	case errors.Is(err, port.ErrValidation), errors.Is(err, port.ErrInvalidRAGType):
		return fiber.StatusBadRequest
	case errors.Is(err, port.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, port.ErrStoreNotReady), errors.Is(err, port.ErrEmbedding):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, port.ErrUpstream):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes a JSON error response with the mapped status code.
func fail(c fiber.Ctx, err error) error {
	return c.Status(statusFromErr(err)).JSON(fiber.Map{"error": err.Error()})
}
