package utils

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/mindsync/internal/types"
)

// MessageResponse is the body of every error and of bare acknowledgements
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse sends a {message} body with status
func ErrorResponse(c *fiber.Ctx, message string, status int) error {
	return c.Status(status).JSON(MessageResponse{Message: message})
}

// MessageOK sends a 200 {message} body
func MessageOK(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(MessageResponse{Message: message})
}

// ErrorHandler is the Fiber error handler. AppErrors keep their status and
// message, fiber errors keep their code, anything else is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	if appErr, ok := types.AsAppError(err); ok {
		status = appErr.Status()
		message = appErr.Message
	} else {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
			message = fiberErr.Message
		}
	}

	if status >= fiber.StatusInternalServerError {
		log.Printf("Error %d %s %s: %v", status, c.Method(), c.OriginalURL(), err)
	}

	return ErrorResponse(c, message, status)
}
