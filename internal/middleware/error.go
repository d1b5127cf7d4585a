package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"stonearchive/internal/domain"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorHandler maps categorized domain errors to HTTP responses. Callers
// only ever see the plain-language message; wrapped internal causes are
// logged against the trace id.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"
	code := "INTERNAL_ERROR"

	var de *domain.Error
	if errors.As(err, &de) {
		message = de.Message
		code = string(de.Category)

		switch de.Category {
		case domain.CategoryValidation:
			status = fiber.StatusBadRequest
			if de.Kind == domain.KindSizeExceeded {
				status = fiber.StatusRequestEntityTooLarge
			}
			code = string(de.Kind)
		case domain.CategoryNotFound:
			status = fiber.StatusNotFound
		case domain.CategoryGeneration:
			status = fiber.StatusUnprocessableEntity
		case domain.CategoryTimeout:
			status = fiber.StatusGatewayTimeout
		case domain.CategoryStorage:
			status = fiber.StatusInternalServerError
		}
	} else if e, ok := err.(*fiber.Error); ok {
		status = e.Code
		message = e.Message
		code = "HTTP_ERROR"
	}

	traceID := uuid.New().String()[:8]
	if status >= 500 {
		log.Printf("[%s] %s %s: %v", traceID, c.Method(), c.Path(), err)
	}

	return c.Status(status).JSON(ErrorResponse{
		Code:    code,
		Message: message,
		TraceID: traceID,
	})
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}
