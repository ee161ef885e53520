package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// HttpErrorHandler funnels unhandled fiber errors into the standard
// response envelope so every failure leaves the API in one shape.
func HttpErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	response := &Response{
		Status:  false,
		Code:    code,
		Message: message,
		Error:   message,
	}
	logError(c, code, message)
	return c.Status(code).JSON(response)
}
