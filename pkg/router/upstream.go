package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/zapshots/shots-console-api/pkg/upstream"
)

// ResponseUpstream maps an error from the messaging backend onto the
// closest response helper. Anything that is not a backend status error
// (timeouts, refused connections) surfaces as a bad gateway.
func ResponseUpstream(c *fiber.Ctx, err error) error {
	var ue *upstream.Error
	if errors.As(err, &ue) {
		switch {
		case ue.StatusCode == fiber.StatusUnauthorized:
			return ResponseUnauthorized(c, ue.Message)
		case ue.StatusCode == fiber.StatusNotFound:
			return ResponseNotFound(c, ue.Message)
		case ue.StatusCode >= 400 && ue.StatusCode < 500:
			return ResponseBadRequest(c, ue.Message)
		}
		return ResponseBadGateway(c, ue.Message)
	}
	return ResponseBadGateway(c, err.Error())
}
