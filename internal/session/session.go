package session

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	typAPI "github.com/zapshots/shots-console-api/internal/types"
	"github.com/zapshots/shots-console-api/pkg/auth"
	"github.com/zapshots/shots-console-api/pkg/log"
	"github.com/zapshots/shots-console-api/pkg/router"
	"github.com/zapshots/shots-console-api/pkg/upstream"
)

// Login
// @Summary     Authenticate Against the Messaging Backend
// @Description Exchange dashboard credentials for a session token
// @Tags        Session
// @Accept      json
// @Produce     json
// @Param       body body types.RequestLogin true "Credentials"
// @Success     200
// @Failure     400 {object} router.Response
// @Failure     401 {object} router.Response
// @Router      /auth/login [post]
func Login(c *fiber.Ctx) error {
	var req typAPI.RequestLogin
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.Login == "" || req.Pass == "" {
		return router.ResponseBadRequest(c, "login and pass are required")
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := upstream.Default.Login(ctx, req.Login, req.Pass)
	if err != nil {
		var ue *upstream.Error
		if errors.As(err, &ue) && ue.StatusCode < 500 {
			log.Print(c).WithField("login", req.Login).Warn("Login rejected by backend")
			return router.ResponseUnauthorized(c, "Invalid credentials")
		}
		log.Print(c).WithError(err).Error("Login request to backend failed")
		return router.ResponseUpstream(c, err)
	}

	token, err := auth.GenerateSessionToken(result.ID, req.Login, "", result.ID)
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to sign session token")
		return router.ResponseInternalError(c, "Failed to create session")
	}

	log.Print(c).WithField("user", result.ID).Info("Session opened")

	return router.ResponseSuccessWithData(c, "Login successful", fiber.Map{
		"token": token,
		"id":    result.ID,
	})
}

// Me
// @Summary     Describe the Current Session
// @Tags        Session
// @Produce     json
// @Success     200
// @Failure     401 {object} router.Response
// @Router      /auth/me [get]
func Me(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	data := fiber.Map{
		"id": userID,
	}
	if v, ok := c.Locals("user_name").(string); ok && v != "" {
		data["name"] = v
	}
	if v, ok := c.Locals("permission").(string); ok && v != "" {
		data["permission"] = v
	}

	// Tokens minted at login only carry the user id. Fill the gaps from
	// the backend user list so the dashboard can render the header.
	if data["name"] == nil || data["permission"] == nil {
		ctx := c.UserContext()
		if ctx == nil {
			ctx = context.Background()
		}
		if users, err := upstream.Default.ListUsers(ctx, auth.UpstreamKey(c)); err != nil {
			log.Print(c).WithError(err).Warn("Failed to resolve session user against backend")
		} else {
			for _, u := range users {
				if u.ID != userID {
					continue
				}
				if data["name"] == nil && u.Name != "" {
					data["name"] = u.Name
				}
				if data["permission"] == nil && u.Permission != "" {
					data["permission"] = u.Permission
				}
				break
			}
		}
	}

	return router.ResponseSuccessWithData(c, "Session active", data)
}
