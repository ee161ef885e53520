package users

import (
	"context"

	"github.com/gofiber/fiber/v2"

	typAPI "github.com/zapshots/shots-console-api/internal/types"
	"github.com/zapshots/shots-console-api/pkg/auth"
	"github.com/zapshots/shots-console-api/pkg/log"
	"github.com/zapshots/shots-console-api/pkg/router"
	"github.com/zapshots/shots-console-api/pkg/upstream"
)

func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}

// List
// @Summary     List Dashboard Users
// @Tags        Users
// @Produce     json
// @Success     200
// @Router      /users [get]
func List(c *fiber.Ctx) error {
	items, err := upstream.Default.ListUsers(requestContext(c), auth.UpstreamKey(c))
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to list users")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success", items)
}

// Create
// @Summary     Create a Dashboard User
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       body body types.RequestUser true "User details"
// @Success     201
// @Failure     400 {object} router.Response
// @Router      /users [post]
func Create(c *fiber.Ctx) error {
	var req typAPI.RequestUser
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.Name == "" || req.Email == "" || req.Pass == "" {
		return router.ResponseBadRequest(c, "name, email and pass are required")
	}

	err := upstream.Default.CreateUser(requestContext(c), auth.UpstreamKey(c), upstream.CreateUserRequest{
		Name:       req.Name,
		Email:      req.Email,
		Pass:       req.Pass,
		Permission: req.Permission,
	})
	if err != nil {
		log.Print(c).WithField("email", req.Email).WithError(err).Error("Failed to create user")
		return router.ResponseUpstream(c, err)
	}

	log.Print(c).WithField("email", req.Email).Info("User created")
	return router.ResponseCreated(c, "User created")
}

// Update
// @Summary     Update a Dashboard User
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       id path string true "User id"
// @Success     200
// @Router      /users/{id} [put]
func Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var req typAPI.RequestUser
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}

	err := upstream.Default.UpdateUser(requestContext(c), auth.UpstreamKey(c), id, upstream.CreateUserRequest{
		Name:       req.Name,
		Email:      req.Email,
		Pass:       req.Pass,
		Permission: req.Permission,
	})
	if err != nil {
		log.Print(c).WithField("user", id).WithError(err).Error("Failed to update user")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccess(c, "User updated")
}

// Delete
// @Summary     Remove a Dashboard User
// @Tags        Users
// @Produce     json
// @Param       id path string true "User id"
// @Success     200
// @Router      /users/{id} [delete]
func Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == auth.UserID(c) {
		return router.ResponseBadRequest(c, "cannot delete the active session user")
	}

	if err := upstream.Default.DeleteUser(requestContext(c), auth.UpstreamKey(c), id); err != nil {
		log.Print(c).WithField("user", id).WithError(err).Error("Failed to delete user")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccess(c, "User deleted")
}
