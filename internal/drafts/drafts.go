package drafts

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	typAPI "github.com/zapshots/shots-console-api/internal/types"
	"github.com/zapshots/shots-console-api/pkg/auth"
	"github.com/zapshots/shots-console-api/pkg/log"
	"github.com/zapshots/shots-console-api/pkg/router"
)

// DefaultStore is set during startup when DATABASE_URL is configured.
var DefaultStore *Store

func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}

func storeReady(c *fiber.Ctx) (*Store, error) {
	if DefaultStore == nil {
		return nil, router.ResponseInternalError(c, "Draft storage is not configured")
	}
	return DefaultStore, nil
}

// List
// @Summary     List the User's Saved Drafts
// @Tags        Drafts
// @Produce     json
// @Success     200
// @Router      /drafts [get]
func List(c *fiber.Ctx) error {
	store, errResp := storeReady(c)
	if store == nil {
		return errResp
	}

	items, err := store.List(requestContext(c), auth.UserID(c))
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to list drafts")
		return router.ResponseInternalError(c, "Failed to list drafts")
	}
	return router.ResponseSuccessWithData(c, "Success", items)
}

// Get
// @Summary     Fetch a Saved Draft
// @Tags        Drafts
// @Produce     json
// @Param       id path string true "Draft id"
// @Success     200
// @Failure     404 {object} router.Response
// @Router      /drafts/{id} [get]
func Get(c *fiber.Ctx) error {
	store, errResp := storeReady(c)
	if store == nil {
		return errResp
	}

	draft, err := store.Get(requestContext(c), auth.UserID(c), c.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return router.ResponseNotFound(c, "Draft not found")
	}
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to fetch draft")
		return router.ResponseInternalError(c, "Failed to fetch draft")
	}
	return router.ResponseSuccessWithData(c, "Success", draft)
}

func parseDraftBody(c *fiber.Ctx) (name string, payload json.RawMessage, err error) {
	var req typAPI.RequestDraft
	if err = c.BodyParser(&req); err != nil {
		return "", nil, errors.New("Failed parse body request")
	}
	if req.Name == "" {
		return "", nil, errors.New("name is required")
	}
	payload, err = json.Marshal(req)
	if err != nil {
		return "", nil, err
	}
	return req.Name, payload, nil
}

// Create
// @Summary     Save a New Draft
// @Tags        Drafts
// @Accept      json
// @Produce     json
// @Param       body body types.RequestDraft true "Draft content"
// @Success     201
// @Failure     400 {object} router.Response
// @Router      /drafts [post]
func Create(c *fiber.Ctx) error {
	store, errResp := storeReady(c)
	if store == nil {
		return errResp
	}

	name, payload, err := parseDraftBody(c)
	if err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	draft := &Draft{
		ID:      uuid.NewString(),
		UserID:  auth.UserID(c),
		Name:    name,
		Payload: payload,
	}
	if err := store.Create(requestContext(c), draft); err != nil {
		log.Print(c).WithError(err).Error("Failed to save draft")
		return router.ResponseInternalError(c, "Failed to save draft")
	}

	log.Print(c).WithField("draft", draft.ID).Info("Draft saved")
	return router.ResponseCreatedWithData(c, "Draft saved", draft)
}

// Update
// @Summary     Overwrite a Saved Draft
// @Tags        Drafts
// @Accept      json
// @Produce     json
// @Param       id path string true "Draft id"
// @Success     200
// @Failure     404 {object} router.Response
// @Router      /drafts/{id} [put]
func Update(c *fiber.Ctx) error {
	store, errResp := storeReady(c)
	if store == nil {
		return errResp
	}

	name, payload, err := parseDraftBody(c)
	if err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	draft := &Draft{
		ID:      c.Params("id"),
		UserID:  auth.UserID(c),
		Name:    name,
		Payload: payload,
	}
	err = store.Update(requestContext(c), draft)
	if errors.Is(err, ErrNotFound) {
		return router.ResponseNotFound(c, "Draft not found")
	}
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to update draft")
		return router.ResponseInternalError(c, "Failed to update draft")
	}
	return router.ResponseSuccessWithData(c, "Draft updated", draft)
}

// Delete
// @Summary     Remove a Saved Draft
// @Tags        Drafts
// @Produce     json
// @Param       id path string true "Draft id"
// @Success     200
// @Failure     404 {object} router.Response
// @Router      /drafts/{id} [delete]
func Delete(c *fiber.Ctx) error {
	store, errResp := storeReady(c)
	if store == nil {
		return errResp
	}

	err := store.Delete(requestContext(c), auth.UserID(c), c.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return router.ResponseNotFound(c, "Draft not found")
	}
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to delete draft")
		return router.ResponseInternalError(c, "Failed to delete draft")
	}
	return router.ResponseSuccess(c, "Draft deleted")
}
