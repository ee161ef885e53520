package shots

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/zapshots/shots-console-api/internal/campaign"
	typAPI "github.com/zapshots/shots-console-api/internal/types"
	"github.com/zapshots/shots-console-api/pkg/auth"
	"github.com/zapshots/shots-console-api/pkg/log"
	"github.com/zapshots/shots-console-api/pkg/metrics"
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

func pickerFor(seed *int64) campaign.Picker {
	if seed != nil {
		return campaign.NewSeededPicker(*seed)
	}
	return campaign.NewPicker()
}

// compile turns a shot request into a backend payload, surfacing
// validation problems as bad requests.
func compile(req *typAPI.RequestShot) (*campaign.CampaignPayload, error) {
	editor := &campaign.Editor{Variations: req.Variations}
	return campaign.BuildPayload(editor, req.ContactsID, req.ConnectionsSelect, req.Config, pickerFor(req.Seed))
}

type shotBody struct {
	Name string `json:"name,omitempty"`
	*campaign.CampaignPayload
}

// List
// @Summary     List Campaigns
// @Tags        Shots
// @Produce     json
// @Success     200
// @Router      /shots [get]
func List(c *fiber.Ctx) error {
	items, err := upstream.Default.ListShots(requestContext(c), auth.UpstreamKey(c))
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to list campaigns")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success", items)
}

// Create
// @Summary     Compile and Submit a Campaign
// @Tags        Shots
// @Accept      json
// @Produce     json
// @Param       body body types.RequestShot true "Campaign content"
// @Success     201
// @Failure     400 {object} router.Response
// @Router      /shots [post]
func Create(c *fiber.Ctx) error {
	var req typAPI.RequestShot
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}

	payload, err := compile(&req)
	if err != nil {
		var ve *campaign.ValidationError
		if errors.As(err, &ve) {
			log.ShotOp(auth.UserID(c), "Create").WithField("reason", string(ve.Kind)).Warn("Campaign rejected")
			return router.ResponseBadRequest(c, ve.Error())
		}
		return router.ResponseBadRequest(c, err.Error())
	}
	metrics.Default.ShotsCompiledTotal.Inc()

	created, err := upstream.Default.CreateShot(requestContext(c), auth.UpstreamKey(c), shotBody{req.Name, payload})
	if err != nil {
		log.ShotOp(auth.UserID(c), "Create").WithError(err).Error("Failed to submit campaign")
		return router.ResponseUpstream(c, err)
	}

	log.ShotOp(auth.UserID(c), "Create").
		WithField("contacts", payload.ContactsID).
		WithField("connections", len(payload.ConnectionsSelect)).
		WithField("variations", len(payload.Messages)).
		Info("Campaign submitted")

	return router.ResponseCreatedWithData(c, "Campaign created", created)
}

// Update
// @Summary     Recompile and Update a Campaign
// @Tags        Shots
// @Accept      json
// @Produce     json
// @Param       id path string true "Campaign id"
// @Success     200
// @Failure     400 {object} router.Response
// @Router      /shots/{id} [put]
func Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var req typAPI.RequestShot
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}

	payload, err := compile(&req)
	if err != nil {
		var ve *campaign.ValidationError
		if errors.As(err, &ve) {
			return router.ResponseBadRequest(c, ve.Error())
		}
		return router.ResponseBadRequest(c, err.Error())
	}
	metrics.Default.ShotsCompiledTotal.Inc()

	updated, err := upstream.Default.UpdateShot(requestContext(c), auth.UpstreamKey(c), id, shotBody{req.Name, payload})
	if err != nil {
		log.ShotOp(auth.UserID(c), "Update").WithField("shot", id).WithError(err).Error("Failed to update campaign")
		return router.ResponseUpstream(c, err)
	}

	log.ShotOp(auth.UserID(c), "Update").WithField("shot", id).Info("Campaign updated")
	return router.ResponseSuccessWithData(c, "Campaign updated", updated)
}

// Action
// @Summary     Control a Running Campaign
// @Description Forward a lifecycle action (play, pause, canceled) to the backend
// @Tags        Shots
// @Produce     json
// @Param       id path string true "Campaign id"
// @Param       action path string true "Lifecycle action"
// @Success     200
// @Router      /shots/{id}/{action} [post]
func Action(c *fiber.Ctx) error {
	id := c.Params("id")
	action := c.Params("action")
	if id == "" || action == "" {
		return router.ResponseBadRequest(c, "id and action are required")
	}

	result, err := upstream.Default.ShotAction(requestContext(c), auth.UpstreamKey(c), id, action)
	if err != nil {
		log.ShotOp(auth.UserID(c), "Action").WithField("shot", id).WithField("action", action).WithError(err).Error("Failed to control campaign")
		return router.ResponseUpstream(c, err)
	}

	log.ShotOp(auth.UserID(c), "Action").WithField("shot", id).WithField("action", action).Info("Campaign action applied")
	return router.ResponseSuccessWithData(c, "Action applied", result)
}
