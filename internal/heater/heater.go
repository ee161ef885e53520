package heater

import (
	"context"

	"github.com/gofiber/fiber/v2"

	typAPI "github.com/zapshots/shots-console-api/internal/types"
	"github.com/zapshots/shots-console-api/pkg/auth"
	"github.com/zapshots/shots-console-api/pkg/log"
	"github.com/zapshots/shots-console-api/pkg/router"
	"github.com/zapshots/shots-console-api/pkg/upstream"
	"github.com/zapshots/shots-console-api/pkg/validation"
)

func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}

// List
// @Summary     List Warm-up Runs
// @Tags        Heater
// @Produce     json
// @Success     200
// @Router      /heaters [get]
func List(c *fiber.Ctx) error {
	items, err := upstream.Default.ListHeaters(requestContext(c), auth.UpstreamKey(c))
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to list warm-up runs")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success", items)
}

// Create
// @Summary     Start a Warm-up Run
// @Description Pair a heater connection with production connections for a timed warm-up
// @Tags        Heater
// @Accept      json
// @Produce     json
// @Param       body body types.RequestHeater true "Warm-up details"
// @Success     201
// @Failure     400 {object} router.Response
// @Router      /heaters [post]
func Create(c *fiber.Ctx) error {
	var req typAPI.RequestHeater
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.Name == "" {
		return router.ResponseBadRequest(c, "name is required")
	}
	if req.ConnectionHeater == "" {
		return router.ResponseBadRequest(c, "connectionHeater is required")
	}
	if len(req.ConnectionsSelect) == 0 {
		return router.ResponseBadRequest(c, "connectionsSelect must not be empty")
	}
	if req.Time != "" {
		if err := validation.ValidateTimeOfDay(req.Time); err != nil {
			return router.ResponseBadRequest(c, err.Error())
		}
	}

	created, err := upstream.Default.CreateHeater(requestContext(c), auth.UpstreamKey(c), upstream.CreateHeaterRequest{
		Name:              req.Name,
		ConnectionsSelect: req.ConnectionsSelect,
		ConnectionHeater:  req.ConnectionHeater,
		Time:              req.Time,
	})
	if err != nil {
		log.Print(c).WithField("heater", req.Name).WithError(err).Error("Failed to start warm-up run")
		return router.ResponseUpstream(c, err)
	}

	log.Print(c).WithField("heater", req.Name).Info("Warm-up run started")
	return router.ResponseCreatedWithData(c, "Warm-up started", created)
}

// Cancel
// @Summary     Cancel a Warm-up Run
// @Tags        Heater
// @Produce     json
// @Param       id path string true "Warm-up run id"
// @Success     200
// @Router      /heaters/{id}/cancel [put]
func Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := upstream.Default.CancelHeater(requestContext(c), auth.UpstreamKey(c), id); err != nil {
		log.Print(c).WithField("heater", id).WithError(err).Error("Failed to cancel warm-up run")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccess(c, "Warm-up canceled")
}
