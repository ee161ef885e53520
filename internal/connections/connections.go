package connections

import (
	"context"

	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"

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

// Selectable reports whether a connection may carry campaign traffic.
// Heater connections are reserved for warm-up and never selectable.
func Selectable(conn upstream.Connection) bool {
	return conn.Status == "open" && !conn.Heater
}

var validScopes = map[string]bool{
	"all":    true,
	"active": true,
	"heater": true,
}

// List
// @Summary     List Connections by Scope
// @Tags        Connections
// @Produce     json
// @Param       scope path string true "all, active or heater"
// @Success     200
// @Router      /connections/{scope} [get]
func List(c *fiber.Ctx) error {
	scope := c.Params("scope", "all")
	if !validScopes[scope] {
		return router.ResponseBadRequest(c, "scope must be all, active or heater")
	}

	conns, err := upstream.Default.ListConnections(requestContext(c), auth.UpstreamKey(c), scope)
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to list connections")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success", conns)
}

// ListSelectable
// @Summary     List Connections Eligible for Campaigns
// @Description Open connections that are not running as heaters
// @Tags        Connections
// @Produce     json
// @Success     200
// @Router      /connections/selectable [get]
func ListSelectable(c *fiber.Ctx) error {
	conns, err := upstream.Default.ListConnections(requestContext(c), auth.UpstreamKey(c), "all")
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to list connections")
		return router.ResponseUpstream(c, err)
	}

	selectable := make([]upstream.Connection, 0, len(conns))
	for _, conn := range conns {
		if Selectable(conn) {
			selectable = append(selectable, conn)
		}
	}
	return router.ResponseSuccessWithData(c, "Success", selectable)
}

// Create
// @Summary     Register a New Connection Instance
// @Tags        Connections
// @Accept      json
// @Produce     json
// @Param       body body types.RequestCreateConnection true "Instance details"
// @Success     201
// @Router      /connections [post]
func Create(c *fiber.Ctx) error {
	var req typAPI.RequestCreateConnection
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.InstanceName == "" {
		return router.ResponseBadRequest(c, "instanceName is required")
	}

	created, err := upstream.Default.CreateConnection(requestContext(c), auth.UpstreamKey(c), req.InstanceName, req.Heater)
	if err != nil {
		log.Print(c).WithField("instance", req.InstanceName).WithError(err).Error("Failed to create connection")
		return router.ResponseUpstream(c, err)
	}

	log.Print(c).WithField("instance", req.InstanceName).WithField("heater", req.Heater).Info("Connection created")
	return router.ResponseCreatedWithData(c, "Connection created", created)
}

// Delete
// @Summary     Remove a Connection
// @Tags        Connections
// @Produce     json
// @Param       id path string true "Connection id"
// @Success     200
// @Router      /connections/{id} [delete]
func Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := upstream.Default.DeleteConnection(requestContext(c), auth.UpstreamKey(c), id); err != nil {
		log.Print(c).WithField("connection", id).WithError(err).Error("Failed to delete connection")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccess(c, "Connection deleted")
}

// Check
// @Summary     Probe a Connection's Status
// @Tags        Connections
// @Produce     json
// @Param       id path string true "Connection id"
// @Success     200
// @Router      /connections/{id}/status [get]
func Check(c *fiber.Ctx) error {
	id := c.Params("id")
	status, err := upstream.Default.CheckConnection(requestContext(c), auth.UpstreamKey(c), id)
	if err != nil {
		log.Print(c).WithField("connection", id).WithError(err).Error("Failed to check connection")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success", status)
}

// UpdateHeater
// @Summary     Toggle Heater Mode on a Connection
// @Tags        Connections
// @Accept      json
// @Produce     json
// @Param       id path string true "Connection id"
// @Success     200
// @Router      /connections/{id}/heater [put]
func UpdateHeater(c *fiber.Ctx) error {
	id := c.Params("id")

	var req struct {
		Heater bool `json:"heater"`
	}
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}

	if err := upstream.Default.UpdateHeater(requestContext(c), auth.UpstreamKey(c), id, req.Heater); err != nil {
		log.Print(c).WithField("connection", id).WithError(err).Error("Failed to update heater flag")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccess(c, "Heater flag updated")
}

// QRCode
// @Summary     Render the Pairing QR Code
// @Description Fetch the pairing code from the backend and render it as a PNG
// @Tags        Connections
// @Produce     png
// @Param       id path string true "Connection id"
// @Success     200
// @Router      /connections/{id}/qrcode [get]
func QRCode(c *fiber.Ctx) error {
	id := c.Params("id")

	result, err := upstream.Default.QRCodeConnection(requestContext(c), auth.UpstreamKey(c), id)
	if err != nil {
		log.Print(c).WithField("connection", id).WithError(err).Error("Failed to fetch pairing code")
		return router.ResponseUpstream(c, err)
	}
	if result.Code == "" {
		return router.ResponseNotFound(c, "No pairing code available")
	}

	png, err := qrcode.Encode(result.Code, qrcode.Medium, 256)
	if err != nil {
		log.Print(c).WithField("connection", id).WithError(err).Error("Failed to render QR code")
		return router.ResponseInternalError(c, "Failed to render QR code")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// Disconnect
// @Summary     Disconnect a Paired Session
// @Tags        Connections
// @Produce     json
// @Param       id path string true "Connection id"
// @Success     200
// @Router      /connections/{id}/disconnect [put]
func Disconnect(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := upstream.Default.DisconnectConnection(requestContext(c), auth.UpstreamKey(c), id); err != nil {
		log.Print(c).WithField("connection", id).WithError(err).Error("Failed to disconnect connection")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccess(c, "Connection disconnected")
}
