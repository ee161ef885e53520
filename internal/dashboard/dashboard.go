package dashboard

import (
	"context"
	"time"

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

const dateLayout = "2006-01-02"

// Connections
// @Summary     Active Connections for the Dashboard Header
// @Tags        Dashboard
// @Produce     json
// @Success     200
// @Router      /dashboard/connections [get]
func Connections(c *fiber.Ctx) error {
	conns, err := upstream.Default.ListConnections(requestContext(c), auth.UpstreamKey(c), "active")
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to list active connections")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success", conns)
}

// Shots
// @Summary     Campaign Statistics for a Date Range
// @Description Totals, per-campaign rows and the daily delivery series. Defaults to the last 30 days.
// @Tags        Dashboard
// @Accept      json
// @Produce     json
// @Param       body body types.RequestDashRange false "Date range (YYYY-MM-DD)"
// @Success     200
// @Failure     400 {object} router.Response
// @Router      /dashboard/shots [post]
func Shots(c *fiber.Ctx) error {
	var req typAPI.RequestDashRange
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return router.ResponseBadRequest(c, "Failed parse body request")
		}
	}

	now := time.Now()
	if req.Start == "" {
		req.Start = now.AddDate(0, 0, -30).Format(dateLayout)
	}
	if req.End == "" {
		req.End = now.Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, req.Start); err != nil {
		return router.ResponseBadRequest(c, "start must be YYYY-MM-DD")
	}
	if _, err := time.Parse(dateLayout, req.End); err != nil {
		return router.ResponseBadRequest(c, "end must be YYYY-MM-DD")
	}

	stats, err := upstream.Default.DashShots(requestContext(c), auth.UpstreamKey(c), req.Start, req.End)
	if err != nil {
		log.Print(c).WithField("start", req.Start).WithField("end", req.End).WithError(err).Error("Failed to fetch dashboard stats")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success", stats)
}
