package checks

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"

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
// @Summary     List Number Verification Batches
// @Tags        Checks
// @Produce     json
// @Success     200
// @Router      /checks [get]
func List(c *fiber.Ctx) error {
	items, err := upstream.Default.ListChecks(requestContext(c), auth.UpstreamKey(c))
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to list verification batches")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success", items)
}

// Upload
// @Summary     Start a Number Verification Batch
// @Tags        Checks
// @Accept      multipart/form-data
// @Produce     json
// @Param       name path string true "Batch name"
// @Param       file formData file true "Numbers file"
// @Success     201
// @Router      /checks/{name} [post]
func Upload(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return router.ResponseBadRequest(c, "batch name is required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return router.ResponseBadRequest(c, "file is required")
	}
	src, err := file.Open()
	if err != nil {
		return router.ResponseBadRequest(c, "Failed to read uploaded file")
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return router.ResponseBadRequest(c, "Failed to read uploaded file")
	}

	result, err := upstream.Default.UploadCheck(requestContext(c), auth.UpstreamKey(c), name, file.Filename, data)
	if err != nil {
		log.Print(c).WithField("batch", name).WithError(err).Error("Failed to start verification batch")
		return router.ResponseUpstream(c, err)
	}

	log.Print(c).WithField("batch", name).Info("Verification batch started")
	return router.ResponseCreatedWithData(c, "Verification started", result)
}

// Cancel
// @Summary     Cancel a Running Verification Batch
// @Tags        Checks
// @Produce     json
// @Param       id path string true "Batch id"
// @Success     200
// @Router      /checks/{id}/cancel [post]
func Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := upstream.Default.CancelCheck(requestContext(c), auth.UpstreamKey(c), id); err != nil {
		log.Print(c).WithField("batch", id).WithError(err).Error("Failed to cancel verification batch")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccess(c, "Verification canceled")
}

// DownloadCSV
// @Summary     Download the Verification Results
// @Tags        Checks
// @Produce     json
// @Param       id path string true "Batch id"
// @Success     200
// @Router      /checks/{id}/csv [get]
func DownloadCSV(c *fiber.Ctx) error {
	id := c.Params("id")
	result, err := upstream.Default.DownloadCheckCSV(requestContext(c), auth.UpstreamKey(c), id)
	if err != nil {
		log.Print(c).WithField("batch", id).WithError(err).Error("Failed to download verification results")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success", result)
}
