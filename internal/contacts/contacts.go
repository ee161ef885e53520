package contacts

import (
	"context"
	"io"

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
// @Summary     List Contact Lists
// @Tags        Contacts
// @Produce     json
// @Success     200
// @Router      /contacts [get]
func List(c *fiber.Ctx) error {
	lists, err := upstream.Default.ListContacts(requestContext(c), auth.UpstreamKey(c))
	if err != nil {
		log.Print(c).WithError(err).Error("Failed to list contact lists")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success", lists)
}

// Get
// @Summary     Fetch the Contacts of a List
// @Tags        Contacts
// @Produce     json
// @Param       listId path string true "Contact list id"
// @Success     200
// @Router      /contacts/{listId} [get]
func Get(c *fiber.Ctx) error {
	listID := c.Params("listId")
	list, err := upstream.Default.GetContactList(requestContext(c), auth.UpstreamKey(c), listID)
	if err != nil {
		log.Print(c).WithField("list", listID).WithError(err).Error("Failed to fetch contact list")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success", list)
}

// Upload
// @Summary     Import a Contacts Spreadsheet
// @Description Forward an uploaded contacts file to the backend under a list name
// @Tags        Contacts
// @Accept      multipart/form-data
// @Produce     json
// @Param       name path string true "New list name"
// @Param       file formData file true "Contacts file"
// @Success     201
// @Router      /contacts/{name} [post]
func Upload(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return router.ResponseBadRequest(c, "list name is required")
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

	result, err := upstream.Default.UploadContacts(requestContext(c), auth.UpstreamKey(c), name, file.Filename, data)
	if err != nil {
		log.Print(c).WithField("list", name).WithError(err).Error("Failed to import contacts")
		return router.ResponseUpstream(c, err)
	}

	log.Print(c).WithField("list", name).WithField("file", file.Filename).Info("Contacts imported")
	return router.ResponseCreatedWithData(c, "Contacts imported", result)
}

// DeleteByIDs
// @Summary     Remove Selected Contacts from a List
// @Tags        Contacts
// @Accept      json
// @Produce     json
// @Param       listId path string true "Contact list id"
// @Param       body body types.RequestDeleteContacts true "Contact ids to remove"
// @Success     200
// @Router      /contacts/{listId} [put]
func DeleteByIDs(c *fiber.Ctx) error {
	listID := c.Params("listId")

	var req typAPI.RequestDeleteContacts
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if len(req.IDsDelete) == 0 {
		return router.ResponseBadRequest(c, "idsDelete must not be empty")
	}

	if err := upstream.Default.DeleteContactsByIDs(requestContext(c), auth.UpstreamKey(c), listID, req.IDsDelete); err != nil {
		log.Print(c).WithField("list", listID).WithError(err).Error("Failed to delete contacts")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccess(c, "Contacts deleted")
}

// DeleteList
// @Summary     Remove a Whole Contact List
// @Tags        Contacts
// @Produce     json
// @Param       listId path string true "Contact list id"
// @Success     200
// @Router      /contacts/{listId} [delete]
func DeleteList(c *fiber.Ctx) error {
	listID := c.Params("listId")
	if err := upstream.Default.DeleteContactList(requestContext(c), auth.UpstreamKey(c), listID); err != nil {
		log.Print(c).WithField("list", listID).WithError(err).Error("Failed to delete contact list")
		return router.ResponseUpstream(c, err)
	}
	return router.ResponseSuccess(c, "Contact list deleted")
}
