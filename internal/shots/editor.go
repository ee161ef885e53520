package shots

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sunshineplan/imgconv"
	"golang.org/x/sync/errgroup"

	"github.com/zapshots/shots-console-api/internal/campaign"
	typAPI "github.com/zapshots/shots-console-api/internal/types"
	"github.com/zapshots/shots-console-api/pkg/auth"
	"github.com/zapshots/shots-console-api/pkg/log"
	"github.com/zapshots/shots-console-api/pkg/metrics"
	"github.com/zapshots/shots-console-api/pkg/router"
	"github.com/zapshots/shots-console-api/pkg/upstream"
	"github.com/zapshots/shots-console-api/pkg/validation"
)

// uploadConcurrency caps parallel uploads per attach request.
const uploadConcurrency = 4

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}

// normalizePNG re-encodes any image upload as PNG so the compiled
// message mimetype always matches the hosted file.
func normalizePNG(data []byte) ([]byte, error) {
	decoded, err := imgconv.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	encoded := new(bytes.Buffer)
	if err := imgconv.Write(encoded, decoded, &imgconv.FormatOption{Format: imgconv.PNG}); err != nil {
		return nil, err
	}
	return encoded.Bytes(), nil
}

func uploadAsset(ctx context.Context, key string, kind campaign.Kind, file *multipart.FileHeader) (campaign.MediaAsset, error) {
	data, err := readUpload(file)
	if err != nil {
		return campaign.MediaAsset{}, &campaign.UploadError{FileName: file.Filename, Err: err}
	}

	name := validation.SanitizeFileLabel(file.Filename)
	if err := validation.ValidateCaption(name); err != nil {
		return campaign.MediaAsset{}, &campaign.UploadError{FileName: file.Filename, Err: err}
	}
	if kind == campaign.KindImage {
		if data, err = normalizePNG(data); err != nil {
			return campaign.MediaAsset{}, &campaign.UploadError{FileName: file.Filename, Err: err}
		}
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
	}

	url, err := upstream.Default.SendDoc(ctx, key, name, data)
	if err != nil {
		return campaign.MediaAsset{}, &campaign.UploadError{FileName: file.Filename, Err: err}
	}

	return campaign.MediaAsset{Kind: kind, URL: url, Name: name}, nil
}

// Attach
// @Summary     Upload and Attach Media to a Variation
// @Description Upload files to the backend and register them on the message being edited
// @Tags        Editor
// @Accept      multipart/form-data
// @Produce     json
// @Param       kind formData string true "Media kind (image, video, audio, document)"
// @Param       variation formData int false "Variation index"
// @Param       variations formData string false "Editor state as JSON"
// @Param       files formData file true "Files to upload"
// @Success     200
// @Failure     400 {object} router.Response
// @Router      /shots/editor/attach [post]
func Attach(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return router.ResponseBadRequest(c, "Failed parse multipart form")
	}

	kind, err := campaign.ParseKind(c.FormValue("kind"))
	if err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	variationIdx := 0
	if raw := c.FormValue("variation"); raw != "" {
		if variationIdx, err = strconv.Atoi(raw); err != nil {
			return router.ResponseBadRequest(c, "variation must be an index")
		}
	}

	editor := campaign.NewEditor()
	if raw := c.FormValue("variations"); raw != "" {
		var variations []campaign.Variation
		if err := json.Unmarshal([]byte(raw), &variations); err != nil {
			return router.ResponseBadRequest(c, "Failed parse variations")
		}
		if len(variations) > 0 {
			editor.Variations = variations
		}
	}

	files := form.File["files"]
	if len(files) == 0 {
		return router.ResponseBadRequest(c, "at least one file is required")
	}

	ctx := requestContext(c)
	key := auth.UpstreamKey(c)

	// Uploads run concurrently, but assets and failures land indexed so
	// the attachment order matches the order the files were selected in.
	// A failed file is skipped on its own; its siblings still attach.
	assets := make([]campaign.MediaAsset, len(files))
	uploadErrs := make([]error, len(files))
	var g errgroup.Group
	g.SetLimit(uploadConcurrency)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			asset, err := uploadAsset(ctx, key, kind, file)
			if err != nil {
				metrics.Default.UploadsTotal.WithLabelValues(string(kind), "error").Inc()
				uploadErrs[i] = err
				return nil
			}
			metrics.Default.UploadsTotal.WithLabelValues(string(kind), "ok").Inc()
			assets[i] = asset
			return nil
		})
	}
	g.Wait()

	skipped := make([]fiber.Map, 0)
	attached := 0
	for i := range files {
		if uploadErrs[i] != nil {
			log.ShotOp(auth.UserID(c), "Attach").
				WithField("file", files[i].Filename).
				WithError(uploadErrs[i]).
				Warn("Upload failed, file skipped")
			skipped = append(skipped, fiber.Map{
				"fileName": files[i].Filename,
				"error":    uploadErrs[i].Error(),
			})
			continue
		}
		if err := editor.Attach(variationIdx, assets[i]); err != nil {
			return router.ResponseBadRequest(c, err.Error())
		}
		attached++
	}

	log.ShotOp(auth.UserID(c), "Attach").
		WithField("kind", string(kind)).
		WithField("attached", attached).
		WithField("skipped", len(skipped)).
		Info("Media attached")

	return router.ResponseSuccessWithData(c, "Media attached", fiber.Map{
		"variations": editor.Variations,
		"skipped":    skipped,
	})
}

// Detach
// @Summary     Remove an Attachment from a Variation
// @Description Drop the Nth attachment of a kind and strip its tag from the message
// @Tags        Editor
// @Accept      json
// @Produce     json
// @Param       body body types.RequestDetach true "Editor state and target"
// @Success     200
// @Failure     400 {object} router.Response
// @Router      /shots/editor/detach [post]
func Detach(c *fiber.Ctx) error {
	var req typAPI.RequestDetach
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}

	kind, err := campaign.ParseKind(req.Kind)
	if err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	editor := &campaign.Editor{Variations: req.Variations}
	if err := editor.Detach(req.Variation, kind, req.Occurrence); err != nil {
		return router.ResponseBadRequest(c, err.Error())
	}

	return router.ResponseSuccessWithData(c, "Media detached", editor)
}

// Preview
// @Summary     Compile the Editor Content Without Submitting
// @Description Resolve placeholders against the attached media and return the message steps
// @Tags        Editor
// @Accept      json
// @Produce     json
// @Param       body body types.RequestPreview true "Editor state"
// @Success     200
// @Router      /shots/editor/preview [post]
func Preview(c *fiber.Ctx) error {
	var req typAPI.RequestPreview
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}

	compiled := campaign.CompileCampaign(req.Variations, pickerFor(req.Seed))

	return router.ResponseSuccessWithData(c, "Preview compiled", fiber.Map{
		"messages": compiled,
	})
}
