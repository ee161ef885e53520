package shots

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/zapshots/shots-console-api/internal/campaign"
	typAPI "github.com/zapshots/shots-console-api/internal/types"
	"github.com/zapshots/shots-console-api/pkg/upstream"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Post("/shots/editor/attach", Attach)
	app.Post("/shots/editor/detach", Detach)
	app.Post("/shots/editor/preview", Preview)
	app.Post("/shots", Create)
	return app
}

type envelope struct {
	Status  bool            `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	return env
}

func jsonRequest(method, target string, body any) *http.Request {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// pointUpstreamAt retargets the shared client at a test server for the
// duration of one test.
func pointUpstreamAt(t *testing.T, handler http.Handler) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	upstream.Default.SetBaseURL(srv.URL)
}

func TestDetachHandler(t *testing.T) {
	app := newTestApp()

	req := jsonRequest(http.MethodPost, "/shots/editor/detach", typAPI.RequestDetach{
		Variations: []campaign.Variation{{
			Message: `oi {{imagem alt=""}} tchau`,
			Media:   []campaign.MediaAsset{{Kind: campaign.KindImage, URL: "https://cdn.test/1.png"}},
		}},
		Kind:       "image",
		Occurrence: 0,
	})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	var editor campaign.Editor
	if err := json.Unmarshal(env.Data, &editor); err != nil {
		t.Fatal(err)
	}
	if got := editor.Variations[0].Message; got != "oi tchau" {
		t.Errorf("message = %q, want %q", got, "oi tchau")
	}
	if len(editor.Variations[0].Media) != 0 {
		t.Errorf("media should be empty: %#v", editor.Variations[0].Media)
	}
}

func TestDetachHandlerUnknownKind(t *testing.T) {
	app := newTestApp()

	req := jsonRequest(http.MethodPost, "/shots/editor/detach", typAPI.RequestDetach{
		Variations: []campaign.Variation{{Message: "oi"}},
		Kind:       "gif",
	})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPreviewHandler(t *testing.T) {
	app := newTestApp()

	seed := int64(11)
	req := jsonRequest(http.MethodPost, "/shots/editor/preview", typAPI.RequestPreview{
		Variations: []campaign.Variation{{
			Message: `Olá{{quebra}}{{imagem alt="foto"}}`,
			Media:   []campaign.MediaAsset{{Kind: campaign.KindImage, URL: "https://cdn.test/1.png"}},
		}},
		Seed: &seed,
	})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	var data struct {
		Messages [][]campaign.MessageStep `json:"messages"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if len(data.Messages) != 1 || len(data.Messages[0]) != 2 {
		t.Fatalf("unexpected preview: %#v", data.Messages)
	}
	if data.Messages[0][1].FileURL != "https://cdn.test/1.png" {
		t.Errorf("media step did not resolve: %#v", data.Messages[0][1])
	}
}

func TestCreateHandlerValidation(t *testing.T) {
	app := newTestApp()

	req := jsonRequest(http.MethodPost, "/shots", typAPI.RequestShot{
		ConnectionsSelect: []string{"principal"},
		Variations:        []campaign.Variation{{Message: "oi"}},
		Config:            campaign.NewScheduleConfig(),
	})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	if !strings.Contains(env.Message, "contacts list") {
		t.Errorf("message = %q, want the missing contacts list reason", env.Message)
	}
}

func TestCreateHandler(t *testing.T) {
	var submitted campaign.CampaignPayload
	pointUpstreamAt(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shots" || r.Method != http.MethodPost {
			t.Errorf("unexpected upstream call: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&submitted); err != nil {
			t.Fatal(err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": true, "code": 200, "data": map[string]string{"_id": "shot-1"},
		})
	}))

	app := newTestApp()
	seed := int64(3)
	req := jsonRequest(http.MethodPost, "/shots", typAPI.RequestShot{
		Name:              "promo",
		ContactsID:        "lista-1",
		ConnectionsSelect: []string{"principal"},
		Variations: []campaign.Variation{{
			Message: `Olá {{nome}}{{quebra}}{{imagem alt="foto"}}`,
			Media:   []campaign.MediaAsset{{Kind: campaign.KindImage, URL: "https://cdn.test/1.png"}},
		}},
		Config: campaign.NewScheduleConfig(),
		Seed:   &seed,
	})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	if submitted.ContactsID != "lista-1" {
		t.Errorf("forwarded contactsId = %q", submitted.ContactsID)
	}
	if len(submitted.Messages) != 1 || len(submitted.Messages[0]) != 2 {
		t.Fatalf("forwarded messages: %#v", submitted.Messages)
	}
	if submitted.Config.StartTime != "00:00" {
		t.Errorf("immediate window not pinned: %#v", submitted.Config)
	}
	if submitted.Config.Start != campaign.StartImmediate {
		t.Errorf("start mode = %q, want %q", submitted.Config.Start, campaign.StartImmediate)
	}
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestAttachHandler(t *testing.T) {
	pointUpstreamAt(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sendDoc" {
			t.Errorf("unexpected upstream call: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": true, "code": 200, "data": map[string]string{"url": "https://cdn.test/up.png"},
		})
	}))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("kind", "image")
	writer.WriteField("variation", "0")
	variations, _ := json.Marshal([]campaign.Variation{{Message: "confira"}})
	writer.WriteField("variations", string(variations))
	part, err := writer.CreateFormFile("files", "foto.jpg")
	if err != nil {
		t.Fatal(err)
	}
	part.Write(testPNG(t))
	writer.Close()

	app := newTestApp()
	req := httptest.NewRequest(http.MethodPost, "/shots/editor/attach", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req, 10000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	data := decodeAttachData(t, env.Data)
	if len(data.Skipped) != 0 {
		t.Errorf("no file should be skipped: %#v", data.Skipped)
	}
	v := data.Variations[0]
	if len(v.Media) != 1 || v.Media[0].URL != "https://cdn.test/up.png" {
		t.Fatalf("unexpected media: %#v", v.Media)
	}
	if v.Media[0].Name != "foto.png" {
		t.Errorf("image label should be normalized to .png: %q", v.Media[0].Name)
	}
	if !strings.Contains(v.Message, `{{imagem alt=""}}`) {
		t.Errorf("message missing image tag: %q", v.Message)
	}
}

type attachData struct {
	Variations []campaign.Variation `json:"variations"`
	Skipped    []struct {
		FileName string `json:"fileName"`
		Error    string `json:"error"`
	} `json:"skipped"`
}

func decodeAttachData(t *testing.T, raw json.RawMessage) attachData {
	t.Helper()
	var data attachData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatal(err)
	}
	return data
}

func attachRequest(t *testing.T, kind string, names ...string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("kind", kind)
	writer.WriteField("variation", "0")
	for _, name := range names {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(testPNG(t))
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/shots/editor/attach", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestAttachHandlerSkipsFailedUpload(t *testing.T) {
	pointUpstreamAt(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatal(err)
		}
		name := r.MultipartForm.File["file"][0].Filename
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(name, "ruim") {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{
				"status": false, "code": 500, "message": "storage indisponível",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": true, "code": 200,
			"data": map[string]string{"url": "https://cdn.test/" + name},
		})
	}))

	app := newTestApp()
	resp, err := app.Test(attachRequest(t, "image", "boa.jpg", "ruim.jpg"), 10000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, a failed file must not fail the batch", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	data := decodeAttachData(t, env.Data)
	v := data.Variations[0]
	if len(v.Media) != 1 || v.Media[0].URL != "https://cdn.test/boa.png" {
		t.Fatalf("the surviving file should still attach: %#v", v.Media)
	}
	if got := strings.Count(v.Message, `{{imagem alt=""}}`); got != 1 {
		t.Errorf("expected 1 image tag for the attached file, got %d in %q", got, v.Message)
	}
	if len(data.Skipped) != 1 || data.Skipped[0].FileName != "ruim.jpg" {
		t.Fatalf("expected ruim.jpg to be reported skipped: %#v", data.Skipped)
	}
	if data.Skipped[0].Error == "" {
		t.Error("skipped entry should carry the failure reason")
	}
}

func TestAttachHandlerRejectsOverlongLabel(t *testing.T) {
	pointUpstreamAt(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("a file with an invalid label must never reach the backend: %s", r.URL.Path)
	}))

	app := newTestApp()
	name := strings.Repeat("a", 1100) + ".jpg"
	resp, err := app.Test(attachRequest(t, "image", name), 10000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	data := decodeAttachData(t, env.Data)
	if len(data.Variations[0].Media) != 0 {
		t.Errorf("nothing should attach: %#v", data.Variations[0].Media)
	}
	if len(data.Skipped) != 1 || data.Skipped[0].FileName != name {
		t.Fatalf("expected the overlong label to be skipped: %d entries", len(data.Skipped))
	}
}
