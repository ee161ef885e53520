package connections

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/zapshots/shots-console-api/pkg/upstream"
)

func TestSelectable(t *testing.T) {
	tests := []struct {
		name string
		conn upstream.Connection
		want bool
	}{
		{"open production", upstream.Connection{Status: "open"}, true},
		{"open heater", upstream.Connection{Status: "open", Heater: true}, false},
		{"closed", upstream.Connection{Status: "close"}, false},
		{"connecting", upstream.Connection{Status: "connecting"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Selectable(tc.conn); got != tc.want {
				t.Errorf("Selectable(%#v) = %v, want %v", tc.conn, got, tc.want)
			}
		})
	}
}

func TestListSelectableHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/listConnections/all" {
			t.Errorf("unexpected upstream path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": true, "code": 200,
			"data": []upstream.Connection{
				{InstanceName: "principal", Status: "open"},
				{InstanceName: "aquecendo", Status: "open", Heater: true},
				{InstanceName: "caiu", Status: "close"},
			},
		})
	}))
	t.Cleanup(srv.Close)
	upstream.Default.SetBaseURL(srv.URL)

	app := fiber.New()
	app.Get("/connections/selectable", ListSelectable)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/connections/selectable", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var env struct {
		Data []upstream.Connection `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	if len(env.Data) != 1 || env.Data[0].InstanceName != "principal" {
		t.Errorf("unexpected selectable connections: %#v", env.Data)
	}
}

func TestQRCodeHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": true, "code": 200,
			"data": map[string]string{"code": "2@pairing-code"},
		})
	}))
	t.Cleanup(srv.Close)
	upstream.Default.SetBaseURL(srv.URL)

	app := fiber.New()
	app.Get("/connections/:id/qrcode", QRCode)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/connections/abc/qrcode", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}
}
