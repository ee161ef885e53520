package session

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	typAPI "github.com/zapshots/shots-console-api/internal/types"
	"github.com/zapshots/shots-console-api/pkg/auth"
	"github.com/zapshots/shots-console-api/pkg/upstream"
)

func loginRequest(login, pass string) *http.Request {
	raw, _ := json.Marshal(typAPI.RequestLogin{Login: login, Pass: pass})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestLoginIssuesToken(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret-key-for-session-tokens")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": true, "code": 200,
			"data": map[string]string{"id": "backend-key-1"},
		})
	}))
	t.Cleanup(srv.Close)
	upstream.Default.SetBaseURL(srv.URL)

	app := fiber.New()
	app.Post("/auth/login", Login)

	resp, err := app.Test(loginRequest("admin", "secret"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var env struct {
		Data struct {
			Token string `json:"token"`
			ID    string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	if env.Data.ID != "backend-key-1" {
		t.Errorf("id = %q", env.Data.ID)
	}
	if env.Data.Token == "" {
		t.Fatal("expected a session token")
	}

	claims, err := auth.ValidateSessionToken(env.Data.Token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UpstreamKey != "backend-key-1" {
		t.Errorf("upstream key = %q", claims.UpstreamKey)
	}
	if claims.UserName != "admin" {
		t.Errorf("user name = %q", claims.UserName)
	}
}

func TestLoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"status": false, "code": 401, "message": "invalid credentials",
		})
	}))
	t.Cleanup(srv.Close)
	upstream.Default.SetBaseURL(srv.URL)

	app := fiber.New()
	app.Post("/auth/login", Login)

	resp, err := app.Test(loginRequest("admin", "wrong"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestMeResolvesFromBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": true, "code": 200,
			"data": []map[string]string{
				{"_id": "user-1", "name": "Admin", "permission": "admin"},
				{"_id": "user-2", "name": "Other", "permission": "user"},
			},
		})
	}))
	t.Cleanup(srv.Close)
	upstream.Default.SetBaseURL(srv.URL)

	app := fiber.New()
	app.Get("/auth/me", func(c *fiber.Ctx) error {
		c.Locals("user_id", "user-1")
		c.Locals("upstream_key", "backend-key-1")
		return Me(c)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var env struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	if env.Data["name"] != "Admin" {
		t.Errorf("name = %q", env.Data["name"])
	}
	if env.Data["permission"] != "admin" {
		t.Errorf("permission = %q", env.Data["permission"])
	}
}

func TestLoginMissingFields(t *testing.T) {
	app := fiber.New()
	app.Post("/auth/login", Login)

	resp, err := app.Test(loginRequest("", ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
