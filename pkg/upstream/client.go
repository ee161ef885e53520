package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/zapshots/shots-console-api/pkg/env"
	"github.com/zapshots/shots-console-api/pkg/log"
	"github.com/zapshots/shots-console-api/pkg/metrics"
)

// Error carries the backend's failure verbatim. The console never
// retries submissions; the message is surfaced to the caller as-is.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("upstream HTTP %d", e.StatusCode)
}

// Client talks to the messaging backend. Every call forwards the
// session's Key header, mirroring how the dashboard authenticates.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Default is the process-wide client, configured from the environment.
var Default *Client

func init() {
	baseURL := env.GetEnvStringOrDefault("UPSTREAM_BASE_URL", "http://127.0.0.1:8443")
	timeout := env.GetEnvDurationOrDefault("UPSTREAM_TIMEOUT", 30*time.Second)
	rps := env.GetEnvIntOrDefault("UPSTREAM_RATE_LIMIT_RPS", 20)
	Default = NewClient(baseURL, timeout, rps)
}

func NewClient(baseURL string, timeout time.Duration, rps int) *Client {
	if rps <= 0 {
		rps = 20
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// SetBaseURL retargets the client, used by tests against httptest servers.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// Ping checks the backend is reachable. Any HTTP response counts; only
// transport failures are reported.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) request(ctx context.Context, method, path, key string, body any, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if key != "" {
		req.Header.Set("Key", key)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, method, path, result)
}

// operationLabel reduces a request path to its leading segment so
// metrics stay low-cardinality despite ids embedded in paths.
func operationLabel(path string) string {
	path = strings.TrimPrefix(path, "/")
	if idx := strings.IndexByte(path, '/'); idx >= 0 {
		path = path[:idx]
	}
	return path
}

func (c *Client) do(req *http.Request, method, path string, result any) error {
	op := operationLabel(path)
	metrics.Default.UpstreamCallsTotal.WithLabelValues(op).Inc()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.Default.UpstreamErrorsTotal.WithLabelValues(op).Inc()
		log.UpstreamOp(method, path).WithError(err).Error("Backend request failed")
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		if resp.StatusCode >= 400 {
			metrics.Default.UpstreamErrorsTotal.WithLabelValues(op).Inc()
			return &Error{StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 || (envelope.Code != 0 && envelope.Code >= 400) {
		metrics.Default.UpstreamErrorsTotal.WithLabelValues(op).Inc()
		return &Error{StatusCode: resp.StatusCode, Message: envelope.Message}
	}

	if result != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, result); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}

	return nil
}

// Login authenticates dashboard credentials against the backend.
func (c *Client) Login(ctx context.Context, login, pass string) (*LoginResult, error) {
	var result LoginResult
	body := map[string]string{"login": login, "pass": pass}
	if err := c.request(ctx, http.MethodPost, "/login", "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListUsers returns all backend accounts.
func (c *Client) ListUsers(ctx context.Context, key string) ([]User, error) {
	var users []User
	if err := c.request(ctx, http.MethodGet, "/users", key, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, key string, req CreateUserRequest) error {
	return c.request(ctx, http.MethodPost, "/create-user", key, req, nil)
}

func (c *Client) UpdateUser(ctx context.Context, key, id string, req CreateUserRequest) error {
	return c.request(ctx, http.MethodPut, "/update-user/"+url.PathEscape(id), key, req, nil)
}

func (c *Client) DeleteUser(ctx context.Context, key, id string) error {
	return c.request(ctx, http.MethodDelete, "/delete-user/"+url.PathEscape(id), key, nil, nil)
}

// ListShots returns campaign records verbatim for the dashboard table.
func (c *Client) ListShots(ctx context.Context, key string) ([]json.RawMessage, error) {
	var shots []json.RawMessage
	if err := c.request(ctx, http.MethodGet, "/listShots", key, nil, &shots); err != nil {
		return nil, err
	}
	return shots, nil
}

// CreateShot submits a compiled campaign payload.
func (c *Client) CreateShot(ctx context.Context, key string, payload any) (json.RawMessage, error) {
	var result json.RawMessage
	if err := c.request(ctx, http.MethodPost, "/shots", key, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateShot replaces an existing campaign's payload.
func (c *Client) UpdateShot(ctx context.Context, key, id string, payload any) (json.RawMessage, error) {
	var result json.RawMessage
	if err := c.request(ctx, http.MethodPut, "/shots/"+url.PathEscape(id), key, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ShotAction drives the campaign lifecycle: pause, resume, cancel.
func (c *Client) ShotAction(ctx context.Context, key, id, action string) (json.RawMessage, error) {
	var result json.RawMessage
	path := "/shooting/" + url.PathEscape(id) + "/" + url.PathEscape(action)
	if err := c.request(ctx, http.MethodPost, path, key, struct{}{}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SendDoc uploads a media file and returns its persisted URL.
func (c *Client) SendDoc(ctx context.Context, key, filename string, data []byte) (string, error) {
	raw, err := c.uploadMultipart(ctx, key, "/sendDoc", filename, data)
	if err != nil {
		return "", err
	}

	var result UploadResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decode upload result: %w", err)
	}
	if result.URL == "" {
		return "", &Error{StatusCode: http.StatusBadGateway, Message: "upload returned no file URL"}
	}
	return result.URL, nil
}

// ListConnections returns sessions for a scope: all, active or heater.
func (c *Client) ListConnections(ctx context.Context, key, scope string) ([]Connection, error) {
	var connections []Connection
	if err := c.request(ctx, http.MethodGet, "/listConnections/"+url.PathEscape(scope), key, nil, &connections); err != nil {
		return nil, err
	}
	return connections, nil
}

func (c *Client) CreateConnection(ctx context.Context, key, instanceName string, heater bool) (json.RawMessage, error) {
	var result json.RawMessage
	body := map[string]any{"instanceName": instanceName, "heater": heater}
	if err := c.request(ctx, http.MethodPost, "/createConnection", key, body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) DeleteConnection(ctx context.Context, key, id string) error {
	return c.request(ctx, http.MethodDelete, "/deleteConnection/"+url.PathEscape(id), key, nil, nil)
}

func (c *Client) CheckConnection(ctx context.Context, key, id string) (*ConnectionStatus, error) {
	var status ConnectionStatus
	if err := c.request(ctx, http.MethodGet, "/checkConnection/"+url.PathEscape(id), key, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) UpdateHeater(ctx context.Context, key, id string, heater bool) error {
	body := map[string]bool{"heater": heater}
	return c.request(ctx, http.MethodPut, "/updateHeater/"+url.PathEscape(id), key, body, nil)
}

func (c *Client) QRCodeConnection(ctx context.Context, key, id string) (*QRCodeResult, error) {
	var result QRCodeResult
	if err := c.request(ctx, http.MethodGet, "/qrcodeConnection/"+url.PathEscape(id), key, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DisconnectConnection(ctx context.Context, key, id string) error {
	return c.request(ctx, http.MethodPut, "/disconnectConnection/"+url.PathEscape(id), key, struct{}{}, nil)
}

// ListContacts returns all uploaded contact lists.
func (c *Client) ListContacts(ctx context.Context, key string) ([]ContactList, error) {
	var lists []ContactList
	if err := c.request(ctx, http.MethodGet, "/listContacts", key, nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (c *Client) GetContactList(ctx context.Context, key, listID string) (json.RawMessage, error) {
	var result json.RawMessage
	if err := c.request(ctx, http.MethodGet, "/contact/"+url.PathEscape(listID), key, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UploadContacts forwards a contact spreadsheet to the backend under a list name.
func (c *Client) UploadContacts(ctx context.Context, key, name, filename string, data []byte) (json.RawMessage, error) {
	return c.uploadMultipart(ctx, key, "/uploadContacts/"+url.PathEscape(name), filename, data)
}

func (c *Client) DeleteContactsByIDs(ctx context.Context, key, listID string, ids []string) error {
	body := map[string][]string{"idsDelete": ids}
	return c.request(ctx, http.MethodPut, "/deleteContactsByIds/"+url.PathEscape(listID), key, body, nil)
}

func (c *Client) DeleteContactList(ctx context.Context, key, listID string) error {
	return c.request(ctx, http.MethodDelete, "/deleteContact/"+url.PathEscape(listID), key, nil, nil)
}

// ListChecks returns number-validity check jobs.
func (c *Client) ListChecks(ctx context.Context, key string) ([]json.RawMessage, error) {
	var checks []json.RawMessage
	if err := c.request(ctx, http.MethodGet, "/listContactsCheck", key, nil, &checks); err != nil {
		return nil, err
	}
	return checks, nil
}

func (c *Client) UploadCheck(ctx context.Context, key, name, filename string, data []byte) (json.RawMessage, error) {
	return c.uploadMultipart(ctx, key, "/uploadContactsCheck/"+url.PathEscape(name), filename, data)
}

func (c *Client) CancelCheck(ctx context.Context, key, checkID string) error {
	return c.request(ctx, http.MethodPost, "/contactsCheck/"+url.PathEscape(checkID)+"/canceled", key, struct{}{}, nil)
}

// DownloadCheckCSV returns the check result spreadsheet verbatim.
func (c *Client) DownloadCheckCSV(ctx context.Context, key, checkID string) (json.RawMessage, error) {
	var result json.RawMessage
	if err := c.request(ctx, http.MethodGet, "/downloadCheckCSV/"+url.PathEscape(checkID), key, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListHeaters returns running number-warming routines.
func (c *Client) ListHeaters(ctx context.Context, key string) ([]json.RawMessage, error) {
	var heaters []json.RawMessage
	if err := c.request(ctx, http.MethodGet, "/heaterList", key, nil, &heaters); err != nil {
		return nil, err
	}
	return heaters, nil
}

func (c *Client) CreateHeater(ctx context.Context, key string, req CreateHeaterRequest) (json.RawMessage, error) {
	var result json.RawMessage
	if err := c.request(ctx, http.MethodPost, "/heater", key, req, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) CancelHeater(ctx context.Context, key, id string) error {
	return c.request(ctx, http.MethodPut, "/heaterCanceled/"+url.PathEscape(id), key, struct{}{}, nil)
}

// DashShots returns aggregated campaign stats for a date window.
func (c *Client) DashShots(ctx context.Context, key, start, end string) (*DashboardStats, error) {
	var stats DashboardStats
	body := map[string]string{"start": start, "end": end}
	if err := c.request(ctx, http.MethodPost, "/dashShots", key, body, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) uploadMultipart(ctx context.Context, key, path, filename string, data []byte) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Key", key)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result json.RawMessage
	if err := c.do(req, http.MethodPost, path, &result); err != nil {
		return nil, err
	}
	return result, nil
}
