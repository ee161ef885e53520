package upstream

import "encoding/json"

// Envelope is the response wrapper used by the messaging backend on
// every endpoint: {status, code, message, data}.
type Envelope struct {
	Status  bool            `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// LoginResult is the payload of a successful /login call.
type LoginResult struct {
	ID  string `json:"id"`
	Exp string `json:"exp"`
}

// User is an account record managed through the backend.
type User struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Permission string `json:"permission"`
}

// Connection is a WhatsApp session registered on the backend. Only
// connections with Status "open" are usable; heater connections are
// reserved for number warming and excluded from campaign sending.
type Connection struct {
	InstanceName string `json:"instanceName"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	Heater       bool   `json:"heater"`
}

// ContactList is the summary of an uploaded contact list, including the
// per-contact variables available for template substitution.
type ContactList struct {
	ID        string   `json:"_id"`
	Name      string   `json:"name"`
	Variables []string `json:"variables,omitempty"`
}

// UploadResult is the payload of a successful /sendDoc call.
type UploadResult struct {
	URL string `json:"url"`
}

// ConnectionStatus is the payload of /checkConnection/:id.
type ConnectionStatus struct {
	Status string `json:"status"`
}

// QRCodeResult carries the pairing code returned by /qrcodeConnection/:id.
type QRCodeResult struct {
	Code string `json:"code"`
}

// DashboardStats is the payload of /dashShots.
type DashboardStats struct {
	Total    int               `json:"total"`
	Media    float64           `json:"media"`
	Disparos int               `json:"disparos"`
	Tabel    []json.RawMessage `json:"tabel"`
	Grafico  []json.RawMessage `json:"grafico"`
}

// CreateUserRequest mirrors the backend's create-user body.
type CreateUserRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Pass       string `json:"pass"`
	Permission string `json:"permission"`
}

// CreateHeaterRequest mirrors the backend's heater body. Time is a
// duration shorthand like "2h" or "1d".
type CreateHeaterRequest struct {
	Name             string   `json:"name"`
	ConnectionsSelect []string `json:"connectionsSelect"`
	ConnectionHeater string   `json:"connectionHeater"`
	Time             string   `json:"time"`
}
