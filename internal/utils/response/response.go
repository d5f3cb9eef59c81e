// Package response writes the JSON envelope every endpoint returns:
//
//	{ "ok": true, "message": "...", "data": ... }
//	{ "ok": false, "message": "...", "error": "..." }
package response

import (
	"encoding/json"
	"net/http"
)

// Response is the uniform envelope. Data and Error are omitted when unset.
type Response struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// WriteJSON writes data as JSON with the given status code.
//
// Header() must be set before WriteHeader(); headers are locked afterwards.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// Success builds an ok envelope. Pass nil data to omit the field.
func Success(message string, data any) Response {
	return Response{OK: true, Message: message, Data: data}
}

// Fail builds an error envelope carrying only a message.
func Fail(message string) Response {
	return Response{OK: false, Message: message}
}

// GeneralError builds an error envelope that echoes err in the error field.
// Use it for unexpected failures so the client sees what went wrong.
func GeneralError(message string, err error) Response {
	return Response{OK: false, Message: message, Error: err.Error()}
}
