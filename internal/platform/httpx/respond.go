// Package httpx provides JSON request/response utilities.
package httpx

import (
	"encoding/json"
	"net/http"
)

// MessageResponse is the envelope every auth endpoint responds with. Token is
// present only on success.
type MessageResponse struct {
	Msg   string `json:"msg"`
	Token string `json:"token,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Message sends a `{msg}` response with the given status code.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, MessageResponse{Msg: msg})
}

// MessageToken sends a `{msg, token}` response with the given status code.
func MessageToken(w http.ResponseWriter, status int, msg, token string) {
	JSON(w, status, MessageResponse{Msg: msg, Token: token})
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
