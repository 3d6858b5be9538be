// Package http provides the HTTP handlers translating the REST surface into
// identity service calls.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avoronov/gotwis/internal/models"
)

// IdentityService defines the identity operations required by the HTTP
// handlers.
type IdentityService interface {
	// Register creates an account and returns its id and first secret.
	Register(ctx context.Context, username, password string) (int64, string, error)
	// Login verifies credentials and returns the current session secret.
	Login(ctx context.Context, username, password string) (string, error)
	// Logout invalidates the secret and returns the account's username.
	Logout(ctx context.Context, secret string) (string, error)
	// ChangePassword swaps the password and returns a fresh secret.
	ChangePassword(ctx context.Context, secret, oldPassword, newPassword string) (string, error)
	// ValidateSession resolves a secret to a user id.
	ValidateSession(ctx context.Context, secret string) (int64, bool, error)
}

// IdentityHandler handles HTTP requests for registration, login, logout,
// password change, and session validation.
type IdentityHandler struct {
	// Identity performs the underlying identity operations.
	Identity IdentityService
}

// credentialsRequest is the JSON payload for register and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authRequest is the JSON payload for logout.
type authRequest struct {
	Auth string `json:"auth"`
}

// passwordRequest is the JSON payload for a password change.
type passwordRequest struct {
	Auth        string `json:"auth"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Register handles account creation. It expects a JSON body with non-empty
// "username" and "password" fields and responds with the allocated user id
// and the first session secret.
func (h *IdentityHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	id, secret, err := h.Identity.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeIdentityError(w, err)
		return
	}

	writeJSON(w, map[string]any{
		"id":   id,
		"auth": secret,
	})
}

// Login handles credential verification and returns the account's current
// session secret.
func (h *IdentityHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	secret, err := h.Identity.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeIdentityError(w, err)
		return
	}

	writeJSON(w, map[string]string{"auth": secret})
}

// Logout invalidates the presented session secret.
func (h *IdentityHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Auth == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	username, err := h.Identity.Logout(r.Context(), req.Auth)
	if err != nil {
		writeIdentityError(w, err)
		return
	}

	writeJSON(w, map[string]string{"username": username})
}

// ChangePassword swaps the account password and returns the fresh session
// secret that replaces the presented one.
func (h *IdentityHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.Auth == "" || req.OldPassword == "" || req.NewPassword == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	secret, err := h.Identity.ChangePassword(r.Context(), req.Auth, req.OldPassword, req.NewPassword)
	if err != nil {
		writeIdentityError(w, err)
		return
	}

	writeJSON(w, map[string]string{"auth": secret})
}

// Session reports whether the secret in the X-Auth-Secret header currently
// authenticates, and for whom.
func (h *IdentityHandler) Session(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get("X-Auth-Secret")

	id, valid, err := h.Identity.ValidateSession(r.Context(), secret)
	if err != nil {
		writeIdentityError(w, err)
		return
	}

	resp := map[string]any{"valid": valid}
	if valid {
		resp["id"] = id
	}
	writeJSON(w, resp)
}

// writeJSON writes v as the JSON response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeIdentityError maps service errors onto HTTP status codes.
func writeIdentityError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrUsernameTaken):
		http.Error(w, "username already exists", http.StatusConflict)
	case errors.Is(err, models.ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, models.ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, models.ErrIncorrectOldPassword):
		http.Error(w, "incorrect old password", http.StatusBadRequest)
	case errors.Is(err, models.ErrConflict):
		http.Error(w, "store busy, retry", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
