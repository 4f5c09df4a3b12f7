package handler

import (
	"net/http"

	"github.com/reachout-dev/reachout/internal/domain"
)

type registerRequest struct {
	Name     string `validate:"required" json:"name"`
	Email    string `validate:"required" json:"email"`
	Password string `validate:"required" json:"password"`
}

type credentials struct {
	Email    string `validate:"required" json:"email"`
	Password string `validate:"required" json:"password"`
}

type refreshRequest struct {
	RefreshToken string `validate:"required" json:"refreshToken"`
}

type tokenResponse struct {
	Success      bool   `json:"success"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func tokensOf(pair domain.TokenPair) tokenResponse {
	return tokenResponse{Success: true, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokensOf(pair))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := decodeValidate(r.Body, &creds); err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.auth.Login(creds.Email, creds.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokensOf(pair))
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.auth.Refresh(req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokensOf(pair))
}

// AuthStatus is an unauthenticated liveness probe for the auth routes.
func (h *Handler) AuthStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Auth service is running",
	})
}
