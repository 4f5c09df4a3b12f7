package handler

import (
	"net/http"
	"time"

	"github.com/reachout-dev/reachout/internal/domain"
	"github.com/reachout-dev/reachout/internal/middleware"
)

// configRequest keeps the legacy uppercase field names the dashboard sends.
type configRequest struct {
	SMTPHost     string `validate:"required" json:"SMTP_HOST"`
	SMTPPort     int    `validate:"required,gt=0" json:"SMTP_PORT"`
	SMTPUser     string `validate:"required" json:"SMTP_USER"`
	SMTPPass     string `validate:"required" json:"SMTP_PASS"`
	EmailFrom    string `validate:"required" json:"EMAIL_FROM"`
	EmailSubject string `validate:"required" json:"EMAIL_SUBJECT"`
	RateLimit    int    `validate:"required,gt=0" json:"EMAIL_RATE_LIMIT"`
}

type configResponse struct {
	Id           string    `json:"id"`
	SMTPHost     string    `json:"SMTP_HOST"`
	SMTPPort     int       `json:"SMTP_PORT"`
	SMTPUser     string    `json:"SMTP_USER"`
	EmailFrom    string    `json:"EMAIL_FROM"`
	EmailSubject string    `json:"EMAIL_SUBJECT"`
	RateLimit    int       `json:"EMAIL_RATE_LIMIT"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// configOf maps a configuration to its response shape. The SMTP password is
// write-only: it never leaves the server.
func configOf(cfg domain.Configuration) configResponse {
	return configResponse{
		Id:           cfg.Id,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUser:     cfg.SMTPUser,
		EmailFrom:    cfg.EmailFrom,
		EmailSubject: cfg.EmailSubject,
		RateLimit:    cfg.RateLimit,
		UpdatedAt:    cfg.UpdatedAt,
	}
}

func (req configRequest) toDomain(accountId string) domain.Configuration {
	return domain.Configuration{
		AccountId:    accountId,
		SMTPHost:     req.SMTPHost,
		SMTPPort:     req.SMTPPort,
		SMTPUser:     req.SMTPUser,
		SMTPPass:     req.SMTPPass,
		EmailFrom:    req.EmailFrom,
		EmailSubject: req.EmailSubject,
		RateLimit:    req.RateLimit,
	}
}

func (h *Handler) CreateConfig(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r)

	var req configRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	cfg, err := h.configs.Save(req.toDomain(claims.Id))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"config":  configOf(cfg),
	})
}

func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r)

	cfg, err := h.configs.Get(claims.Id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"config":  configOf(cfg),
	})
}

func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r)

	var req configRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	cfg, err := h.configs.Update(req.toDomain(claims.Id))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"config":  configOf(cfg),
	})
}
