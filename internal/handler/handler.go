package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/reachout-dev/reachout/internal/domain"
	internal_errors "github.com/reachout-dev/reachout/internal/errors"
	"github.com/reachout-dev/reachout/internal/logger"
	"github.com/reachout-dev/reachout/internal/service"
)

// EmailService is the slice of the dispatch engine the HTTP layer needs.
type EmailService interface {
	SendOne(ctx context.Context, accountId, recruiterId string, useAI bool) (domain.SendOutcome, error)
	SendBatch(ctx context.Context, accountId string) (domain.BatchSummary, error)
}

type Handler struct {
	auth       service.AuthService
	configs    service.ConfigurationService
	recruiters service.RecruiterService
	emails     EmailService
	pinger     Pinger
}

func New(auth service.AuthService, configs service.ConfigurationService, recruiters service.RecruiterService, emails EmailService) *Handler {
	return &Handler{auth: auth, configs: configs, recruiters: recruiters, emails: emails}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func decodeValidate(r io.ReadCloser, body any) error {
	if err := decode(r, body); err != nil {
		return err
	}
	if err := validate.Struct(body); err != nil {
		return internal_errors.Validation("Required fields missing")
	}
	return nil
}

func decode(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		return internal_errors.Validation("Body is invalid json")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

type errorBody struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// writeError maps the error taxonomy to a uniform JSON body: client errors
// report status "fail", everything else "error" with the detail hidden.
func writeError(w http.ResponseWriter, err error) {
	statusCode := internal_errors.StatusCode(err)
	body := errorBody{Status: "fail", Message: err.Error()}
	if statusCode >= http.StatusInternalServerError {
		logger.Log.Error("request failed", "error", err)
		body.Status = "error"
		body.Message = "Internal server error"
	}
	writeJSON(w, statusCode, body)
}
