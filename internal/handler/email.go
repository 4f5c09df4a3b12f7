package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/reachout-dev/reachout/internal/middleware"
)

type sendOneRequest struct {
	UseAI bool `json:"useAI"`
}

func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r)

	// the body is optional; an empty body means a static send
	var req sendOneRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decode(r.Body, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	outcome, err := h.emails.SendOne(r.Context(), claims.Id, chi.URLParam(r, "recruiterId"), req.UseAI)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"message":       "Email sent to " + outcome.Email,
		"isAiGenerated": outcome.AIGenerated,
	})
}

func (h *Handler) SendBatch(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r)

	summary, err := h.emails.SendBatch(r.Context(), claims.Id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Batch processing complete",
		"details": summary,
	})
}

// EmailStatus returns the caller's recruiter snapshot, the shape the legacy
// dashboard polls after triggering a batch.
func (h *Handler) EmailStatus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r)

	recruiters, err := h.recruiters.List(claims.Id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"recruiters": recruitersOf(recruiters),
	})
}
