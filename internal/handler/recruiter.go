package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/reachout-dev/reachout/internal/domain"
	internal_errors "github.com/reachout-dev/reachout/internal/errors"
	"github.com/reachout-dev/reachout/internal/middleware"
)

type recruiterRequest struct {
	Name    string `validate:"required" json:"name"`
	Company string `validate:"required" json:"company"`
	Email   string `validate:"required" json:"email"`
}

type recruiterResponse struct {
	Id            string     `json:"id"`
	Name          string     `json:"name"`
	Company       string     `json:"company"`
	Email         string     `json:"email"`
	ReachOutCount int        `json:"reachOutCount"`
	LastContactAt *time.Time `json:"lastContactAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	Status        string     `json:"status"`
}

func recruiterOf(recruiter domain.Recruiter) recruiterResponse {
	return recruiterResponse{
		Id:            recruiter.Id,
		Name:          recruiter.Name,
		Company:       recruiter.Company,
		Email:         recruiter.Email,
		ReachOutCount: recruiter.ReachOutCount,
		LastContactAt: recruiter.LastContactAt,
		CreatedAt:     recruiter.CreatedAt,
		Status:        string(recruiter.Status),
	}
}

func recruitersOf(recruiters []domain.Recruiter) []recruiterResponse {
	result := make([]recruiterResponse, 0, len(recruiters))
	for _, recruiter := range recruiters {
		result = append(result, recruiterOf(recruiter))
	}
	return result
}

func (h *Handler) ListRecruiters(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) CreateRecruiter(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r)

	var req recruiterRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	recruiter, err := h.recruiters.Add(domain.Recruiter{
		AccountId: claims.Id,
		Name:      req.Name,
		Company:   req.Company,
		Email:     req.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":   true,
		"recruiter": recruiterOf(recruiter),
	})
}

func (h *Handler) CreateRecruitersBulk(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r)

	// a JSON array can't go through validate.Struct; validate element-wise
	var reqs []recruiterRequest
	if err := decode(r.Body, &reqs); err != nil {
		writeError(w, err)
		return
	}
	for _, req := range reqs {
		if err := validate.Struct(req); err != nil {
			writeError(w, internal_errors.Validation("Required fields missing"))
			return
		}
	}

	recruiters := make([]domain.Recruiter, 0, len(reqs))
	for _, req := range reqs {
		recruiters = append(recruiters, domain.Recruiter{
			Name:    req.Name,
			Company: req.Company,
			Email:   req.Email,
		})
	}

	count, err := h.recruiters.AddMany(claims.Id, recruiters)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"count":   count,
	})
}

func (h *Handler) UpdateRecruiter(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r)

	var req recruiterRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	recruiter, err := h.recruiters.Update(domain.Recruiter{
		Id:        chi.URLParam(r, "recruiterId"),
		AccountId: claims.Id,
		Name:      req.Name,
		Company:   req.Company,
		Email:     req.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"recruiter": recruiterOf(recruiter),
	})
}

func (h *Handler) DeleteRecruiter(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r)

	if err := h.recruiters.Delete(claims.Id, chi.URLParam(r, "recruiterId")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Recruiter deleted",
	})
}
