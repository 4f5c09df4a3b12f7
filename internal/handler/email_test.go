package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reachout-dev/reachout/internal/domain"
	internal_errors "github.com/reachout-dev/reachout/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendEmailHandler(t *testing.T) {
	t.Run("successful ai request", func(t *testing.T) {
		emails := &MockEmailService{
			MockSendOne: func(ctx context.Context, accountId, recruiterId string, useAI bool) (domain.SendOutcome, error) {
				assert.Equal(t, "acc-1", accountId)
				assert.Equal(t, "r1", recruiterId)
				assert.True(t, useAI)
				return domain.SendOutcome{Email: "jane@acme.example", AIGenerated: true}, nil
			},
		}
		r := testRouter(New(&MockAuthService{}, &MockConfigurationService{}, &MockRecruiterService{}, emails))

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, createAuthedRequest(t, http.MethodPost, "/v1/emails/r1", []byte(`{"useAI": true}`)))

		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, true, body["isAiGenerated"])
		assert.Contains(t, body["message"], "jane@acme.example")
	})

	t.Run("empty body means static send", func(t *testing.T) {
		emails := &MockEmailService{
			MockSendOne: func(ctx context.Context, accountId, recruiterId string, useAI bool) (domain.SendOutcome, error) {
				assert.False(t, useAI)
				return domain.SendOutcome{Email: "jane@acme.example"}, nil
			},
		}
		r := testRouter(New(&MockAuthService{}, &MockConfigurationService{}, &MockRecruiterService{}, emails))

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, createAuthedRequest(t, http.MethodPost, "/v1/emails/r1", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, false, body["isAiGenerated"])
	})

	t.Run("missing configuration", func(t *testing.T) {
		emails := &MockEmailService{
			MockSendOne: func(ctx context.Context, accountId, recruiterId string, useAI bool) (domain.SendOutcome, error) {
				return domain.SendOutcome{}, internal_errors.NotFound("Email configuration not found")
			},
		}
		r := testRouter(New(&MockAuthService{}, &MockConfigurationService{}, &MockRecruiterService{}, emails))

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, createAuthedRequest(t, http.MethodPost, "/v1/emails/r1", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestSendBatchHandler(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		emails := &MockEmailService{
			MockSendBatch: func(ctx context.Context, accountId string) (domain.BatchSummary, error) {
				assert.Equal(t, "acc-1", accountId)
				return domain.BatchSummary{
					Sent:   2,
					Failed: 1,
					Errors: []domain.SendError{{Email: "bad@acme.example", Error: "mailbox unavailable"}},
				}, nil
			},
		}
		r := testRouter(New(&MockAuthService{}, &MockConfigurationService{}, &MockRecruiterService{}, emails))

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, createAuthedRequest(t, http.MethodPost, "/v1/emails/send", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		details := body["details"].(map[string]interface{})
		assert.Equal(t, float64(2), details["sent"])
		assert.Equal(t, float64(1), details["failed"])
		errors := details["errors"].([]interface{})
		require.Len(t, errors, 1)
	})

	t.Run("empty account", func(t *testing.T) {
		r := testRouter(New(&MockAuthService{}, &MockConfigurationService{}, &MockRecruiterService{}, &MockEmailService{}))

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, createAuthedRequest(t, http.MethodPost, "/v1/emails/send", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		details := body["details"].(map[string]interface{})
		assert.Equal(t, float64(0), details["sent"])
		assert.Equal(t, []interface{}{}, details["errors"])
	})
}

func TestEmailStatusHandler(t *testing.T) {
	recruiters := &MockRecruiterService{
		MockList: func(accountId string) ([]domain.Recruiter, error) {
			return []domain.Recruiter{
				{Id: "r1", Name: "Jane", Company: "Acme", Email: "jane@acme.example", ReachOutCount: 1, Status: domain.StatusSent},
			}, nil
		},
	}
	r := testRouter(New(&MockAuthService{}, &MockConfigurationService{}, recruiters, &MockEmailService{}))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, createAuthedRequest(t, http.MethodGet, "/v1/emails/status", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	list := body["recruiters"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "Sent", list[0].(map[string]interface{})["status"])
}
