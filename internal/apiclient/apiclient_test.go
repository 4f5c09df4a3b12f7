package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *APIClient) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, New(server.URL)
}

func TestLoginInstallsToken(t *testing.T) {
	var sawAuthHeader string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "user@example.com", creds["email"])
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success":      true,
				"accessToken":  "access-123",
				"refreshToken": "refresh-456",
			})
		case "/v1/recruiters":
			sawAuthHeader = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success":    true,
				"recruiters": []Recruiter{},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	pair, err := client.Login("user@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "access-123", pair.AccessToken)
	assert.Equal(t, "refresh-456", pair.RefreshToken)

	_, err = client.Recruiters()
	require.NoError(t, err)
	assert.Equal(t, "Bearer access-123", sawAuthHeader)
}

func TestDecodeSurfacesServerMessage(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"status":  "fail",
			"message": "Invalid credentials",
		})
	})

	_, err := client.Login("user@example.com", "wrong")
	require.Error(t, err)
	assert.EqualError(t, err, "Invalid credentials")
}

func TestDecodeFallsBackToStatusCode(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetConfig()
	require.Error(t, err)
	assert.EqualError(t, err, "request failed with status 502")
}

func TestConfigRoundTrip(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/config", r.URL.Path)
		switch r.Method {
		case http.MethodPost:
			var req ConfigRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "secret", req.SMTPPass)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"config": Config{
					Id:        "cfg-1",
					SMTPHost:  req.SMTPHost,
					SMTPPort:  req.SMTPPort,
					SMTPUser:  req.SMTPUser,
					EmailFrom: req.EmailFrom,
					RateLimit: req.RateLimit,
				},
			})
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"config":  Config{Id: "cfg-1", SMTPHost: "smtp.example.com"},
			})
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	})

	saved, err := client.SaveConfig(ConfigRequest{
		SMTPHost:  "smtp.example.com",
		SMTPPort:  587,
		SMTPUser:  "user@example.com",
		SMTPPass:  "secret",
		EmailFrom: "Jane Doe <user@example.com>",
		RateLimit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "cfg-1", saved.Id)

	got, err := client.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com", got.SMTPHost)
}

func TestRecruiterCRUD(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/recruiters/bulk" && r.Method == http.MethodPost:
			var reqs []RecruiterRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&reqs))
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "count": len(reqs)})
		case r.URL.Path == "/v1/recruiters" && r.Method == http.MethodPost:
			var req RecruiterRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success":   true,
				"recruiter": Recruiter{Id: "rec-1", Name: req.Name, Email: req.Email},
			})
		case r.URL.Path == "/v1/recruiters/rec-1" && r.Method == http.MethodDelete:
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "message": "Recruiter deleted"})
		default:
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})

	created, err := client.AddRecruiter(RecruiterRequest{Name: "Alex", Company: "Acme", Email: "alex@acme.com"})
	require.NoError(t, err)
	assert.Equal(t, "rec-1", created.Id)

	count, err := client.AddRecruitersBulk([]RecruiterRequest{
		{Name: "A", Company: "X", Email: "a@x.com"},
		{Name: "B", Company: "Y", Email: "b@y.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, client.DeleteRecruiter("rec-1"))
}

func TestSendOne(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/emails/rec-1", r.URL.Path)
		var req map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req["useAI"])
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":       true,
			"message":       "Email sent to alex@acme.com",
			"isAiGenerated": true,
		})
	})

	result, err := client.SendOne("rec-1", true)
	require.NoError(t, err)
	assert.True(t, result.IsAiGenerated)
	assert.Equal(t, "Email sent to alex@acme.com", result.Message)
}

func TestSendBatch(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/emails/send", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "Batch processing complete",
			"details": map[string]interface{}{
				"sent":   3,
				"failed": 1,
				"errors": []map[string]string{{"email": "bad@x.com", "error": "mailbox full"}},
			},
		})
	})

	details, err := client.SendBatch()
	require.NoError(t, err)
	assert.Equal(t, 3, details.Sent)
	assert.Equal(t, 1, details.Failed)
	require.Len(t, details.Errors, 1)
	assert.Equal(t, "bad@x.com", details.Errors[0].Email)
}

func TestSendAllIdle(t *testing.T) {
	recruiters := make([]Recruiter, 0, 12)
	for i := 0; i < 12; i++ {
		status := "Pending"
		if i%4 == 0 {
			status = "Sent"
		}
		recruiters = append(recruiters, Recruiter{
			Id:     fmt.Sprintf("rec-%d", i),
			Email:  fmt.Sprintf("r%d@x.com", i),
			Status: status,
		})
	}

	var inFlight, maxInFlight int64
	var mu sync.Mutex
	sent := map[string]bool{}

	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/recruiters":
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "recruiters": recruiters})
		case r.Method == http.MethodPost:
			current := atomic.AddInt64(&inFlight, 1)
			for {
				observed := atomic.LoadInt64(&maxInFlight)
				if current <= observed || atomic.CompareAndSwapInt64(&maxInFlight, observed, current) {
					break
				}
			}
			mu.Lock()
			sent[r.URL.Path] = true
			mu.Unlock()
			atomic.AddInt64(&inFlight, -1)
			if r.URL.Path == "/v1/emails/rec-5" {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "status": "error", "message": "Internal server error"})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "message": "sent", "isAiGenerated": false})
		default:
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})

	summary, err := client.SendAllIdle(false)
	require.NoError(t, err)

	// 12 recruiters, 3 already Sent, 9 idle, one of which fails.
	assert.Equal(t, 8, summary.Sent)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, "Internal server error", summary.Errors["r5@x.com"])
	assert.Len(t, sent, 9)
	assert.False(t, sent["/v1/emails/rec-0"])
	assert.LessOrEqual(t, maxInFlight, int64(batchSize))
}

func TestEmailStatus(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/emails/status", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    true,
			"recruiters": []Recruiter{{Id: "rec-1", Status: "Sent", ReachOutCount: 2}},
		})
	})

	recruiters, err := client.EmailStatus()
	require.NoError(t, err)
	require.Len(t, recruiters, 1)
	assert.Equal(t, 2, recruiters[0].ReachOutCount)
}
