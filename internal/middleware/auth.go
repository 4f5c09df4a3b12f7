package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/reachout-dev/reachout/internal/jwt"
)

// Key to store the caller's claims in the request context
type key int

const claimsKey key = 0

// Auth verifies the bearer access token and stores the decoded claims in the
// request context.
func Auth(jwtService jwt.JwtService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeUnauthorized(w, "Authorization header missing")
				return
			}

			claims, err := jwtService.DecodeAccess(token)
			if err != nil {
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaimsFromContext retrieves the caller's claims; nil when the request
// did not pass through Auth.
func GetClaimsFromContext(r *http.Request) *jwt.Claims {
	claims, ok := r.Context().Value(claimsKey).(*jwt.Claims)
	if !ok {
		return nil
	}
	return claims
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"status":  "fail",
		"message": message,
	})
}
