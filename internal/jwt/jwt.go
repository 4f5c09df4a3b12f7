package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/reachout-dev/reachout/internal/domain"
	internal_errors "github.com/reachout-dev/reachout/internal/errors"
	"github.com/reachout-dev/reachout/internal/logger"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims is the decoded token payload. HasConfigured is carried purely for
// client UI branching (whether the SMTP configuration dialog should open).
type Claims struct {
	Id            string
	Email         string
	Name          string
	Type          string
	HasConfigured bool
}

type JwtService interface {
	NewPair(account domain.Account, hasConfigured bool) (domain.TokenPair, error)
	DecodeAccess(jwtStr string) (*Claims, error)
	DecodeRefresh(jwtStr string) (*Claims, error)
}

// Jwt signs access and refresh tokens with separate secrets so a leaked
// refresh key cannot mint access tokens and vice versa.
type Jwt struct {
	accessKey  string
	refreshKey string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New(accessKey, refreshKey string, accessTTL, refreshTTL time.Duration) *Jwt {
	return &Jwt{accessKey, refreshKey, accessTTL, refreshTTL}
}

func (j *Jwt) NewPair(account domain.Account, hasConfigured bool) (domain.TokenPair, error) {
	access, err := j.newToken(account, hasConfigured, TypeAccess, j.accessKey, j.accessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := j.newToken(account, hasConfigured, TypeRefresh, j.refreshKey, j.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (j *Jwt) newToken(account domain.Account, hasConfigured bool, tokenType, key string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{}
	claims["id"] = account.Id
	claims["email"] = account.Email
	claims["name"] = account.Name
	claims["type"] = tokenType
	claims["has_configured"] = hasConfigured
	claims["exp"] = time.Now().Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(key))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", errors.New("can't create token")
	}

	return tokenString, nil
}

func (j *Jwt) DecodeAccess(jwtStr string) (*Claims, error) {
	return j.decode(jwtStr, TypeAccess, j.accessKey)
}

func (j *Jwt) DecodeRefresh(jwtStr string) (*Claims, error) {
	return j.decode(jwtStr, TypeRefresh, j.refreshKey)
}

func (j *Jwt) decode(jwtStr, wantType, key string) (*Claims, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		// Verify signing algorithm
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &internal_errors.ErrorWithStatusCode{Message: fmt.Sprintf("Unexpected signing method: %v", token.Header["alg"]), StatusCode: http.StatusUnauthorized}
		}
		return []byte(key), nil
	})
	if err != nil {
		return nil, internal_errors.Unauthorized("Invalid token signature")
	}
	if !token.Valid {
		return nil, internal_errors.Unauthorized("Invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, internal_errors.Unauthorized("Invalid token claims")
	}
	claims, err := claimsFromMap(mapClaims)
	if err != nil {
		return nil, err
	}
	if claims.Type != wantType {
		return nil, internal_errors.Unauthorized("Invalid token type")
	}
	return claims, nil
}

func claimsFromMap(m jwt.MapClaims) (*Claims, error) {
	id, ok := m["id"].(string)
	if !ok {
		return nil, internal_errors.Unauthorized("Invalid token claims")
	}
	email, ok := m["email"].(string)
	if !ok {
		return nil, internal_errors.Unauthorized("Invalid token claims")
	}
	tokenType, ok := m["type"].(string)
	if !ok {
		return nil, internal_errors.Unauthorized("Invalid token claims")
	}
	name, _ := m["name"].(string)
	hasConfigured, _ := m["has_configured"].(bool)
	return &Claims{
		Id:            id,
		Email:         email,
		Name:          name,
		Type:          tokenType,
		HasConfigured: hasConfigured,
	}, nil
}
