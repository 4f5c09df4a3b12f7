package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/reachout-dev/reachout/internal/domain"
	"github.com/reachout-dev/reachout/internal/errors"
	"github.com/reachout-dev/reachout/internal/jwt"
	"github.com/reachout-dev/reachout/internal/logger"
	"github.com/reachout-dev/reachout/internal/mailer"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(name, email, password string) (domain.TokenPair, error)
	Login(email, password string) (domain.TokenPair, error)
	Refresh(refreshToken string) (domain.TokenPair, error)
}

type Auth struct {
	storage AuthStorage
	configs ConfigurationStorage
	jwt     jwt.JwtService
}

func NewAuth(storage AuthStorage, configs ConfigurationStorage, jwt jwt.JwtService) *Auth {
	return &Auth{storage: storage, configs: configs, jwt: jwt}
}

// Register creates an account and issues the first token pair.
func (a *Auth) Register(name, email, password string) (domain.TokenPair, error) {
	email = strings.ToLower(email)

	if err := mailer.ValidateAddress(email); err != nil {
		return domain.TokenPair{}, err
	}
	if name == "" {
		return domain.TokenPair{}, errors.Validation("Name is required")
	}
	if len(password) < 6 {
		return domain.TokenPair{}, errors.Validation("Password must be at least 6 characters")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.TokenPair{}, err
	}

	account, err := a.storage.SaveAccount(domain.Account{Name: name, Email: email, PassHash: string(passHash)})
	if err != nil {
		return domain.TokenPair{}, err
	}

	// a fresh account can't have a configuration yet
	return a.issuePair(account, false)
}

// Login checks the credentials and issues a fresh token pair.
// Not-found and wrong-password both map to the same 401 so existing accounts
// can't be enumerated.
func (a *Auth) Login(email, password string) (domain.TokenPair, error) {
	email = strings.ToLower(email)

	account, err := a.storage.AccountByEmail(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.TokenPair{}, errors.Unauthorized("Invalid credentials")
		}
		return domain.TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PassHash), []byte(password)); err != nil {
		logger.Log.Warn("password verification failed", "email", email)
		return domain.TokenPair{}, errors.Unauthorized("Invalid credentials")
	}

	return a.issuePair(account, a.hasConfiguration(account.Id))
}

// Refresh verifies the refresh token against both its signature and the
// stored hash, then rotates the pair.
func (a *Auth) Refresh(refreshToken string) (domain.TokenPair, error) {
	claims, err := a.jwt.DecodeRefresh(refreshToken)
	if err != nil {
		return domain.TokenPair{}, err
	}

	account, err := a.storage.AccountByID(claims.Id)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.TokenPair{}, errors.Unauthorized("Invalid refresh token")
		}
		return domain.TokenPair{}, err
	}

	if account.RefreshHash == "" || account.RefreshHash != hashToken(refreshToken) {
		return domain.TokenPair{}, errors.Unauthorized("Invalid refresh token")
	}

	return a.issuePair(account, a.hasConfiguration(account.Id))
}

func (a *Auth) issuePair(account domain.Account, hasConfigured bool) (domain.TokenPair, error) {
	pair, err := a.jwt.NewPair(account, hasConfigured)
	if err != nil {
		logger.Log.Error("failed to create token pair", "account_id", account.Id, "error", err)
		return domain.TokenPair{}, err
	}
	if err := a.storage.UpdateRefreshHash(account.Id, hashToken(pair.RefreshToken)); err != nil {
		return domain.TokenPair{}, err
	}
	return pair, nil
}

func (a *Auth) hasConfiguration(accountId string) bool {
	_, err := a.configs.Configuration(accountId)
	return err == nil
}

// hashToken stores refresh tokens as SHA-256 hex. bcrypt is unsuitable here:
// it rejects inputs over 72 bytes and JWTs are always longer.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
