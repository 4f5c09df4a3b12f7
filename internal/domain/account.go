package domain

import "time"

type Account struct {
	Id          string
	Name        string
	Email       string
	PassHash    string
	RefreshHash string // SHA-256 hex of the current refresh token, empty until first issue
	CreatedAt   time.Time
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
