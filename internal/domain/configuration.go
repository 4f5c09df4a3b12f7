package domain

import "time"

// Configuration holds the per-account SMTP and messaging settings.
// RateLimit is expressed as emails per minute.
type Configuration struct {
	Id           string
	AccountId    string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	EmailFrom    string
	EmailSubject string
	RateLimit    int
	UpdatedAt    time.Time
}

// Complete reports whether every field required to build a transport is set.
func (c Configuration) Complete() bool {
	return c.SMTPHost != "" && c.SMTPPort > 0 && c.SMTPUser != "" &&
		c.SMTPPass != "" && c.EmailFrom != "" && c.EmailSubject != "" && c.RateLimit > 0
}

// MinDelay converts the rate limit into the minimum delay between sends.
func (c Configuration) MinDelay() time.Duration {
	if c.RateLimit <= 0 {
		return 0
	}
	return time.Minute / time.Duration(c.RateLimit)
}
