package apiclient

import "time"

// Config mirrors the backend's configuration response; the SMTP password is
// write-only and never returned.
type Config struct {
	Id           string    `json:"id"`
	SMTPHost     string    `json:"SMTP_HOST"`
	SMTPPort     int       `json:"SMTP_PORT"`
	SMTPUser     string    `json:"SMTP_USER"`
	EmailFrom    string    `json:"EMAIL_FROM"`
	EmailSubject string    `json:"EMAIL_SUBJECT"`
	RateLimit    int       `json:"EMAIL_RATE_LIMIT"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ConfigRequest carries the full configuration, password included.
type ConfigRequest struct {
	SMTPHost     string `json:"SMTP_HOST"`
	SMTPPort     int    `json:"SMTP_PORT"`
	SMTPUser     string `json:"SMTP_USER"`
	SMTPPass     string `json:"SMTP_PASS"`
	EmailFrom    string `json:"EMAIL_FROM"`
	EmailSubject string `json:"EMAIL_SUBJECT"`
	RateLimit    int    `json:"EMAIL_RATE_LIMIT"`
}

type configResponse struct {
	Config Config `json:"config"`
}

func (c *APIClient) GetConfig() (Config, error) {
	resp, err := c.do("GET", "/v1/config", nil)
	if err != nil {
		return Config{}, err
	}
	var result configResponse
	if err := decode(resp, &result); err != nil {
		return Config{}, err
	}
	return result.Config, nil
}

func (c *APIClient) SaveConfig(req ConfigRequest) (Config, error) {
	resp, err := c.do("POST", "/v1/config", req)
	if err != nil {
		return Config{}, err
	}
	var result configResponse
	if err := decode(resp, &result); err != nil {
		return Config{}, err
	}
	return result.Config, nil
}

func (c *APIClient) UpdateConfig(req ConfigRequest) (Config, error) {
	resp, err := c.do("PUT", "/v1/config", req)
	if err != nil {
		return Config{}, err
	}
	var result configResponse
	if err := decode(resp, &result); err != nil {
		return Config{}, err
	}
	return result.Config, nil
}
