package apiclient

// TokenPair mirrors the backend's token response.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register creates an account and installs the returned access token.
func (c *APIClient) Register(name, email, password string) (TokenPair, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	resp, err := c.do("POST", "/v1/auth/register", body)
	if err != nil {
		return TokenPair{}, err
	}

	var pair TokenPair
	if err := decode(resp, &pair); err != nil {
		return TokenPair{}, err
	}
	c.SetToken(pair.AccessToken)
	return pair, nil
}

// Login authenticates and installs the returned access token.
func (c *APIClient) Login(email, password string) (TokenPair, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := c.do("POST", "/v1/auth/login", body)
	if err != nil {
		return TokenPair{}, err
	}

	var pair TokenPair
	if err := decode(resp, &pair); err != nil {
		return TokenPair{}, err
	}
	c.SetToken(pair.AccessToken)
	return pair, nil
}

// Refresh rotates the token pair.
func (c *APIClient) Refresh(refreshToken string) (TokenPair, error) {
	body := map[string]string{"refreshToken": refreshToken}
	resp, err := c.do("POST", "/v1/auth/refresh", body)
	if err != nil {
		return TokenPair{}, err
	}

	var pair TokenPair
	if err := decode(resp, &pair); err != nil {
		return TokenPair{}, err
	}
	c.SetToken(pair.AccessToken)
	return pair, nil
}
