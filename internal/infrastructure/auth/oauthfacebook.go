package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"

	"authrelay/internal/shared/config"
)

type FacebookOAuthClient struct {
	config *oauth2.Config
}

type facebookUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

func NewFacebookOAuthClient(cfg config.FacebookOAuthConfig) *FacebookOAuthClient {
	return &FacebookOAuthClient{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"email"},
			Endpoint:     facebook.Endpoint,
		},
	}
}

func (c *FacebookOAuthClient) Name() string {
	return "facebook"
}

func (c *FacebookOAuthClient) GetAuthURL(state string) string {
	return c.config.AuthCodeURL(state)
}

func (c *FacebookOAuthClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}
	return token.AccessToken, nil
}

func (c *FacebookOAuthClient) GetUserInfo(ctx context.Context, accessToken string) (*ProviderUserInfo, error) {
	endpoint := "https://graph.facebook.com/me?fields=id,name,email,picture&access_token=" + url.QueryEscape(accessToken)
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := &http.Client{
		Timeout: httpClientTimeout,
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get user info: status %d, body: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var fInfo facebookUserInfo
	if err := json.Unmarshal(body, &fInfo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user info: %w", err)
	}

	// Facebook omits the email field when the account has none or the
	// permission was declined.
	email := fInfo.Email
	if email == "" {
		email = fInfo.ID + "@facebook.local"
	}

	return &ProviderUserInfo{
		Email:         email,
		Name:          fInfo.Name,
		Picture:       fInfo.Picture.Data.URL,
		EmailVerified: fInfo.Email != "",
		Provider:      "facebook",
		ProviderID:    fInfo.ID,
		RawProfile:    body,
	}, nil
}
