// Package auth verifies API tokens against the Tavnit cloud.
// The cloud uses static bearer tokens; there is no credential
// exchange or refresh flow.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/TavnitForms/tavnit-cli/internal/httpclient"
	"github.com/TavnitForms/tavnit-cli/internal/model"
)

// Provider holds a bearer token and can verify it against the cloud.
type Provider struct {
	baseURL    string
	token      string
	httpClient *httpclient.Client
}

// NewProvider creates a Provider for the given API base URL and token.
func NewProvider(baseURL, token string) (*Provider, error) {
	if token == "" {
		return nil, fmt.Errorf("authentication required: use --token flag or TAVNIT_API_TOKEN environment variable")
	}
	return &Provider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: httpclient.NewClient(httpclient.Config{}),
	}, nil
}

// AuthorizationHeader returns the Authorization header value for API requests.
func (p *Provider) AuthorizationHeader() string {
	return "Bearer " + p.token
}

// Verify checks the token against the cloud and returns the account it
// belongs to. An invalid or revoked token surfaces as an HTTP error from
// the account endpoint.
func (p *Provider) Verify(ctx context.Context) (*model.Account, error) {
	var account model.Account
	headers := map[string]string{
		"Authorization": p.AuthorizationHeader(),
		"Accept":        "application/json",
	}
	if err := p.httpClient.GetJSON(ctx, p.baseURL+"/v1/me", headers, &account); err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}
	return &account, nil
}

// MaskedToken returns the token with the middle hidden, safe for display.
func (p *Provider) MaskedToken() string {
	if len(p.token) < 12 {
		return "****"
	}
	return p.token[:4] + "****" + p.token[len(p.token)-4:]
}
