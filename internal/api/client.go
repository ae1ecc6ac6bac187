// Package api is the client for the Tavnit cloud template service.
package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/TavnitForms/tavnit-cli/internal/httpclient"
	"github.com/TavnitForms/tavnit-cli/internal/model"
)

type Client struct {
	httpClient *httpclient.Client
	baseURL    string
	token      string
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: httpclient.NewClient(httpclient.Config{}),
		baseURL:    baseURL,
		token:      token,
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.token,
		"Accept":        "application/json",
	}
}

// GetTemplate fetches one published template by ID.
func (c *Client) GetTemplate(ctx context.Context, id string) (*model.RemoteTemplate, error) {
	var tpl model.RemoteTemplate
	u := c.baseURL + "/v1/templates/" + url.PathEscape(id)
	if err := c.httpClient.GetJSON(ctx, u, c.headers(), &tpl); err != nil {
		return nil, fmt.Errorf("failed to get template %s: %w", id, err)
	}
	return &tpl, nil
}

// ListTemplates returns all published templates, following pagination until
// the server reports no further pages.
func (c *Client) ListTemplates(ctx context.Context, pageLimit int) ([]model.RemoteTemplate, error) {
	var all []model.RemoteTemplate
	page := ""

	for {
		q := url.Values{}
		q.Set("page_limit", strconv.Itoa(pageLimit))
		if page != "" {
			q.Set("page", page)
		}

		var list model.RemoteTemplateList
		u := c.baseURL + "/v1/templates?" + q.Encode()
		if err := c.httpClient.GetJSON(ctx, u, c.headers(), &list); err != nil {
			return nil, fmt.Errorf("failed to list templates: %w", err)
		}

		all = append(all, list.Templates...)
		if list.NextPage == "" {
			return all, nil
		}
		page = list.NextPage
	}
}
