package testutil

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/TavnitForms/tavnit-cli/internal/model"
)

// MockCloudConfig configures the mock template service behavior.
type MockCloudConfig struct {
	// Templates served by the listing and lookup endpoints.
	Templates []model.RemoteTemplate
	// Token that requests must present as a bearer token. Defaults to
	// "test-token".
	Token string
	// Account returned by the account endpoint.
	Account model.Account
}

// NewMockCloudServer starts a mock Tavnit cloud server for integration
// testing. It serves the template listing (with pagination), template
// lookup by ID, and the account endpoint used for token verification.
func NewMockCloudServer(t *testing.T, templates []model.RemoteTemplate) *httptest.Server {
	return NewMockCloudServerWithConfig(t, MockCloudConfig{Templates: templates})
}

// NewMockCloudServerWithConfig starts a mock cloud server with custom
// configuration.
func NewMockCloudServerWithConfig(t *testing.T, config MockCloudConfig) *httptest.Server {
	t.Helper()

	if config.Token == "" {
		config.Token = "test-token"
	}
	if config.Account.ID == "" {
		config.Account = model.Account{
			ID:            "acct-001",
			Email:         "forms@example.co.il",
			Plan:          "studio",
			TemplateQuota: 200,
		}
	}

	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+config.Token {
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}

		switch {
		case r.URL.Path == "/v1/me" && r.Method == http.MethodGet:
			JSONResponse(t, w, http.StatusOK, config.Account)

		case r.URL.Path == "/v1/templates" && r.Method == http.MethodGet:
			JSONResponse(t, w, http.StatusOK, paginate(config.Templates, r))

		case strings.HasPrefix(r.URL.Path, "/v1/templates/") && r.Method == http.MethodGet:
			id := strings.TrimPrefix(r.URL.Path, "/v1/templates/")
			for _, tpl := range config.Templates {
				if tpl.ID == id {
					JSONResponse(t, w, http.StatusOK, tpl)
					return
				}
			}
			http.NotFound(w, r)

		default:
			http.NotFound(w, r)
		}
	}

	return NewTestServer(t, handler)
}

// paginate slices templates into the page requested via the page and
// page_limit query parameters, mirroring the cloud's cursor scheme where
// the cursor is the next start offset.
func paginate(templates []model.RemoteTemplate, r *http.Request) model.RemoteTemplateList {
	limit := len(templates)
	if v := r.URL.Query().Get("page_limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	start := 0
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			start = n
		}
	}

	if start >= len(templates) {
		return model.RemoteTemplateList{Templates: []model.RemoteTemplate{}}
	}
	end := start + limit
	if end > len(templates) {
		end = len(templates)
	}

	list := model.RemoteTemplateList{Templates: templates[start:end]}
	if end < len(templates) {
		list.NextPage = strconv.Itoa(end)
	}
	return list
}
