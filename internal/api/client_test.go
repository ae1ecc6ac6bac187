package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TavnitForms/tavnit-cli/internal/api"
	"github.com/TavnitForms/tavnit-cli/internal/model"
	"github.com/TavnitForms/tavnit-cli/internal/testutil"
)

func TestGetTemplate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/templates/tpl-42" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret-token" {
			t.Errorf("unexpected authorization header %q", r.Header.Get("Authorization"))
		}
		_ = json.NewEncoder(w).Encode(model.RemoteTemplate{
			ID:        "tpl-42",
			Name:      "employment/contract.html",
			Language:  "he",
			Direction: "rtl",
			Content:   `<form dir="rtl"/>`,
		})
	}))
	defer server.Close()

	client := api.NewClient(server.URL, "secret-token")

	tpl, err := client.GetTemplate(context.Background(), "tpl-42")
	if err != nil {
		t.Fatalf("GetTemplate unexpected error: %v", err)
	}
	if tpl.Name != "employment/contract.html" {
		t.Errorf("template name = %q", tpl.Name)
	}
	if tpl.Direction != "rtl" {
		t.Errorf("template direction = %q, want rtl", tpl.Direction)
	}
}

func TestGetTemplateEscapesID(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_ = json.NewEncoder(w).Encode(model.RemoteTemplate{ID: "x"})
	}))
	defer server.Close()

	client := api.NewClient(server.URL, "token")

	if _, err := client.GetTemplate(context.Background(), "../admin/secrets"); err != nil {
		t.Fatalf("GetTemplate unexpected error: %v", err)
	}
	if gotPath != "/v1/templates/..%2Fadmin%2Fsecrets" {
		t.Errorf("template ID not escaped in request path: %q", gotPath)
	}
}

func TestGetTemplateNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no such template"}`))
	}))
	defer server.Close()

	client := api.NewClient(server.URL, "token")

	if _, err := client.GetTemplate(context.Background(), "missing"); err == nil {
		t.Fatal("GetTemplate expected error for 404, got nil")
	}
}

func TestListTemplatesPagination(t *testing.T) {
	pages := map[string]model.RemoteTemplateList{
		"": {
			Templates: []model.RemoteTemplate{{ID: "tpl-1"}, {ID: "tpl-2"}},
			NextPage:  "cursor-2",
		},
		"cursor-2": {
			Templates: []model.RemoteTemplate{{ID: "tpl-3"}},
		},
	}

	var limits []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limits = append(limits, r.URL.Query().Get("page_limit"))
		_ = json.NewEncoder(w).Encode(pages[r.URL.Query().Get("page")])
	}))
	defer server.Close()

	client := api.NewClient(server.URL, "token")

	all, err := client.ListTemplates(context.Background(), 500)
	if err != nil {
		t.Fatalf("ListTemplates unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListTemplates returned %d templates, want 3", len(all))
	}
	for i, want := range []string{"tpl-1", "tpl-2", "tpl-3"} {
		if all[i].ID != want {
			t.Errorf("all[%d].ID = %q, want %q", i, all[i].ID, want)
		}
	}
	for _, limit := range limits {
		if limit != "500" {
			t.Errorf("page_limit = %q, want 500", limit)
		}
	}
}

func TestClientAgainstMockCloud(t *testing.T) {
	templates := []model.RemoteTemplate{
		{ID: "tpl-1", Name: "rental/lease.html", Language: "he", Direction: "rtl"},
		{ID: "tpl-2", Name: "hr/offer-letter.html", Language: "en", Direction: "ltr"},
		{ID: "tpl-3", Name: "legal/nda.html", Language: "he", Direction: "rtl"},
	}
	server := testutil.NewMockCloudServer(t, templates)

	client := api.NewClient(server.URL, "test-token")

	all, err := client.ListTemplates(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListTemplates unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListTemplates returned %d templates, want 3", len(all))
	}

	tpl, err := client.GetTemplate(context.Background(), "tpl-2")
	if err != nil {
		t.Fatalf("GetTemplate unexpected error: %v", err)
	}
	if tpl.Name != "hr/offer-letter.html" {
		t.Errorf("template name = %q", tpl.Name)
	}
}

func TestClientAgainstMockCloudBadToken(t *testing.T) {
	server := testutil.NewMockCloudServer(t, nil)

	client := api.NewClient(server.URL, "wrong-token")

	if _, err := client.ListTemplates(context.Background(), 100); err == nil {
		t.Fatal("ListTemplates expected error for rejected token, got nil")
	}
}
