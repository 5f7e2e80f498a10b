package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/config"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/dto"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/entity"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(server.Client(), &config.Config{APIBaseURL: server.URL}, nil)
	return client, server
}

func TestListCompanies(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/companies" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("status") != "qualified" || r.URL.Query().Get("skip") != "20" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("expected X-Request-ID header")
		}
		json.NewEncoder(w).Encode(dto.CompanyList{
			Companies: []entity.Company{{ID: 1, Name: "Tandartspraktijk Noord", Status: entity.StatusQualified}},
			Total:     1,
		})
	}))

	list, err := client.ListCompanies(context.Background(), dto.ListFilter{Status: "qualified", Skip: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Total != 1 || len(list.Companies) != 1 || list.Companies[0].Name != "Tandartspraktijk Noord" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestUpdateStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/companies/7/status" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body dto.UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Status != entity.StatusContacted {
			t.Errorf("unexpected status in body: %s", body.Status)
		}
		json.NewEncoder(w).Encode(entity.Company{ID: 7, Name: "Fysio Centrum", Status: entity.StatusContacted})
	}))

	updated, err := client.UpdateStatus(context.Background(), 7, entity.StatusContacted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != entity.StatusContacted {
		t.Fatalf("unexpected company: %+v", updated)
	}
}

func TestErrorDetailParsing(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Company not found"})
	}))

	_, err := client.GetCompany(context.Background(), 999)
	if err == nil {
		t.Fatalf("expected error")
	}
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Detail != "Company not found" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
	if apiErr.Error() != "Company not found" {
		t.Fatalf("expected detail as message, got %q", apiErr.Error())
	}
}

func TestErrorWithoutDetail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.DashboardStats(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if err.Error() != "backend error: Bad Gateway" {
		t.Fatalf("expected generic message with status text, got %q", err.Error())
	}
}

func TestStartEnrichmentConflict(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/companies/42/enrich-contacts" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Enrichment already in progress for this company"})
	}))

	_, err := client.StartEnrichment(context.Background(), 42)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsConflict(err) {
		t.Fatalf("expected conflict detection for %v", err)
	}
}

func TestIsConflict(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{&Error{StatusCode: http.StatusConflict}, true},
		{&Error{StatusCode: http.StatusBadRequest, Detail: "A job is already in progress"}, true},
		{&Error{StatusCode: http.StatusBadRequest, Detail: "invalid id"}, false},
		{context.Canceled, false},
		{nil, false},
	}
	for _, tc := range cases {
		if IsConflict(tc.err) != tc.want {
			t.Errorf("IsConflict(%v) = %v, want %v", tc.err, IsConflict(tc.err), tc.want)
		}
	}
}

func TestEnrichmentStatusFillsCompanyID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/companies/42/enrichment-status" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"status": "pending", "progress": 30})
	}))

	snap, err := client.EnrichmentStatus(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.CompanyID != 42 || snap.Status != entity.EnrichmentPending || snap.Progress != 30 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
