package shelfwise

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}

func TestSearch_SendsAuthAndDecodesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("auth = %q", got)
		}
		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Query != "admission policy" || req.MaxResults != 3 {
			t.Errorf("request = %+v", req)
		}
		_ = json.NewEncoder(w).Encode(SearchResponse{
			Results: []SearchResult{{ID: "doc-1", Title: "Policy", SimilarityPercentage: 91.5}},
			Total:   1,
		})
	}))
	defer srv.Close()

	client, err := New(srv.URL, WithAPIKey("secret"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := client.Search(context.Background(), SearchRequest{Query: "admission policy", MaxResults: 3})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if out.Total != 1 || out.Results[0].SimilarityPercentage != 91.5 {
		t.Errorf("response = %+v", out)
	}
}

func TestChat_DecodesReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ChatResponse{
			Type:     "search",
			Message:  "Found it.",
			Document: &ChatDocument{ID: "doc-1", Title: "Policy"},
			Sources:  []string{"Policy"},
		})
	}))
	defer srv.Close()

	client, _ := New(srv.URL)
	out, err := client.Chat(context.Background(), ChatRequest{Message: "find the policy"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if out.Type != "search" || out.Document == nil || out.Document.ID != "doc-1" {
		t.Errorf("response = %+v", out)
	}
}

func TestSuggestions_BuildsQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("limit") != "4" || q.Get("context") != "maintenance" {
			t.Errorf("query = %v", q)
		}
		_ = json.NewEncoder(w).Encode(map[string][]string{
			"suggestions": {"Show me maintenance manuals"},
		})
	}))
	defer srv.Close()

	client, _ := New(srv.URL)
	out, err := client.Suggestions(context.Background(), "maintenance", 4)
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("suggestions = %v", out)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		code     string
		sentinel error
	}{
		{"document missing", http.StatusNotFound, "document_not_found", ErrDocumentNotFound},
		{"job missing", http.StatusNotFound, "job_not_found", ErrJobNotFound},
		{"validation", http.StatusBadRequest, "validation_failed", ErrInvalidInput},
		{"queue full", http.StatusTooManyRequests, "queue_full", ErrQueueFull},
		{"upstream", http.StatusBadGateway, "upstream_error", ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"code":    tt.code,
					"message": tt.name,
				})
			}))
			defer srv.Close()

			client, _ := New(srv.URL)
			_, err := client.Search(context.Background(), SearchRequest{Query: "x"})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.StatusCode != tt.status {
				t.Errorf("APIError = %+v", apiErr)
			}
		})
	}
}

func TestHealth_DegradedStillDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthReport{
			Status: "degraded",
			Checks: map[string]string{"llm": "error"},
		})
	}))
	defer srv.Close()

	client, _ := New(srv.URL)
	report, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if report.Status != "degraded" || report.Checks["llm"] != "error" {
		t.Errorf("report = %+v", report)
	}
}
