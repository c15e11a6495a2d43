package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSuggestWithoutCredentialUsesFallback(t *testing.T) {
	c := NewClient("", nil)
	c.endpoint = "http://127.0.0.1:1" // any dial would fail loudly
	got := c.Suggest(context.Background(), "https://example.com")
	if got != Fallback() {
		t.Fatalf("got %+v, want fallback", got)
	}
}

func TestSuggestParsesModelResponse(t *testing.T) {
	want := Suggestion{
		Title:          "Example Domain",
		Description:    "A placeholder site for documentation.",
		SuggestedColor: "#1a73e8",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		inner, _ := json.Marshal(want)
		resp := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": string(inner)}},
				},
			}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient("test-key", nil)
	c.endpoint = srv.URL
	got := c.Suggest(context.Background(), "https://example.com")
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSuggestFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-key", nil)
	c.endpoint = srv.URL
	if got := c.Suggest(context.Background(), "https://example.com"); got != Fallback() {
		t.Fatalf("got %+v, want fallback", got)
	}
}

func TestSuggestFallsBackOnMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": "not json at all"}},
				},
			}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient("test-key", nil)
	c.endpoint = srv.URL
	if got := c.Suggest(context.Background(), "https://example.com"); got != Fallback() {
		t.Fatalf("got %+v, want fallback", got)
	}
}
