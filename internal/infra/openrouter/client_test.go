package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompleteSendsMessagesAndReturnsFirstChoice(t *testing.T) {
	var got completionRequest
	var headers http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Great month!  "}}]}`))
	}))
	defer srv.Close()

	c := New(Config{URL: srv.URL, APIKey: "key", Model: "m-1", Referer: "https://school.example"})
	text, err := c.Complete(context.Background(), "be kind", "write it")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "Great month!" {
		t.Fatalf("unexpected text %q", text)
	}
	if got.Model != "m-1" || len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "write it" {
		t.Fatalf("unexpected request %+v", got)
	}
	if headers.Get("Authorization") != "Bearer key" || headers.Get("HTTP-Referer") != "https://school.example" || headers.Get("X-Title") != appTitle {
		t.Fatalf("unexpected headers %v", headers)
	}
}

func TestCompleteErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		},
		"no choices": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		},
		"api error": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":{"message":"bad model"}}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()
			_, err := New(Config{URL: srv.URL}).Complete(context.Background(), "s", "p")
			if err == nil {
				t.Fatalf("expected error")
			}
			if name == "no choices" && !errors.Is(err, ErrEmptyCompletion) {
				t.Fatalf("expected empty completion, got %v", err)
			}
		})
	}
}
