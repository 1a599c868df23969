package translate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTranslatePassesQueryAndUnescapes(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := r.URL.Query()
		query = map[string]string{"key": v.Get("key"), "q": v.Get("q"), "target": v.Get("target")}
		_, _ = w.Write([]byte(`{"data":{"translations":[{"translatedText":"l&#39;école"}]}}`))
	}))
	defer srv.Close()

	out, err := New(Config{URL: srv.URL, APIKey: "g-key"}).Translate(context.Background(), "the school", "fr")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if out != "l'école" {
		t.Fatalf("unexpected translation %q", out)
	}
	if query["key"] != "g-key" || query["q"] != "the school" || query["target"] != "fr" {
		t.Fatalf("unexpected query %v", query)
	}
}

func TestTranslateEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"translations":[]}}`))
	}))
	defer srv.Close()

	_, err := New(Config{URL: srv.URL}).Translate(context.Background(), "x", "de")
	if !errors.Is(err, ErrNoTranslation) {
		t.Fatalf("expected no translation, got %v", err)
	}
}

func TestTranslateUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := New(Config{URL: srv.URL}).Translate(context.Background(), "x", "de"); err == nil {
		t.Fatalf("expected error")
	}
}
