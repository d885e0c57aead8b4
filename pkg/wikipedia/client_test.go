package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/embedchat-ai/embedchat/pkg/config"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.WikipediaConfig{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})
}

func TestLookup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("action") != "query" || q.Get("list") != "search" {
			t.Errorf("unexpected search query: %v", q)
		}
		if q.Get("srsearch") != "gopher animal" {
			t.Errorf("unexpected srsearch: %q", q.Get("srsearch"))
		}
		fmt.Fprint(w, `{"query":{"search":[{"title":"Gopher"}]}}`)
	})
	mux.HandleFunc("/api/rest_v1/page/summary/Gopher", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"title": "Gopher",
			"extract": "Gophers are rodents.[1]  Gophers are rodents. They burrow.",
			"content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/Gopher"}}
		}`)
	})

	c := newTestClient(t, mux)
	result, err := c.Lookup(context.Background(), "gopher animal")
	if err != nil {
		t.Fatal(err)
	}
	if result.Title != "Gopher" {
		t.Errorf("unexpected title %q", result.Title)
	}
	if result.Extract != "Gophers are rodents. They burrow." {
		t.Errorf("extract not cleaned: %q", result.Extract)
	}
	if result.URL != "https://en.wikipedia.org/wiki/Gopher" {
		t.Errorf("unexpected URL %q", result.URL)
	}
}

func TestLookupNoResult(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"query":{"search":[]}}`)
	})

	c := newTestClient(t, mux)
	_, err := c.Lookup(context.Background(), "zzzzz")
	if !errors.Is(err, ErrNoResult) {
		t.Errorf("expected ErrNoResult, got %v", err)
	}
}

func TestLookupSummaryNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"query":{"search":[{"title":"Ghost"}]}}`)
	})
	mux.HandleFunc("/api/rest_v1/page/summary/Ghost", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	c := newTestClient(t, mux)
	_, err := c.Lookup(context.Background(), "ghost page")
	if !errors.Is(err, ErrNoResult) {
		t.Errorf("expected ErrNoResult for missing summary, got %v", err)
	}
}

func TestLookupServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	c := newTestClient(t, mux)
	_, err := c.Lookup(context.Background(), "anything at all")
	if err == nil || errors.Is(err, ErrNoResult) {
		t.Errorf("expected a transport error, got %v", err)
	}
}
