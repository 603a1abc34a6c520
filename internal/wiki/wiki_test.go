package wiki

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(handler http.HandlerFunc) (*Client, func()) {
	srv := httptest.NewServer(handler)
	c := NewClient()
	c.BaseURL = srv.URL
	return c, srv.Close
}

func TestSummary(t *testing.T) {
	c, done := testClient(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("titles"); got != "Go (programming language)" {
			t.Errorf("titles = %q", got)
		}
		w.Write([]byte(`{"query":{"pages":{"12345":{"extract":"Go is a statically typed language."}}}}`))
	})
	defer done()

	got, err := c.Summary(context.Background(), "Go (programming language)")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if want := "Go is a statically typed language."; got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestSummaryNoResult(t *testing.T) {
	c, done := testClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query":{"pages":{"-1":{}}}}`))
	})
	defer done()

	_, err := c.Summary(context.Background(), "nosuchpage")
	if !errors.Is(err, ErrNoResult) {
		t.Errorf("Summary() error = %v, want ErrNoResult", err)
	}
}

func TestSummaryServerError(t *testing.T) {
	c, done := testClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	defer done()

	_, err := c.Summary(context.Background(), "PHP")
	if err == nil || errors.Is(err, ErrNoResult) {
		t.Errorf("Summary() error = %v, want transport error", err)
	}
}

func TestSummaryBadJSON(t *testing.T) {
	c, done := testClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})
	defer done()

	if _, err := c.Summary(context.Background(), "PHP"); err == nil {
		t.Error("Summary() expected parse error, got nil")
	}
}
