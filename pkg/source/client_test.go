package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/classview/pkg/cache"
	apperrors "github.com/matzehuels/classview/pkg/errors"
)

func newTestClient(t *testing.T, srv *httptest.Server, opts Options) *Client {
	t.Helper()
	opts.BaseURL = srv.URL
	opts.Attempts = 2
	opts.Delay = time.Millisecond
	c, err := NewClient(opts)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestClientClasses(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"classes": {"Animal": ["Dog", "Cat"], "Dog": ["Puppy"]}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Options{Token: "secret"})
	m, err := c.Classes(context.Background(), "zoo models.py")
	if err != nil {
		t.Fatalf("Classes: %v", err)
	}
	if gotPath != "/class_finding/get_classes/zoo%20models.py" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if keys := m.Keys(); len(keys) != 2 || keys[0] != "Animal" || keys[1] != "Dog" {
		t.Errorf("keys = %v", keys)
	}
}

func TestClientNoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" {
			t.Errorf("unexpected Authorization %q", h)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	m, err := newTestClient(t, srv, Options{}).Classes(context.Background(), "a.py")
	if err != nil {
		t.Fatalf("Classes: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
}

func TestClientEmptyShapes(t *testing.T) {
	bodies := []string{
		``,
		`null`,
		`[]`,
		`{}`,
		`{"classes": null}`,
		`{"classes": []}`,
		`{"classes": "none"}`,
		`{"classes": {}}`,
	}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			m, err := newTestClient(t, srv, Options{}).Classes(context.Background(), "a.py")
			if err != nil {
				t.Fatalf("Classes: %v", err)
			}
			if m.Len() != 0 {
				t.Errorf("Len = %d, want 0", m.Len())
			}
		})
	}
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
		code     apperrors.Code
		calls    int32
	}{
		{"not found", http.StatusNotFound, ErrNotFound, apperrors.ErrCodeFileNotFound, 1},
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized, apperrors.ErrCodeUnauthorized, 1},
		{"forbidden", http.StatusForbidden, ErrUnauthorized, apperrors.ErrCodeUnauthorized, 1},
		{"bad request", http.StatusBadRequest, ErrNetwork, apperrors.ErrCodeNetwork, 1},
		{"server error retried", http.StatusBadGateway, ErrNetwork, apperrors.ErrCodeNetwork, 2},
		{"rate limited retried", http.StatusTooManyRequests, ErrNetwork, apperrors.ErrCodeNetwork, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv, Options{}).Classes(context.Background(), "a.py")
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("err = %v, want %v", err, tt.sentinel)
			}
			if !apperrors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s", apperrors.GetCode(err), tt.code)
			}
			if got := calls.Load(); got != tt.calls {
				t.Errorf("calls = %d, want %d", got, tt.calls)
			}
		})
	}
}

func TestClientRecoversAfterRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"classes": {"A": ["B"]}}`))
	}))
	defer srv.Close()

	m, err := newTestClient(t, srv, Options{}).Classes(context.Background(), "a.py")
	if err != nil {
		t.Fatalf("Classes: %v", err)
	}
	if !m.Has("A") {
		t.Errorf("mapping = %v, want A", m.Keys())
	}
}

func TestClientMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"classes": `))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, Options{}).Classes(context.Background(), "a.py")
	if !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestClientRejectsBadFileName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called")
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, Options{}).Classes(context.Background(), "../etc/passwd")
	if !apperrors.Is(err, apperrors.ErrCodeInvalidFile) {
		t.Errorf("err = %v, want INVALID_FILE", err)
	}
}

func TestClientCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"classes": {"A": ["B"]}}`))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := newTestClient(t, srv, Options{Token: "t1", Cache: fc})
	ctx := context.Background()

	for range 2 {
		if _, err := c.Classes(ctx, "a.py"); err != nil {
			t.Fatalf("Classes: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls after cached fetch = %d, want 1", got)
	}

	// A different token must not see the first token's entry.
	if _, err := c.WithToken("t2").Classes(ctx, "a.py"); err != nil {
		t.Fatalf("Classes: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls after token change = %d, want 2", got)
	}

	refresh := newTestClient(t, srv, Options{Token: "t1", Cache: fc, Refresh: true})
	if _, err := refresh.Classes(ctx, "a.py"); err != nil {
		t.Fatalf("Classes: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls after refresh = %d, want 3", got)
	}
}

func TestClientCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestClient(t, srv, Options{}).Classes(ctx, "a.py")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestNewClientValidatesURL(t *testing.T) {
	for _, u := range []string{"", "ftp://x", "localhost:8000"} {
		if _, err := NewClient(Options{BaseURL: u}); err == nil {
			t.Errorf("NewClient(%q) succeeded", u)
		}
	}
	c, err := NewClient(Options{BaseURL: "http://localhost:8000/"})
	if err != nil {
		t.Fatal(err)
	}
	if got := c.ClassesURL("a.py"); got != "http://localhost:8000/class_finding/get_classes/a.py" {
		t.Errorf("ClassesURL = %q", got)
	}
}
