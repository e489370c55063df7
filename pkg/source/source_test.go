package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/cellbars/pkg/cache"
	cberrors "github.com/matzehuels/cellbars/pkg/errors"
	"github.com/matzehuels/cellbars/pkg/observability"
)

const sample = "region,sales\nnorth,10\nsouth,20\n"

func TestIsURL(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"https://example.com/a.csv", true},
		{"http://localhost:8080/a.csv", true},
		{"data.csv", false},
		{"-", false},
		{"ftp://example.com/a.csv", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.path); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := New(nil).Load(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != sample {
		t.Errorf("Load() = %q, want %q", got, sample)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := New(nil).Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), Options{})
	if !cberrors.Is(err, cberrors.ErrCodeNotFound) {
		t.Errorf("Load() error = %v, want NOT_FOUND", err)
	}
}

func TestLoadStdin(t *testing.T) {
	got, err := New(nil).Load(context.Background(), Stdin, Options{Stdin: strings.NewReader(sample)})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != sample {
		t.Errorf("Load() = %q, want %q", got, sample)
	}
}

func TestLoadURLCached(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(sample))
	}))
	defer srv.Close()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	src := New(c)
	ctx := context.Background()

	for range 2 {
		got, err := src.Load(ctx, srv.URL+"/sales.csv", Options{})
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if got != sample {
			t.Errorf("Load() = %q, want %q", got, sample)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}

	if _, err := src.Load(ctx, srv.URL+"/sales.csv", Options{Refresh: true}); err != nil {
		t.Fatalf("Load(refresh) error: %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("server called %d times after refresh, want 2", n)
	}
}

func TestLoadURLStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCode  cberrors.Code
		wantCalls int32
	}{
		{"not found", http.StatusNotFound, cberrors.ErrCodeNotFound, 1},
		{"forbidden", http.StatusForbidden, cberrors.ErrCodeNetwork, 1},
		{"server error retried", http.StatusBadGateway, cberrors.ErrCodeNetwork, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := New(nil).Load(context.Background(), srv.URL, Options{})
			if !cberrors.Is(err, tt.wantCode) {
				t.Errorf("Load() error = %v, want code %s", err, tt.wantCode)
			}
			if n := calls.Load(); n != tt.wantCalls {
				t.Errorf("server called %d times, want %d", n, tt.wantCalls)
			}
		})
	}
}

func TestLoadURLRecovers(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(sample))
	}))
	defer srv.Close()

	got, err := New(nil).Load(context.Background(), srv.URL, Options{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != sample {
		t.Errorf("Load() = %q, want %q", got, sample)
	}
}

// brokenCache fails every operation.
type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCache) Delete(context.Context, string) error { return nil }
func (brokenCache) Close() error                         { return nil }

type recordingCacheHooks struct {
	observability.NoopCacheHooks
	ops    []string
	misses int
	sets   int
}

func (h *recordingCacheHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *recordingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func (h *recordingCacheHooks) OnCacheError(_ context.Context, keyType, op string, _ error) {
	h.ops = append(h.ops, keyType+":"+op)
}

func TestLoadURLReportsCacheFailures(t *testing.T) {
	hooks := &recordingCacheHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sample))
	}))
	defer srv.Close()

	got, err := New(brokenCache{}).Load(context.Background(), srv.URL+"/sales.csv", Options{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != sample {
		t.Errorf("Load() = %q, want %q", got, sample)
	}
	if strings.Join(hooks.ops, ",") != "source:get,source:set" {
		t.Errorf("cache errors = %v, want [source:get source:set]", hooks.ops)
	}
}

func TestLoadURLCacheHooks(t *testing.T) {
	hooks := &recordingCacheHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sample))
	}))
	defer srv.Close()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(c).Load(context.Background(), srv.URL+"/sales.csv", Options{}); err != nil {
		t.Fatal(err)
	}
	if hooks.misses != 1 || hooks.sets != 1 || len(hooks.ops) != 0 {
		t.Errorf("misses = %d, sets = %d, errors = %v", hooks.misses, hooks.sets, hooks.ops)
	}
}
