// Package source loads CSV input from local files, stdin or HTTP URLs.
//
// Remote input is fetched with retries on transient failures and cached
// under its URL, so repeated renders of the same report do not hit the
// network:
//
//	src := source.New(cache.NewNullCache())
//	csv, err := src.Load(ctx, "https://example.com/sales.csv", source.Options{})
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/matzehuels/cellbars/pkg/cache"
	cberrors "github.com/matzehuels/cellbars/pkg/errors"
	"github.com/matzehuels/cellbars/pkg/observability"
)

const (
	httpTimeout = 10 * time.Second

	// MaxBytes bounds the size of any input.
	MaxBytes = 64 << 20

	// TTLRemote is how long fetched documents are reused.
	TTLRemote = 1 * time.Hour

	// Stdin is the path that selects standard input.
	Stdin = "-"

	keyTypeSource = "source"
)

// Options controls a single load.
type Options struct {
	// Refresh bypasses the cache for remote input.
	Refresh bool
	// Stdin is read when the path is [Stdin]. Defaults to os.Stdin.
	Stdin io.Reader
}

// Source loads input documents.
type Source struct {
	http    *http.Client
	cache   cache.Cache
	headers map[string]string
}

// New creates a Source whose remote fetches are cached in c.
// A nil cache disables caching.
func New(c cache.Cache) *Source {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Source{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   c,
		headers: map[string]string{"Accept": "text/csv, text/plain;q=0.9, */*;q=0.5"},
	}
}

// IsURL reports whether path names an HTTP or HTTPS resource.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// Load returns the document at path: a URL, [Stdin] or a file.
func (s *Source) Load(ctx context.Context, path string, opts Options) (string, error) {
	switch {
	case IsURL(path):
		return s.fetch(ctx, path, opts.Refresh)
	case path == Stdin:
		r := opts.Stdin
		if r == nil {
			r = os.Stdin
		}
		return readAll(r, "stdin")
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", cberrors.Wrap(cberrors.ErrCodeNotFound, err, "input %s not found", path)
		}
		return "", fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return readAll(f, path)
}

func readAll(r io.Reader, name string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > MaxBytes {
		return "", cberrors.New(cberrors.ErrCodeInvalidInput, "input %s exceeds %d bytes", name, MaxBytes)
	}
	return string(data), nil
}

func (s *Source) fetch(ctx context.Context, url string, refresh bool) (string, error) {
	hooks := observability.Cache()
	key := "source:" + cache.Hash([]byte(url))
	if !refresh {
		data, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			hooks.OnCacheError(ctx, keyTypeSource, "get", err)
		case ok:
			hooks.OnCacheHit(ctx, keyTypeSource)
			return string(data), nil
		default:
			hooks.OnCacheMiss(ctx, keyTypeSource)
		}
	}

	var body string
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		body, err = s.get(ctx, url)
		return err
	})
	if err != nil {
		return "", err
	}
	if err := s.cache.Set(ctx, key, []byte(body), TTLRemote); err != nil {
		hooks.OnCacheError(ctx, keyTypeSource, "set", err)
	} else {
		hooks.OnCacheSet(ctx, keyTypeSource, len(body))
	}
	return body, nil
}

func (s *Source) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", cberrors.Wrap(cberrors.ErrCodeInvalidInput, err, "invalid url %q", url)
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return "", cache.Retryable(cberrors.Wrap(cberrors.ErrCodeNetwork, err, "fetch %s", url))
	}
	defer resp.Body.Close()

	if err := checkStatus(url, resp.StatusCode); err != nil {
		return "", err
	}
	return readAll(resp.Body, url)
}

func checkStatus(url string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return cberrors.New(cberrors.ErrCodeNotFound, "%s not found", url)
	case code >= 500 || code == http.StatusTooManyRequests:
		return cache.Retryable(cberrors.New(cberrors.ErrCodeNetwork, "fetch %s: status %d", url, code))
	default:
		return cberrors.New(cberrors.ErrCodeNetwork, "fetch %s: status %d", url, code)
	}
}
