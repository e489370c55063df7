package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cellbars/pkg/cache"
	"github.com/matzehuels/cellbars/pkg/observability"
	"github.com/matzehuels/cellbars/pkg/table"
)

const keyTypeArtifact = "artifact"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete read → bind → render → emit pipeline.
// Configuration errors abort before any cell is rendered.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{Artifacts: make(map[string][]byte, len(opts.Formats))}

	// Stage 1: Read
	readStart := time.Now()
	t, err := r.Read(opts)
	if err != nil {
		return nil, err
	}
	result.Table = t
	result.Stats.ReadTime = time.Since(readStart)
	result.InputHash = inputHash(opts, t)

	r.Logger.Debug("read table", "rows", t.Rows(), "columns", len(t.Columns), "duration", result.Stats.ReadTime)

	// Stage 2: Bind
	spec := opts.ResolveSpec(t)
	bindings, err := spec.Bind(t)
	if err != nil {
		return nil, err
	}
	specHash, err := cache.HashJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("hash column spec: %w", err)
	}

	// Try the cache for every format first
	keys := make(map[string]string, len(opts.Formats))
	for _, format := range opts.Formats {
		keys[format] = r.Keyer.ArtifactKey(result.InputHash, opts.ArtifactKeyOpts(format, specHash))
	}
	if !opts.Refresh {
		for _, format := range opts.Formats {
			if data, ok := r.cacheGet(ctx, keys[format]); ok {
				result.Artifacts[format] = data
				result.CacheInfo.Hits++
			}
		}
		if result.CacheInfo.Hits == len(opts.Formats) {
			result.CacheInfo.RenderHit = true
			result.Stats.Rows = t.Rows()
			result.Stats.BarColumns = len(bindings)
			r.Logger.Info("served from cache", "formats", strings.Join(opts.Formats, ","))
			return result, nil
		}
	}

	// Stage 3: Render
	renderStart := time.Now()
	rendered, stats, err := RenderTable(ctx, t, bindings)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	stats.ReadTime = result.Stats.ReadTime
	stats.RenderTime = time.Since(renderStart)
	result.Stats = stats

	r.Logger.Info("rendered columns",
		"columns", len(bindings),
		"rows", stats.Rows,
		"errors", stats.Errors,
		"duration", stats.RenderTime)

	// Stage 4: Emit
	emitStart := time.Now()
	for _, format := range opts.Formats {
		if _, ok := result.Artifacts[format]; ok {
			continue
		}
		data, err := Emit(ctx, rendered, format, opts)
		if err != nil {
			return nil, fmt.Errorf("emit %s: %w", format, err)
		}
		result.Artifacts[format] = data
		r.cacheSet(ctx, keys[format], data)
	}
	result.Stats.EmitTime = time.Since(emitStart)

	return result, nil
}

// Read returns opts.Table or parses opts.CSV.
func (r *Runner) Read(opts Options) (*table.Table, error) {
	if opts.Table != nil {
		return opts.Table, nil
	}
	return table.ReadCSV(strings.NewReader(opts.CSV))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// cacheGet reads key, retrying transient backend failures. Errors are
// logged and treated as misses.
func (r *Runner) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	var (
		data []byte
		hit  bool
	)
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, hit, err = r.Cache.Get(ctx, key)
		return err
	})
	hooks := observability.Cache()
	switch {
	case err != nil:
		hooks.OnCacheError(ctx, keyTypeArtifact, "get", err)
		r.Logger.Warn("cache read failed", "error", err)
		return nil, false
	case hit:
		hooks.OnCacheHit(ctx, keyTypeArtifact)
	default:
		hooks.OnCacheMiss(ctx, keyTypeArtifact)
	}
	return data, hit
}

func (r *Runner) cacheSet(ctx context.Context, key string, data []byte) {
	err := cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, cache.TTLArtifact)
	})
	if err != nil {
		observability.Cache().OnCacheError(ctx, keyTypeArtifact, "set", err)
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
}

// inputHash hashes the CSV text, or the raw cells of a supplied table.
func inputHash(opts Options, t *table.Table) string {
	if opts.Table == nil {
		return cache.Hash([]byte(opts.CSV))
	}
	raw := make(map[string][]string, len(t.Columns))
	names := t.Names()
	for _, c := range t.Columns {
		raw[c.Name] = c.Raw
	}
	h, _ := cache.HashJSON(struct {
		Names []string
		Raw   map[string][]string
	}{names, raw})
	return h
}
