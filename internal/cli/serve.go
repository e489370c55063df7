package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cellbars/internal/server"
	"github.com/matzehuels/cellbars/pkg/cache"
	"github.com/matzehuels/cellbars/pkg/pipeline"
)

type serveOpts struct {
	addr    string
	redis   string
	mongo   string
	noCache bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Serve the render pipeline over HTTP.

  POST /v1/render          {"csv": "...", "columns": [...], "format": "html"}
  GET  /v1/artifacts/{id}  fetch a stored artifact
  GET  /healthz            liveness probe

Artifacts are cached in Redis (--redis or ` + envRedisURL + `), MongoDB
(--mongo or ` + envMongoURI + `), or the local cache directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.redis, "redis", os.Getenv(envRedisURL), "Redis URL for the shared cache")
	cmd.Flags().StringVar(&opts.mongo, "mongo", os.Getenv(envMongoURI), "MongoDB URI for the shared cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "keep no artifacts (stored ids will not resolve)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	store, backend, err := serveCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	printSuccess("Serving on %s", StyleLink.Render(opts.addr))
	printKeyValue("cache", backend)

	return server.New(runner).ListenAndServe(ctx, opts.addr)
}

// serveCache picks the artifact store: Redis, then MongoDB, then the local
// cache directory.
func serveCache(ctx context.Context, opts serveOpts) (cache.Cache, string, error) {
	switch {
	case opts.noCache:
		return cache.NewNullCache(), "disabled", nil
	case opts.redis != "":
		rc, err := cache.NewRedisCache(ctx, opts.redis)
		if err != nil {
			return nil, "", err
		}
		return rc, "redis", nil
	case opts.mongo != "":
		mc, err := cache.NewMongoCache(ctx, opts.mongo)
		if err != nil {
			return nil, "", err
		}
		return mc, "mongodb", nil
	}
	c, err := newCache(false)
	if err != nil {
		return nil, "", err
	}
	if fc, ok := c.(*cache.FileCache); ok {
		return fc, "file " + fc.Dir(), nil
	}
	return c, "disabled", nil
}
