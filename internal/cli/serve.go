package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/internal/server"
	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Layouts are cached on disk, or in Redis when ` + envRedisAddr + ` is set.
The /v1/worker endpoint accepts offloaded computations from "watch --remote".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	store, err := c.newServerCache(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(runner, server.WithLogger(c.Logger)).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	c.Logger.Debug("listening", "addr", addr)
	printSuccess("Serving layout API")
	printKeyValue("Address", "http://"+addr)
	printKeyValue("Cache", cacheName(store))

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// cacheName describes the backing store for startup output.
func cacheName(c cache.Cache) string {
	switch c := c.(type) {
	case *cache.FileCache:
		return c.Dir()
	case *cache.RedisCache:
		return "redis"
	default:
		return "disabled"
	}
}
