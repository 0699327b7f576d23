package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pinroute/pkg/api"
	"github.com/matzehuels/pinroute/pkg/cache"
	"github.com/matzehuels/pinroute/pkg/pipeline"
	"github.com/matzehuels/pinroute/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string // listen address
	redis   string // redis URL for the result cache (empty = file cache)
	mongo   string // mongodb URI for run history (empty = in-memory)
	mongoDB string // mongodb database name
	noCache bool
}

// serveCommand creates the serve command, running the pipeline as an HTTP
// service. By default the server uses the local file cache and keeps run
// history in memory; --redis and --mongo switch both to shared backends so
// multiple instances can serve the same deployment.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the routing pipeline as an HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "redis URL for the result cache (e.g. redis://localhost:6379/0)")
	cmd.Flags().StringVar(&opts.mongo, "mongo", "", "mongodb URI for run history (e.g. mongodb://localhost:27017)")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", appName, "mongodb database name")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable result caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	runStore, err := c.newStore(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = runStore.Close(shutdownCtx)
	}()

	resultCache, err := c.newServeCache(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(resultCache, nil, c.Logger)
	defer runner.Close()

	server := api.NewServer(runner, runStore, c.Logger)
	httpServer := &http.Server{
		Addr:              opts.addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", opts.addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return ctx.Err()
	}
}

// newStore builds the run store: MongoDB when configured, in-memory otherwise.
func (c *CLI) newStore(ctx context.Context, opts *serveOpts) (store.Store, error) {
	if opts.mongo == "" {
		return store.NewMemoryStore(), nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return store.NewMongoStore(connectCtx, opts.mongo, opts.mongoDB)
}

// newServeCache builds the result cache: Redis when configured, otherwise
// the same file cache the CLI commands use.
func (c *CLI) newServeCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redis != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return cache.NewRedisCache(connectCtx, opts.redis)
	}
	return newCache(false)
}
