package cli

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphtext/internal/config"
	"github.com/matzehuels/graphtext/internal/server"
	apperrors "github.com/matzehuels/graphtext/pkg/errors"
	"github.com/matzehuels/graphtext/pkg/snippet"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	store   string
	noCache bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the drawing page and JSON API",
		Long: `Serve runs an HTTP server with the interactive drawing page at / and a
JSON API under /api. Shared snippets are kept in memory or in MongoDB,
rendered artifacts in the configured cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.store, "store", "", "snippet store: memory or mongo (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	cfg := c.settings()
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.store != "" {
		cfg.Store.Backend = opts.store
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = store.Close(closeCtx)
	}()

	srv := server.New(server.Options{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout.Duration,
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Duration,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		Defaults:        drawDefaults(cfg),
		Runner:          runner,
		Store:           store,
		Logger:          c.Logger,
	})

	printInfo("Serving %s", StyleLink.Render(serverURL(cfg.Server.Addr)))
	printDetail("cache: %s · store: %s", cacheBackend(cfg, opts.noCache), cfg.Store.Backend)
	return srv.Run(ctx)
}

// newStore opens the configured snippet store.
func newStore(ctx context.Context, cfg *config.Config) (snippet.Store, error) {
	switch cfg.Store.Backend {
	case "", "memory":
		return snippet.NewMemoryStore(cfg.Store.Limit), nil
	case "mongo":
		return snippet.NewMongoStore(ctx, snippet.MongoOptions{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
	}
	return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown snippet store %q (must be memory or mongo)", cfg.Store.Backend)
}

// serverURL turns a listen address into a browsable URL.
func serverURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func cacheBackend(cfg *config.Config, noCache bool) string {
	if noCache {
		return "none"
	}
	return strings.ToLower(cfg.Cache.Backend)
}
