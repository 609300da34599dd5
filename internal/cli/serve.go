package cli

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/matzehuels/classview/internal/server"
	"github.com/matzehuels/classview/pkg/observability"
	"github.com/matzehuels/classview/pkg/source"
	"github.com/matzehuels/classview/pkg/store"
)

// serveCommand creates the serve command running the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		dir     string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve visualization sessions over HTTP",
		Long: `Serve visualization sessions over HTTP.

Remote render surfaces create sessions, load hierarchies and stream pointer
events over a websocket. Sessions are snapshotted to the configured store
(store.backend: memory, file or mongo) and restored on demand.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), dir, noCache)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&dir, "dir", "", "serve mappings from this directory instead of the backend")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().String("store-backend", "", "snapshot store: memory, file or mongo")
	_ = cmd.RegisterFlagCompletionFunc("store-backend", completeStoreBackend)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, dir string, noCache bool) (err error) {
	cfg := c.config()
	observability.NewLogHooks(c.Logger).Register()

	opts := server.Options{
		Addr:            cfg.Server.Addr,
		Spacing:         cfg.Layout.Spacing(),
		NodeSize:        cfg.Layout.NodeSize(),
		SnapshotTTL:     cfg.Store.TTL,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          c.Logger,
	}

	// Closed in reverse order on return.
	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if cerr := closers[i](); cerr != nil {
				err = multierror.Append(err, cerr)
			}
		}
	}()

	if dir != "" {
		opts.Source = source.NewFileSource(dir)
		c.Logger.Info("serving mappings", "dir", dir)
	} else {
		client, cc, err := c.newClient(ctx, noCache)
		if err != nil {
			return err
		}
		closers = append(closers, cc.Close)
		opts.Client = client
		c.Logger.Info("using analysis backend", "url", client.BaseURL())
	}

	// The server takes over the store and the runner once it exists.
	owned := len(closers)

	st, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return fmt.Errorf("snapshot store: %w", err)
	}
	closers = append(closers, st.Close)
	opts.Store = st
	c.Logger.Info("snapshot store", "backend", cfg.Store.Backend)

	runner, err := c.newRunner(ctx, nil, noCache)
	if err != nil {
		return err
	}
	closers = append(closers, runner.Close)
	opts.Runner = runner

	srv, err := server.New(opts)
	if err != nil {
		return err
	}
	closers = append(closers[:owned], srv.Close)

	return srv.Serve(ctx)
}
