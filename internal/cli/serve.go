package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/kazin-kharizma/element-call/internal/server"
	"github.com/kazin-kharizma/element-call/pkg/session"
)

// shutdownTimeout bounds graceful HTTP shutdown on interrupt.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command for running the layout service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		redisAddr  string
		mongoURI   string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the grid layout HTTP service",
		Long: `Run the grid layout HTTP service.

The service exposes a stateless layout endpoint plus call sessions: each
call keeps a live tile controller on the server, driven by participant
updates and pointer events.

Sessions are held in memory by default. With --redis, arrangements are
persisted to Redis so calls survive restarts and can move between
instances. With --mongo-uri, named arrangements can be archived to
MongoDB and restored into later calls.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisAddr, mongoURI, configPath)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8480", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for session persistence (e.g. localhost:6379)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB URI for the arrangement archive")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML geometry config file")

	return cmd
}

// runServe wires the stores, starts the HTTP server and blocks until ctx is
// cancelled.
func (c *CLI) runServe(ctx context.Context, addr, redisAddr, mongoURI, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var store session.Store = session.NewMemoryStore()
	if redisAddr != "" {
		rs, err := session.NewRedisStore(ctx, redisAddr)
		if err != nil {
			return err
		}
		defer rs.Close()
		store = rs
		c.Logger.Info("using redis session store", "addr", redisAddr)
	}

	var archive *server.Archive
	if mongoURI != "" {
		archive, err = server.NewArchive(ctx, mongoURI)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			archive.Close(closeCtx)
		}()
		c.Logger.Info("arrangement archive enabled")
	}

	srv := server.New(c.Logger, cfg, store, archive)
	defer srv.Close()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Router(),
		BaseContext: func(net.Listener) context.Context {
			return withLogger(context.Background(), c.Logger)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
