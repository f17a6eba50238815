package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/backstack"
	"github.com/aretw0/backstack/internal/presentation/tui"
	httpAdapter "github.com/aretw0/backstack/pkg/adapters/http"
	"github.com/aretw0/backstack/pkg/adapters/file"
	"github.com/aretw0/backstack/pkg/adapters/memory"
	"github.com/aretw0/backstack/pkg/adapters/redis"
	"github.com/aretw0/backstack/pkg/observability"
	"github.com/aretw0/backstack/pkg/routes"
	"github.com/aretw0/backstack/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve navigation sessions over HTTP",
		Long:  `Starts the session shell, exposing a JSON API over HTTP. Sessions live in process memory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := loggerFrom(cmd)
			if err != nil {
				return err
			}
			configPath, _ := cmd.Flags().GetString("config")
			port, _ := cmd.Flags().GetString("port")
			redisAddr, _ := cmd.Flags().GetString("redis")
			watch, _ := cmd.Flags().GetBool("watch")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			loader, table, err := loadTable(ctx, configPath, file.WithLogger(logger))
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics := observability.NewMetrics(reg)
			streams := httpAdapter.NewStreamManager()
			hooks := metrics.Hooks().
				Merge(streams.Hooks()).
				Merge(observability.LogHooks(logger))

			opts := []session.Option{
				session.WithLogger(logger),
				session.WithLifecycleHooks(hooks),
			}
			if redisAddr != "" {
				locker, err := redis.Dial(ctx, redisAddr)
				if err != nil {
					return err
				}
				defer locker.Close()
				opts = append(opts, session.WithLocker(locker))
				logger.Info("distributed locking enabled", "redis", redisAddr)
			}
			manager := session.NewManager(memory.NewStore(), table, opts...)

			if watch {
				if err := watchConfig(ctx, loader, manager, logger); err != nil {
					return err
				}
			}

			srv := &http.Server{
				Addr: ":" + port,
				Handler: httpAdapter.NewHandler(manager,
					httpAdapter.WithStreams(streams),
					httpAdapter.WithGatherer(reg),
					httpAdapter.WithLogger(logger),
				),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)
			go func() {
				tui.PrintBanner(cmd.ErrOrStderr(), backstack.Version)
				logger.Info("starting server", "addr", srv.Addr, "config", configPath, "routes", len(table.Keys()))
				serverErrors <- srv.ListenAndServe()
			}()

			select {
			case err := <-serverErrors:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server error: %w", err)
				}
				return nil

			case <-ctx.Done():
				logger.Info("shutting down")
				// Give outstanding requests a deadline for completion.
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
					return srv.Close()
				}
				logger.Info("server stopped gracefully")
				return nil
			}
		},
	}
	cmd.Flags().StringP("config", "c", "routes.yaml", "Route table file (.yaml, .json, .toml)")
	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().String("redis", "", "Redis address for cross-replica session locks")
	cmd.Flags().Bool("watch", false, "Reload the route table when the file changes")
	return cmd
}

// watchConfig swaps the manager's table whenever the file changes.
// A broken edit keeps the previous table.
func watchConfig(ctx context.Context, loader *file.Loader, manager *session.Manager, logger *slog.Logger) error {
	changes, err := loader.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for range changes {
			cfg, err := loader.Load(ctx)
			if err == nil {
				var table *routes.Table
				if table, err = routes.Build(cfg); err == nil {
					manager.SetTable(table)
					logger.Info("routes reloaded", "path", loader.Path(), "routes", len(table.Keys()))
					continue
				}
			}
			logger.Error("reload failed, keeping previous routes", "path", loader.Path(), "err", err)
		}
	}()
	return nil
}
