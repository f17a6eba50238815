package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/backstack/internal/logging"
	"github.com/aretw0/backstack/pkg/adapters/file"
	"github.com/aretw0/backstack/pkg/routes"
	"github.com/spf13/cobra"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "backstack",
		Short:         "backstack is a stack-based screen navigation core",
		Long:          `backstack resolves route tables, reduces navigation actions and arbitrates the platform back button.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	cmd.AddCommand(
		newValidateCmd(),
		newRoutesCmd(),
		newResolveCmd(),
		newReplayCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loggerFrom builds the logger selected by the persistent flags.
func loggerFrom(cmd *cobra.Command) (*slog.Logger, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")

	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	switch format {
	case "json":
		return logging.NewJSON(cmd.ErrOrStderr(), level), nil
	case "text":
		return logging.New(level), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// loadTable reads and builds the route table at path.
func loadTable(ctx context.Context, path string, opts ...file.Option) (*file.Loader, *routes.Table, error) {
	loader, err := file.New(path, opts...)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := loader.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	table, err := routes.Build(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return loader, table, nil
}
