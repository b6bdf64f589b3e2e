package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sensorapi/internal/app"
	"sensorapi/internal/config"
	"sensorapi/internal/logging"
)

func newRootCmd() *cobra.Command {
	var configPath string

	runServe := func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), configPath)
	}

	root := &cobra.Command{
		Use:          logging.AppName,
		Short:        "Authenticated HTTP API over stored temperature and humidity readings",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML or JSON configuration file (sets CONFIG_FILE)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the build version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			},
		},
	)
	return root
}

func serve(parent context.Context, configPath string) error {
	if configPath != "" {
		if err := os.Setenv("CONFIG_FILE", configPath); err != nil {
			return err
		}
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger := logging.New(cfg, version)
	slog.SetDefault(logger)

	slog.Info("starting",
		"app", logging.AppName,
		"version", version,
		"env", cfg.AppEnv,
		"log_level", cfg.LogLevel.String(),
	)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "err", err)
		return err
	}

	slog.Info("shutting down")
	return nil
}
