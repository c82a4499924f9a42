package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tournevent/shipengine/internal/server"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "shipengine-bridge",
	Short:   "ShipEngine rate adapter - translates merchant shipment requests into multi-carrier rate quotes",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the rate adapter HTTP server",
	RunE:  runServe,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configured credentials against the ShipEngine API",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracer, tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(ctx)
	}

	store, storeCleanup, err := initStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer storeCleanup()

	adapter := initAdapter(cfg, store, logger, tracer)

	logger.Info("Starting ShipEngine rate adapter",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.Bool("sandbox", cfg.Sandbox),
	)

	srv := server.New(server.Config{Port: cfg.Port}, adapter, logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, storeCleanup, err := initStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer storeCleanup()

	adapter := initAdapter(cfg, store, logger, nil)

	if err := adapter.ValidateSettings(ctx); err != nil {
		return err
	}

	fmt.Println("ShipEngine settings are valid: carrier accounts found")
	return nil
}
