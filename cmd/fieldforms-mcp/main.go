package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"

	"github.com/a3tai/fieldforms/internal/config"
	"github.com/a3tai/fieldforms/internal/mcp"
	"github.com/a3tai/fieldforms/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion(os.Stdout)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck // stderr sync fails on some terminals

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

// run builds the export service and the MCP server and blocks until ctx is
// cancelled or the transport stops
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Debug("starting", zap.Stringer("config", cfg))

	pdfService, err := newService(cfg, logger)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(cfg, pdfService, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := server.Run(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// newService maps the configuration onto the export service options
func newService(cfg *config.Config, logger *zap.Logger) (*pdf.Service, error) {
	svc, err := pdf.NewService(pdf.Options{
		OutputDirectory:  cfg.OutputDirectory,
		MaxFileSize:      cfg.MaxFileSize,
		MaxSignatureSize: cfg.MaxSignatureSize,
		PageSize:         cfg.PageSize,
		Company:          cfg.Company,
		Timeout:          cfg.Timeout,
		Workers:          cfg.Workers,
		Draft:            cfg.Draft,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create export service: %w", err)
	}
	return svc, nil
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "Field Forms MCP Server\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
