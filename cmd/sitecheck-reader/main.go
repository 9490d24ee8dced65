package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/a3tai/sitecheck-reader/internal/api"
	"github.com/a3tai/sitecheck-reader/internal/config"
	"github.com/a3tai/sitecheck-reader/internal/logging"
	"github.com/a3tai/sitecheck-reader/internal/mcp"
	"github.com/a3tai/sitecheck-reader/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

const shutdownTimeout = 10 * time.Second

// newLogger builds the process logger. Logs always go to stderr so the MCP
// stream on stdout stays clean.
func newLogger(cfg *config.Config, out io.Writer) (zerolog.Logger, error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Format = cfg.LogFormat
	return logging.New(logCfg, out)
}

// newHTTPServer wires the API behind an http.Server with bounded timeouts
func newHTTPServer(cfg *config.Config, service *pdf.Service, logger zerolog.Logger) *http.Server {
	return &http.Server{
		Addr:         cfg.Address(),
		Handler:      api.NewServer(service, cfg.APIKey, logging.WithComponent(logger, "api")),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// runServerMode serves the HTTP API until a signal arrives or ctx is done
func runServerMode(ctx context.Context, cfg *config.Config, service *pdf.Service, logger zerolog.Logger) error {
	httpServer := newHTTPServer(cfg, service, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info().Str("address", httpServer.Addr).Msg("starting HTTP API")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	select {
	case err := <-serverErrCh:
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-serverErrCh
}

// runStdioMode serves MCP over stdio. The parent process controls the
// lifecycle and closes stdin to stop us.
func runStdioMode(ctx context.Context, cfg *config.Config, service *pdf.Service, logger zerolog.Logger) error {
	server, err := mcp.NewServer(cfg, service, logging.WithComponent(logger, "mcp"))
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return server.Run(ctx)
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion(os.Stdout)
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logging: %v\n", err)
		os.Exit(1)
	}
	logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")

	service, err := pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory, logging.WithComponent(logger, "pdf"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create PDF service")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.IsServerMode() {
		err = runServerMode(ctx, cfg, service, logger)
	} else {
		err = runStdioMode(ctx, cfg, service, logger)
	}
	if err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "Sitecheck Reader\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
