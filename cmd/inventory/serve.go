package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/erazemk/inventory/internal/access"
	"github.com/erazemk/inventory/internal/api"
	"github.com/erazemk/inventory/internal/config"
	"github.com/erazemk/inventory/internal/db"
	"github.com/erazemk/inventory/internal/store"
	"github.com/erazemk/inventory/internal/uploads"
	"github.com/erazemk/inventory/internal/validate"
	"github.com/erazemk/inventory/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server (default)",
	RunE:  runServe,
}

func init() {
	addServeFlags(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("host", "", "listen host (default: all interfaces)")
	flags.IntP("port", "p", 8080, "listen port")
	flags.String("upload-dir", "uploads", "directory for uploaded images")
}

// bindServeFlags binds the flags of the command actually being run, so
// serve and the bare root command share the same keys.
func bindServeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	bindFlag(config.KeyHost, flags.Lookup("host"))
	bindFlag(config.KeyPort, flags.Lookup("port"))
	bindFlag(config.KeyUploadDir, flags.Lookup("upload-dir"))
}

func runServe(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}
	database, err := db.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer database.Close()

	// A schema failure is logged and the server still starts; requests
	// touching the store then fail with 500 until the problem is fixed.
	if err := db.Migrate(database); err != nil {
		slog.Error("failed to prepare database schema", "path", cfg.DB, "error", err)
	} else {
		slog.Info("database ready", "path", cfg.DB)
	}

	repo := store.New(database)

	secret, err := repo.GetSigningSecret(context.Background())
	if err != nil {
		slog.Error("failed to load signing secret, flash messages will not survive a restart", "error", err)
		secret, err = generatePassword(32)
		if err != nil {
			return fmt.Errorf("generating signing secret: %w", err)
		}
	}

	files, err := uploads.New(cfg.UploadDir)
	if err != nil {
		return err
	}

	templates, err := web.LoadTemplates()
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}

	s := &web.Server{
		Store:     repo,
		Templates: templates,
		Validator: validate.New(cfg.Limits, repo, files),
		Access:    access.NewChecker(repo),
		Uploads:   files,
		Secret:    secret,
	}

	// Combine: API and metrics routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewRouter(repo))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/", web.NewRouter(s, files))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", server.Addr, "uploads", cfg.UploadDir)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
