package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/sagarc03/camupload"
	"github.com/sagarc03/camupload/config"
	"github.com/sagarc03/camupload/filesystem"
	camhttp "github.com/sagarc03/camupload/http"
	"github.com/sagarc03/camupload/keybackend"
	"github.com/sagarc03/camupload/metrics"
)

const shutdownTimeout = 30 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := configFromCmd(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	uploadPath, err := filepath.Abs(cfg.Upload.Path)
	if err != nil {
		return fmt.Errorf("resolve upload path: %w", err)
	}

	if err = os.MkdirAll(uploadPath, 0o755); err != nil {
		return fmt.Errorf("create upload directory: %w", err)
	}

	root, err := os.OpenRoot(uploadPath)
	if err != nil {
		return fmt.Errorf("open upload root: %w", err)
	}
	defer func() { _ = root.Close() }()

	storage := filesystem.NewFileStorage(root)

	auth, err := newAuthenticator(cfg)
	if err != nil {
		return err
	}

	handlerConfig := camhttp.HandlerConfig{
		Authenticator: auth,
		Logger:        slog.Default(),
		CORS:          cfg.CORS,
		MaxUploadSize: cfg.Upload.MaxSize,
		TrustProxy:    cfg.HTTP.TrustProxy,
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		collector := metrics.NewCollector()
		handlerConfig.Metrics = collector
		metricsServer = startMetricsServer(cfg.Metrics.Port, collector)
	}

	handler := camhttp.NewHandler(&handlerConfig, storage)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", addr, "upload_path", uploadPath, "auth", auth.Mode())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown error", "err", err)
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newAuthenticator builds the upload authenticator selected by upload.auth.
func newAuthenticator(cfg *config.Config) (camupload.Authenticator, error) {
	authCfg := camupload.AuthConfig{
		Mode:  cfg.Upload.AuthMode(),
		Token: cfg.Upload.Token,
		Realm: cfg.Upload.Realm,
	}

	switch authCfg.Mode {
	case camupload.AuthToken:
		if authCfg.Token == "" {
			slog.Warn("upload token is empty; uploads without a token are accepted")
		}
	case camupload.AuthBasic:
		store, err := keybackend.NewCredentialStore(keybackend.CredentialsConfig{
			Username: cfg.Upload.Username,
			Password: cfg.Upload.Password,
			File:     cfg.Upload.CredentialsFile,
		})
		if err != nil {
			return nil, fmt.Errorf("load credentials: %w", err)
		}
		if store.Len() == 0 {
			return nil, errors.New("basic auth is enabled but no credentials are configured")
		}
		slog.Info("loaded upload credentials", "users", store.Len())
		authCfg.Store = store
	}

	auth, err := camupload.NewAuthenticator(authCfg)
	if err != nil {
		return nil, fmt.Errorf("create authenticator: %w", err)
	}
	return auth, nil
}

func startMetricsServer(port int, collector *metrics.Collector) *http.Server {
	r := chi.NewRouter()
	r.Handle("/metrics", collector.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting metrics server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server error", "err", err)
		}
	}()

	return server
}
