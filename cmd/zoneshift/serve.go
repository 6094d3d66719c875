package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleister1102/zoneshift/internal/app"
	"github.com/aleister1102/zoneshift/internal/config"
	"github.com/aleister1102/zoneshift/internal/httpapi"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var (
	serveAddr        string
	serveWatch       bool
	serveReloadDelay time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the conversion API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server_config.addr)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true, "reload the timezone settings when the config file changes")
	serveCmd.Flags().DurationVar(&serveReloadDelay, "reload-delay", 2*time.Second, "debounce delay for config reloads")
	_ = overrides.BindPFlag(config.KeyServerAddr, serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cm, err := config.NewConfigManager(cfgFile, config.ConfigManagerOptions{
		Logger:           appLogger,
		Overrides:        overrides,
		HotReloadEnabled: serveWatch,
		ReloadDelay:      serveReloadDelay,
	})
	if err != nil {
		return err
	}
	defer cm.Close()
	cfg := cm.GetConfig()

	a, err := app.Build(ctx, cfg, app.Options{Logger: appLogger})
	if err != nil {
		return err
	}
	defer a.Close()

	cm.OnReload(func(next *config.GlobalConfig) {
		_ = a.Reload(next)
	})
	if cm.IsHotReloadEnabled() {
		cm.StartHotReload(ctx)
	}

	handler := httpapi.New(a.Engines, appLogger,
		httpapi.WithMetrics(a.Metrics),
		httpapi.WithSessionLocale(cfg.TimezoneConfig.SessionLocale),
	)
	router := httpapi.NewRouter(handler, httpapi.SessionConfig{
		Header:       cfg.ServerConfig.SessionHeader,
		Cookie:       cfg.ServerConfig.SessionCookie,
		LocaleHeader: cfg.ServerConfig.LocaleHeader,
	}, a.Registry)
	srv := httpapi.NewServer(cfg.ServerConfig.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().Str("addr", srv.Addr).Msg("HTTP API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	appLogger.Info().Msg("Shutting down HTTP API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
