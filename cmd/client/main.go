package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	apihttp "github.com/Akshay-Kumar/organizerr-client/internal/api/http"
	"github.com/Akshay-Kumar/organizerr-client/internal/api/rest"
	"github.com/Akshay-Kumar/organizerr-client/internal/app"
	"github.com/Akshay-Kumar/organizerr-client/internal/metrics"
	"github.com/Akshay-Kumar/organizerr-client/internal/telemetry"
	"github.com/Akshay-Kumar/organizerr-client/internal/torrents"
)

func main() {
	cfg := app.LoadConfig()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics.Register(prometheus.DefaultRegisterer)

	shutdownTracer, err := telemetry.Init(context.Background(), "organizerr-client")
	if err != nil {
		logger.Warn("otel init failed", slog.String("error", err.Error()))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	logger.Info("configuration loaded",
		slog.String("service", "organizerr-client"),
		slog.String("apiBaseURL", cfg.APIBaseURL),
		slog.String("wsHost", cfg.WSHost),
		slog.String("wsPort", cfg.WSPort),
		slog.Bool("wsSecure", cfg.WSSecure),
		slog.String("httpAddr", cfg.HTTPAddr),
		slog.Int64("reconnectDelayMs", cfg.ReconnectDelay.Milliseconds()),
		slog.String("logLevel", cfg.LogLevel),
		slog.String("logFormat", cfg.LogFormat),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := rest.NewClient(rest.Config{
		BaseURL:    cfg.APIBaseURL,
		SearchRate: rate.Limit(cfg.SearchRate),
	})

	token := cfg.AuthToken
	if token == "" && cfg.AuthUsername != "" {
		loginCtx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
		token, err = backend.Login(loginCtx, cfg.AuthUsername, cfg.AuthPassword)
		cancel()
		if err != nil {
			logger.Error("login failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("logged in", slog.String("username", cfg.AuthUsername))
	}

	manager := torrents.NewManager(torrents.Config{
		Backend: backend,
		Dialer:  torrents.NewWSDialer(),
		Endpoint: torrents.Endpoint{
			Secure: cfg.WSSecure,
			Host:   cfg.WSHost,
			Port:   cfg.WSPort,
		},
		ReconnectDelay: cfg.ReconnectDelay,
		Logger:         logger,
	})
	if token != "" {
		manager.Activate(token)
	} else {
		logger.Warn("no auth token configured, sync stays inactive")
	}

	handler := apihttp.NewServer(manager, apihttp.WithLogger(logger))
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(rootCtx)
	group.Go(func() error {
		logger.Info("local api started", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutdown signal received")

		manager.Deactivate()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error("http server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("client stopped")
}

func newLogger(levelRaw, formatRaw string) *slog.Logger {
	level := parseLogLevel(levelRaw)
	options := &slog.HandlerOptions{Level: level}
	format := strings.ToLower(strings.TrimSpace(formatRaw))
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, options))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, options))
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
