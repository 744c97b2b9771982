package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cli/browser"
	"github.com/spf13/cobra"

	githubadapter "github.com/ericfisherdev/journeydemo/internal/adapter/driven/github"
	httphandler "github.com/ericfisherdev/journeydemo/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/journeydemo/internal/adapter/driving/web"
	"github.com/ericfisherdev/journeydemo/internal/application"
	"github.com/ericfisherdev/journeydemo/internal/buildinfo"
	"github.com/ericfisherdev/journeydemo/internal/domain/port/driven"
)

func serve(cmd *cobra.Command) error {
	// 1. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Load configuration, open storage and wire services.
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	cfg, log := a.cfg, a.logger
	version := buildinfo.Current()

	// 3. Release checker (disabled by update_check=false).
	var releases driven.ReleaseSource
	if cfg.UpdateCheck {
		checker, err := githubadapter.NewReleaseChecker(cfg.UpdateRepo)
		if err != nil {
			return err
		}
		releases = checker
	}
	updates := application.NewUpdateService(releases, version)

	// 4. HTTP handlers.
	apiHandler := httphandler.NewHandler(
		a.resolver, a.gateway, a.history, a.prefs, updates, a.events,
		httphandler.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		log,
	)
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	assets, err := webhandler.Assets(cfg.StaticDir)
	if err != nil {
		return err
	}
	webHandler := webhandler.NewHandler(assets, a.resolver, updates, version, log)
	webhandler.RegisterRoutes(mux, webHandler)

	handler := httphandler.ApplyMiddleware(mux, log)

	// 5. Listen before serving so port 0 resolves to the real address.
	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.ListenAddr, err)
	}
	url := "http://" + ln.Addr().String()

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.UpstreamTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server starting", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	log.Info("journeydemo started",
		"url", url,
		"version", version,
		"configured", a.resolver.IsConfigured(ctx),
	)

	// 6. Background update check, logged once.
	if releases != nil {
		go func() {
			checkCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			defer cancel()
			if report := updates.Check(checkCtx); report.Available {
				log.Info("a newer release is available", "latest", report.Latest, "url", report.URL)
			}
		}()
	}

	if cfg.OpenBrowser {
		if err := browser.OpenURL(url); err != nil {
			log.Warn("could not open browser", "url", url, "error", err)
		}
	}

	// 7. Wait for shutdown signal or a server failure.
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			log.Error("http server error", "error", err)
		}
	}

	// 8. Graceful shutdown with 10s timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown error", "error", err)
	}

	log.Info("shutdown complete")
	return nil
}
