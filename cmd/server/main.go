package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/pacificsands/internal/config"
	"github.com/JonMunkholm/pacificsands/internal/content"
	"github.com/JonMunkholm/pacificsands/internal/logging"
	"github.com/JonMunkholm/pacificsands/internal/lots"
	"github.com/JonMunkholm/pacificsands/internal/lots/source"
	"github.com/JonMunkholm/pacificsands/internal/web"
)

func main() {
	// Overload lets a local .env win over the shell environment.
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	src, err := source.New(cfg)
	if err != nil {
		slog.Error("failed to configure data source", "error", err)
		os.Exit(1)
	}

	ctrl := lots.NewController(src,
		lots.WithLogger(logger),
		lots.WithLanguage(cfg.Data.LanguageTag()),
	)

	// A failed load is not fatal: the page shows the error row, as the
	// table would in the browser.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Data.LoadTimeout)
	if err := ctrl.Load(loadCtx); err != nil {
		slog.Warn("serving without lot data", "source", src.Name(), "code", lots.MapError(err).Code)
	}
	cancelLoad()

	intro, err := content.LoadIntro(cfg.Content.IntroPath)
	if err != nil {
		slog.Warn("intro not rendered", "error", err)
		intro = ""
	}

	server := web.NewServer(ctrl, cfg, intro)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
