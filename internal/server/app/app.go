package app

import (
	"context"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Kyrilous/AutoLogg/internal/server/config"
	"github.com/Kyrilous/AutoLogg/internal/server/httpapi"
	"github.com/Kyrilous/AutoLogg/internal/server/identity"
	"github.com/Kyrilous/AutoLogg/internal/server/repository/sqlite"
	"github.com/Kyrilous/AutoLogg/internal/server/service"
)

type App struct {
	version   string
	buildDate string
	logger    *zap.Logger
	server    *http.Server
	repoClose io.Closer
}

func New(version, buildDate string, logger *zap.Logger) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.UsingDevSecret() {
		logger.Warn("using development verifier secret; set AUTOLOGG_VERIFIER_SECRET")
	}
	repo, err := sqlite.New(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	records := service.NewRecords(repo)
	verifier := identity.NewTokenVerifier(cfg.VerifierSecret, cfg.VerifierIssuer, cfg.VerifierAudience)
	router := httpapi.NewRouter(records, verifier, logger, cfg.CORSOrigins)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &App{version: version, buildDate: buildDate, logger: logger, server: server, repoClose: repo}, nil
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer func() { _ = a.repoClose.Close() }()

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("http server error", zap.Error(err))
		}
	}()

	a.logger.Info("AutoLogg server listening",
		zap.String("version", a.version),
		zap.String("build_date", a.buildDate),
		zap.String("addr", a.server.Addr),
	)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.server.Shutdown(shutdownCtx)
}
