package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/battuto/EtfManager/internal/usecase"
	"github.com/battuto/EtfManager/pkg/cache"
	"github.com/battuto/EtfManager/pkg/config"
	xhttp "github.com/battuto/EtfManager/pkg/http"
	applogger "github.com/battuto/EtfManager/pkg/logger"
	"github.com/battuto/EtfManager/pkg/scheduler"
	pkgsqlite "github.com/battuto/EtfManager/pkg/sqlite"
)

// App encapsulates the application lifecycle: the HTTP server, the alert
// check scheduler and the infrastructure clients it owns.
type App struct {
	cfg          *config.Config
	l            *applogger.Logger
	handlers     []xhttp.Handler
	alerts       *usecase.Alerts
	sqliteClient *pkgsqlite.Client
	redisCache   *cache.RedisCache

	httpServer *xhttp.Server
	sched      *scheduler.Scheduler
}

// New creates an App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handlers []xhttp.Handler,
	alerts *usecase.Alerts,
	sqliteClient *pkgsqlite.Client,
	redisCache *cache.RedisCache,
) *App {
	return &App{
		cfg:          cfg,
		l:            l,
		handlers:     handlers,
		alerts:       alerts,
		sqliteClient: sqliteClient,
		redisCache:   redisCache,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handlers,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(a.cfg.Metrics.Path),
		xhttp.WithRequestMetrics(a.l, time.Second),
	)

	if a.cfg.Alerts.Enabled {
		a.sched = scheduler.New(a.l)
		if err := a.sched.AddJob(a.cfg.Alerts.CheckSchedule, usecase.NewAlertCheckJob(a.alerts)); err != nil {
			a.l.Error("alert job registration failed", applogger.Error(err))
		} else {
			a.sched.Start()
			a.l.Info("alert scheduler started", applogger.String("schedule", a.cfg.Alerts.CheckSchedule))
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services and closes owned clients.
func (a *App) shutdown(ctx context.Context) error {
	if a.sched != nil {
		a.sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if a.redisCache != nil {
		if err := a.redisCache.Close(); err != nil {
			a.l.Warn("redis close error", applogger.Error(err))
		}
	}
	if a.sqliteClient != nil {
		if err := a.sqliteClient.Close(); err != nil {
			a.l.Warn("sqlite close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
