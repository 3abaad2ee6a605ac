package di

import (
	"context"
	"fmt"
	"time"

	"github.com/battuto/EtfManager/internal/domain/repository"
	"github.com/battuto/EtfManager/internal/handler/api"
	internalrepo "github.com/battuto/EtfManager/internal/repository"
	"github.com/battuto/EtfManager/internal/service/prices"
	"github.com/battuto/EtfManager/internal/usecase"
	"github.com/battuto/EtfManager/pkg/cache"
	"github.com/battuto/EtfManager/pkg/config"
	xhttp "github.com/battuto/EtfManager/pkg/http"
	applogger "github.com/battuto/EtfManager/pkg/logger"
	"github.com/battuto/EtfManager/pkg/metrics"
	"github.com/battuto/EtfManager/pkg/server"
	pkgsqlite "github.com/battuto/EtfManager/pkg/sqlite"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideSQLiteClient opens the database and applies the schema.
func ProvideSQLiteClient(cfg *config.Config) (*pkgsqlite.Client, error) {
	client, err := pkgsqlite.NewClient(
		pkgsqlite.WithPath(cfg.Database.Path),
		pkgsqlite.WithBusyTimeout(cfg.Database.BusyTimeout),
		pkgsqlite.WithForeignKeys(true),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.SchemaStatements()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return client, nil
}

// ProvideRedisCache opens a redis connection when the configured backend
// needs one. It is nil for the memory backend; the caller owns closing it.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	switch cfg.Cache.Backend {
	case "redis", "layered":
		return newRedisCache(cfg)
	default:
		return nil, nil
	}
}

// ProvideCacheService selects the cache backend from config.
func ProvideCacheService(cfg *config.Config, rc *cache.RedisCache) cache.Service {
	switch cfg.Cache.Backend {
	case "redis":
		return rc
	case "layered":
		return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(cfg.Cache.MaxSize))
	default:
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MaxSize))
	}
}

func newRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideTransactionStore creates the SQLite-backed transaction store.
func ProvideTransactionStore(client *pkgsqlite.Client, l *applogger.Logger) repository.TransactionStore {
	store := internalrepo.NewSQLiteTransactionStore(client)
	store.SetLogger(l)
	return store
}

// ProvideAlertStore creates the SQLite-backed alert store.
func ProvideAlertStore(client *pkgsqlite.Client, l *applogger.Logger) repository.AlertStore {
	store := internalrepo.NewSQLiteAlertStore(client)
	store.SetLogger(l)
	return store
}

// ProvidePriceSource creates the quote and history client.
func ProvidePriceSource(cfg *config.Config, c cache.Service, m repository.Metrics, l *applogger.Logger) repository.PriceSource {
	return prices.NewClient(c,
		prices.WithEndpoints(cfg.Prices.QuoteURL, cfg.Prices.HistoryURL),
		prices.WithMarket(cfg.Prices.Locale, cfg.Prices.Currency),
		prices.WithRetries(cfg.Prices.MaxRetries),
		prices.WithTTLs(cfg.Prices.QuoteTTL, cfg.Prices.HistoryTTL),
		prices.WithFetchTimeout(cfg.Prices.FetchTimeout),
		prices.WithMetrics(m),
		prices.WithLogger(l),
	)
}

// ProvideAnalytics creates the analytics orchestrator.
func ProvideAnalytics(store repository.TransactionStore, src repository.PriceSource, m repository.Metrics, l *applogger.Logger, cfg *config.Config) *usecase.Analytics {
	return usecase.NewAnalytics(store, src, m, l, cfg.Analytics.RiskFreeRate)
}

// ProvideInvestments creates the transaction ledger usecase.
func ProvideInvestments(store repository.TransactionStore, src repository.PriceSource, m repository.Metrics, l *applogger.Logger) *usecase.Investments {
	return usecase.NewInvestments(store, src, m, l)
}

// ProvideAlerts creates the alert usecase.
func ProvideAlerts(store repository.AlertStore, analytics *usecase.Analytics, src repository.PriceSource, m repository.Metrics, l *applogger.Logger, cfg *config.Config) *usecase.Alerts {
	return usecase.NewAlerts(store, analytics, src, m, l, cfg.Alerts.RetriggerWait)
}

// ProvideHandlers collects all HTTP handlers for route registration.
func ProvideHandlers(l *applogger.Logger, analytics *usecase.Analytics, investments *usecase.Investments, alerts *usecase.Alerts) []xhttp.Handler {
	return []xhttp.Handler{
		api.NewAnalyticsHandler(l, analytics),
		api.NewInvestmentsHandler(l, investments),
		api.NewAlertsHandler(l, alerts),
	}
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handlers []xhttp.Handler,
	alerts *usecase.Alerts,
	sqliteClient *pkgsqlite.Client,
	redisCache *cache.RedisCache,
) *server.App {
	return server.New(cfg, l, handlers, alerts, sqliteClient, redisCache)
}
