package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexim39/marketspase-engine/api/routes"
	"github.com/alexim39/marketspase-engine/internal/cart"
	"github.com/alexim39/marketspase-engine/internal/catalog"
	"github.com/alexim39/marketspase-engine/internal/wishlist"
	"github.com/alexim39/marketspase-engine/pkg/config"
	"github.com/alexim39/marketspase-engine/pkg/enums"
	"github.com/alexim39/marketspase-engine/pkg/logger"
	"github.com/alexim39/marketspase-engine/pkg/metrics"
	"github.com/alexim39/marketspase-engine/pkg/notify"
	"github.com/alexim39/marketspase-engine/pkg/storage"
	"github.com/alexim39/marketspase-engine/pkg/storage/redisstore"
	"github.com/alexim39/marketspase-engine/pkg/storage/sqlitestore"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	store, err := newStore(ctx, cfg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap durable store", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	engineMetrics := metrics.NewEngineMetrics(registry)
	notifier := notify.NewLogSink(logg)

	catalogEngine := catalog.NewEngine(catalog.EngineParams{Metrics: engineMetrics})
	if products, err := loadCatalog(cfg.Catalog); err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "starting with an empty catalog")
	} else if products != nil {
		catalogEngine.SetCatalog(products)
		logg.Info(logg.WithField(ctx, "count", len(products)), "catalog loaded")
	}

	cartService, err := cart.NewService(ctx, cart.ServiceParams{
		Store:    store,
		Logger:   logg,
		Notifier: notifier,
		Metrics:  engineMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart engine", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(ctx, wishlist.ServiceParams{
		Store:    store,
		Cart:     cartService,
		Logger:   logg,
		Notifier: notifier,
		Metrics:  engineMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create wishlist engine", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": cfg.Storage.Backend,
	})
	logg.Info(ctx, "starting storefront server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, store, catalogEngine, cartService, wishlistService, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.BackendKind() {
	case enums.StorageMemory:
		return storage.NewMemoryStore(), nil
	case enums.StorageSQLite:
		return sqlitestore.Open(cfg.Storage.SQLitePath)
	case enums.StorageRedis:
		return redisstore.New(ctx, cfg.Redis)
	default:
		return storage.NewFileStore(cfg.Storage.DataDir)
	}
}

// loadCatalog fetches the boot-time product snapshot from a local file or an
// upstream URL. Neither being configured is not an error.
func loadCatalog(cfg config.CatalogConfig) ([]catalog.Product, error) {
	var payload []byte
	switch {
	case cfg.Path != "":
		raw, err := os.ReadFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		payload = raw
	case cfg.URL != "":
		resp, err := http.Get(cfg.URL)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		var products []catalog.Product
		if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
			return nil, err
		}
		return products, nil
	default:
		return nil, nil
	}

	var products []catalog.Product
	if err := json.Unmarshal(payload, &products); err != nil {
		return nil, err
	}
	return products, nil
}
