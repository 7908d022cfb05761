package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/prensprays-byte/library-inventory-system/api/routes"
	"github.com/prensprays-byte/library-inventory-system/internal/accounts"
	"github.com/prensprays-byte/library-inventory-system/internal/books"
	"github.com/prensprays-byte/library-inventory-system/internal/seeder"
	"github.com/prensprays-byte/library-inventory-system/internal/store"
	"github.com/prensprays-byte/library-inventory-system/internal/store/memstore"
	"github.com/prensprays-byte/library-inventory-system/internal/store/mongostore"
	"github.com/prensprays-byte/library-inventory-system/pkg/config"
	"github.com/prensprays-byte/library-inventory-system/pkg/logger"
	"github.com/prensprays-byte/library-inventory-system/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fallback := memstore.New()
	fallback.SeedDemoBooks()
	if err := seeder.Ensure(ctx, fallback, cfg.Admin, cfg.Password); err != nil {
		logg.Error(ctx, "failed to seed fallback admin", err)
		os.Exit(1)
	}

	var backing store.Store = fallback
	var durable *mongostore.Store
	if strings.TrimSpace(cfg.Mongo.URI) != "" {
		durable, err = mongostore.NewStore(cfg.Mongo, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap mongo client", err)
			os.Exit(1)
		}
		defer func() {
			if err := durable.Close(context.Background()); err != nil {
				logg.Error(context.Background(), "error closing mongo client", err)
			}
		}()
		backing = store.NewFailover(durable, fallback, logg)
	} else {
		logg.Warn(ctx, "MONGO_URI not set, running on the in-memory store only")
	}

	accountsService, err := accounts.NewService(accounts.ServiceParams{
		Store:          backing,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create accounts service", err)
		os.Exit(1)
	}

	booksService, err := books.NewService(books.ServiceParams{
		Store:  backing,
		Logger: logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create books service", err)
		os.Exit(1)
	}

	if durable != nil {
		adminSeeder, err := seeder.New(seeder.Params{
			Durable:  durable,
			Admin:    cfg.Admin,
			Password: cfg.Password,
			Seeder:   cfg.Seeder,
			Logger:   logg,
		})
		if err != nil {
			logg.Error(ctx, "failed to create admin seeder", err)
			os.Exit(1)
		}
		go adminSeeder.Run(ctx)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	handler := routes.NewRouter(cfg, logg, registry, httpMetrics, accountsService, booksService)

	if err := listenWithRetry(ctx, logg, cfg, handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// listenWithRetry binds the configured port, walking to the next one when the
// address is already taken. Deploy targets sometimes leave a stale listener
// behind; retrying beats crash-looping.
func listenWithRetry(ctx context.Context, logg *logger.Logger, cfg *config.Config, handler http.Handler) error {
	tries := cfg.App.PortBindTries
	if tries < 1 {
		tries = 1
	}

	for i := 0; i < tries; i++ {
		port := cfg.App.Port + i
		addr := fmt.Sprintf(":%d", port)

		listener, err := net.Listen("tcp", addr)
		if err != nil {
			if isAddrInUse(err) {
				logg.Warn(logg.WithField(ctx, "addr", addr), "port in use, trying next")
				continue
			}
			return fmt.Errorf("bind %s: %w", addr, err)
		}

		logg.Info(logg.WithFields(ctx, map[string]any{
			"env":  cfg.App.Env,
			"addr": addr,
		}), "starting api server")

		server := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: cfg.App.RequestTimeout,
		}
		return server.Serve(listener)
	}
	return fmt.Errorf("no free port in range %d-%d", cfg.App.Port, cfg.App.Port+tries-1)
}

func isAddrInUse(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE)
}
