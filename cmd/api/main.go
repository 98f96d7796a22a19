package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/materialhub-backend/api/controllers"
	"github.com/angelmondragon/materialhub-backend/api/routes"
	"github.com/angelmondragon/materialhub-backend/internal/cart"
	"github.com/angelmondragon/materialhub-backend/internal/catalog"
	"github.com/angelmondragon/materialhub-backend/internal/checkout"
	"github.com/angelmondragon/materialhub-backend/internal/directory"
	"github.com/angelmondragon/materialhub-backend/internal/notifications"
	"github.com/angelmondragon/materialhub-backend/internal/orders"
	"github.com/angelmondragon/materialhub-backend/internal/session"
	"github.com/angelmondragon/materialhub-backend/pkg/config"
	"github.com/angelmondragon/materialhub-backend/pkg/db"
	"github.com/angelmondragon/materialhub-backend/pkg/instance"
	"github.com/angelmondragon/materialhub-backend/pkg/logger"
	"github.com/angelmondragon/materialhub-backend/pkg/metrics"
	"github.com/angelmondragon/materialhub-backend/pkg/migrate"
	"github.com/angelmondragon/materialhub-backend/pkg/pubsub"
	"github.com/angelmondragon/materialhub-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	directoryRepo := directory.NewRepository(dbClient.DB())
	feed, err := catalog.NewFeed(catalog.FeedParams{
		Source: directory.NewCatalogSource(directoryRepo),
		Logger: logg,
		MaxAge: cfg.Catalog.MaxAge,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog feed", err)
		os.Exit(1)
	}

	dispatcher, err := notifications.NewDispatcher(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}

	engine, err := checkout.NewEngine(checkout.EngineParams{
		Orders:    orders.NewRepository(dbClient.DB()),
		Feed:      orders.NewFeedRepository(dbClient.DB()),
		Directory: directoryRepo,
		Notifier:  dispatcher,
		Messenger: notifications.NewLogMessenger(logg, cfg.Messaging.CountryCode),
		IDs:       checkout.NewTimestampIDGenerator(),
		Metrics:   metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer),
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout engine", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewStore(redisClient, cfg.Cart.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	controller, err := session.NewController(feed, cartStore, engine, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create session controller", err)
		os.Exit(1)
	}

	ready := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}

	var catalogConsumer *catalog.Consumer
	if cfg.PubSub.Enabled() {
		psClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := psClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		catalogConsumer, err = catalog.NewConsumer(feed, psClient.CatalogSubscription(), logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create catalog consumer", err)
			os.Exit(1)
		}
		ready["pubsub"] = psClient
	}

	addr := ":" + cfg.App.Port
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})

	if err := feed.Refresh(ctx); err != nil {
		logg.Error(ctx, "initial catalog build failed; serving will retry lazily", err)
	}

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			Session:     controller,
			Idempotency: redisClient,
			Ready:       ready,
			Gatherer:    prometheus.DefaultGatherer,
			HTTPMetrics: metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logg.Info(groupCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if catalogConsumer != nil {
		group.Go(func() error {
			logg.Info(groupCtx, "starting catalog change consumer")
			if err := catalogConsumer.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		logg.Error(ctx, "api stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api shut down gracefully")
}
