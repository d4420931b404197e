package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_pizza/internal/catalog"
	"github.com/fjod/go_pizza/internal/config"
	"github.com/fjod/go_pizza/internal/domain"
	storegrpc "github.com/fjod/go_pizza/internal/grpc"
	h "github.com/fjod/go_pizza/internal/http"
	"github.com/fjod/go_pizza/internal/publisher"
	"github.com/fjod/go_pizza/internal/session"
	"github.com/fjod/go_pizza/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func main() {
	envFile := flag.String("env", ".env", "path to an optional .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Setup("storefront", cfg.App.LogLevel, cfg.App.LogPretty); err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logger: %v\n", err)
		os.Exit(1)
	}
	otel.SetTextMapPropagator(propagation.TraceContext{})

	log.Info().Msg("Storefront starting...")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	repo, err := catalog.NewSQLiteRepository(cfg.Catalog.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open catalog database")
	}
	defer repo.Close()

	if err := repo.RunMigrations(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Str("dsn", cfg.Catalog.DSN).Msg("migrations completed successfully")

	grpcServer := storegrpc.NewServer()
	grpcServer.AddProbe("catalog", repo.Ping)

	var cache catalog.MenuCache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, menu cache will miss until it recovers")
		}
		cache = catalog.NewRedisCache(redisClient, cfg.Catalog.CacheTTL)
		grpcServer.AddProbe("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	catalogService := catalog.NewService(repo, cache)

	menu, err := menuLookup(ctx, catalogService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load menu")
	}

	var pub publisher.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		pub = publisher.NewKafkaPublisher(cfg.Kafka.Brokers...)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", publisher.Topic).Msg("publishing order events to kafka")
	} else {
		pub = publisher.NewLogPublisher()
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close publisher")
		}
	}()

	sessions := session.NewManager(session.Config{
		TickInterval: cfg.Session.TickInterval,
		SessionTTL:   cfg.Session.TTL,
		WelcomeBonus: cfg.Session.WelcomeBonus,
		SeedOrders:   cfg.Session.SeedOrders,
		MaxSessions:  cfg.Session.MaxSessions,
	}, menu, pub)
	sessions.Start(ctx)
	defer sessions.Close()

	srv := &http.Server{
		Addr:         ":" + cfg.App.HTTPPort,
		Handler:      h.NewRouter(catalogService, sessions, cfg.App.RequestTimeout),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.App.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.HTTPPort).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	lis, err := net.Listen("tcp", ":"+cfg.App.GRPCPort)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to listen")
	}
	go func() {
		log.Info().Str("port", cfg.App.GRPCPort).Msg("gRPC health server starting")
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("failed to serve")
		}
	}()
	go grpcServer.Watch(ctx, cfg.Health.ProbeInterval)
	grpcServer.SetServing(true)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down storefront...")
	grpcServer.SetServing(false)
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	grpcServer.GracefulStop()

	log.Info().Msg("storefront exited")
}

// menuLookup snapshots the menu once so seeded order history never touches
// storage per session.
func menuLookup(ctx context.Context, svc *catalog.Service) (session.MenuLookup, error) {
	items, err := svc.Menu(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.CatalogItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	return func(id int64) (domain.CatalogItem, bool) {
		it, ok := byID[id]
		return it, ok
	}, nil
}
