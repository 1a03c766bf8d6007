package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"bookride/internal/app"
	"bookride/internal/config"
	"bookride/internal/handler"
	"bookride/internal/messaging"
	internalRedis "bookride/internal/redis"
	"bookride/internal/repository"
	"bookride/internal/repository/postgres"
	"bookride/internal/routing"
	"bookride/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Every external collaborator is optional: the booking flow keeps
	// working without a database (no history), without Redis (no
	// idempotency replay, seeded promos) and without RabbitMQ (log-only
	// notifications).
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Printf("database unavailable, trip history disabled: %v", err)
		db = nil
	} else {
		defer db.Close()
		log.Println("Connected to PostgreSQL")
	}

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Printf("redis unavailable, running without it: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("Connected to Redis")
	}

	var publisher *messaging.Publisher
	if cfg.RabbitMQ.URL != "" {
		publisher, err = messaging.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Printf("rabbitmq unavailable, trip events will only log: %v", err)
			publisher = nil
		} else {
			defer publisher.Close()
			log.Println("Connected to RabbitMQ")
		}
	}

	// Wire dependencies.
	server, sessions := wireServer(ctx, db, redisClient, publisher, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	sessions.Shutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server and the
// session registry (whose simulations are stopped on shutdown).
func wireServer(ctx context.Context, db *sql.DB, redisClient *redis.Client, publisher *messaging.Publisher, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, *service.SessionService) {
	// Initialize Redis stores.
	var locationStore internalRedis.DriverLocationStoreInterface
	var promoStore internalRedis.PromoStoreInterface
	if redisClient != nil {
		locationStore = internalRedis.NewDriverLocationStore(redisClient)
		promoStore = internalRedis.NewPromoStore(redisClient)
	}

	// Initialize repositories.
	var tripRepo repository.TripRecordRepository
	if db != nil {
		pgRepo := postgres.NewTripRecordRepository(db)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			log.Printf("failed to ensure trip schema, trip history disabled: %v", err)
		} else {
			tripRepo = pgRepo
		}
	}

	// Initialize the routing collaborator.
	var router routing.Router
	if cfg.Maps.APIKey != "" {
		googleRouter, err := routing.NewGoogleRouter(cfg.Maps.APIKey)
		if err != nil {
			log.Printf("maps client unavailable, using straight-line routing: %v", err)
		} else {
			router = googleRouter
		}
	}

	// Initialize services.
	var eventPublisher service.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}
	notificationService := service.NewNotificationService(eventPublisher)
	promotionService := service.NewPromotionService(promoStore)
	promotionService.SeedCatalog(ctx)
	matchingService := service.NewMatchingService(router, locationStore)

	sessionService := service.NewSessionService(router, promotionService, service.SessionDeps{
		Matcher:  matchingService,
		Notifier: notificationService,
		Records:  tripRepo,
		Sim: service.SimTuning{
			TickInterval:        cfg.Simulator.TickInterval,
			PickupStep:          cfg.Simulator.PickupStep,
			DropoffStep:         cfg.Simulator.DropoffStep,
			MaxSpeedMph:         cfg.Simulator.MaxSpeedMph,
			InteractionDebounce: cfg.Simulator.InteractionDebounce,
			FollowResumeDelay:   cfg.Simulator.FollowResumeDelay,
		},
	})

	// Initialize handlers.
	sessionHandler := handler.NewSessionHandler(sessionService, promotionService)
	catalogHandler := handler.NewCatalogHandler(promotionService)
	wsHandler := handler.NewWSHandler(sessionService)
	var tripHandler *handler.TripHandler
	if tripRepo != nil {
		tripHandler = handler.NewTripHandler(tripRepo)
	}

	// Create router.
	engine := app.NewRouter(app.RouterDeps{
		SessionHandler: sessionHandler,
		CatalogHandler: catalogHandler,
		TripHandler:    tripHandler,
		WSHandler:      wsHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, sessionService
}
