package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/robertarktes/lumiere-hotel/internal/adapters/crdb"
	"github.com/robertarktes/lumiere-hotel/internal/adapters/gotrue"
	mongoadapter "github.com/robertarktes/lumiere-hotel/internal/adapters/mongo"
	redisadapter "github.com/robertarktes/lumiere-hotel/internal/adapters/redis"
	"github.com/robertarktes/lumiere-hotel/internal/auth"
	"github.com/robertarktes/lumiere-hotel/internal/booking"
	"github.com/robertarktes/lumiere-hotel/internal/config"
	httphandler "github.com/robertarktes/lumiere-hotel/internal/http"
	"github.com/robertarktes/lumiere-hotel/internal/idempotency"
	"github.com/robertarktes/lumiere-hotel/internal/observability"
	"github.com/robertarktes/lumiere-hotel/internal/rateLimit"
	"github.com/robertarktes/lumiere-hotel/internal/rooms"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdown, err := observability.SetupOTel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdown()

	logger := observability.NewLogger(cfg.LogLevel)
	observability.InitMetrics()

	pool, err := pgxpool.New(context.Background(), cfg.CRDBDSN)
	if err != nil {
		log.Fatalf("failed to connect to crdb: %v", err)
	}
	defer pool.Close()
	crdbRepo := crdb.NewRepository(pool)
	if err := crdbRepo.Migrate(context.Background()); err != nil {
		log.Fatalf("failed to migrate crdb: %v", err)
	}

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	mongoDB := mongoClient.Database(cfg.MongoDB)
	mongoCatalog := mongoadapter.NewCatalogRepository(mongoDB, logger)
	audit := mongoadapter.NewAuditLogger(mongoDB, logger)

	if cfg.SeedCatalog {
		if err := mongoCatalog.UpsertRooms(context.Background(), rooms.DemoRooms()); err != nil {
			log.Fatalf("failed to seed room catalog: %v", err)
		}
		logger.Info("room catalog seeded")
	}

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	redisCache := redisadapter.NewCache(redisClient)
	sessions := redisadapter.NewSessionStore(redisClient, cfg.SessionTTL)
	idemp := idempotency.NewIdempotency(redisadapter.NewIdempotency(redisClient), cfg.IdempotencyTTL)
	rl := rateLimit.NewRateLimiter(redisCache, logger)

	provider := gotrue.NewClient(cfg.AuthProviderURL, cfg.AuthProviderAnonKey, cfg.AuthProviderTimeout)
	authSvc := auth.NewService(provider, crdbRepo, audit, logger)
	bookingSvc := booking.NewService(mongoCatalog, crdbRepo, audit, logger)

	probes := map[string]httphandler.Pinger{
		"crdb":  crdbRepo,
		"mongo": mongoCatalog,
		"redis": redisCache,
	}
	handlers := httphandler.NewHandlers(authSvc, mongoCatalog, sessions, bookingSvc, probes, logger)

	r := httphandler.SetupRouter(handlers, cfg, logger, rl, idemp)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	logger.Info("Server exiting")
}
