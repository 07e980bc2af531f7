package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"bookshelf/internal/config"
	"bookshelf/internal/db"
	"bookshelf/internal/domain"
	apihttp "bookshelf/internal/http"
	"bookshelf/internal/repository"
	"bookshelf/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	seed, err := loadSeed(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("catalog seed", zap.Error(err))
	}

	bookRepo := repository.NewMemoryBookRepository(seed)
	userRepo := repository.NewMemoryUserRepository()

	var sessionStore service.SessionStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			sessionStore = service.NewRedisSessionStore(redisClient)
		}
		cancel()
	}

	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	userSvc := service.NewUserService(logger, userRepo)
	sessionSvc := service.NewSessionService(
		cfg.JWTSecret,
		time.Duration(cfg.SessionTTLMinutes)*time.Minute,
		userSvc,
		sessionStore,
	)
	searchSvc := service.NewSearchService(logger, bookRepo, time.Duration(cfg.SearchDelayMs)*time.Millisecond)
	reviewSvc := service.NewReviewService(logger, bookRepo)

	userHandler := apihttp.NewUserHandler(logger, userSvc, sessionSvc)
	bookHandler := apihttp.NewBookHandler(logger, bookRepo, searchSvc)
	reviewHandler := apihttp.NewReviewHandler(logger, reviewSvc)
	router := apihttp.NewRouter(logger, sessionSvc, userHandler, bookHandler, reviewHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.Int("catalog_size", len(seed)),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

// loadSeed resuelve la fuente del catálogo inicial: Postgres si hay
// DATABASE_URL, archivo JSON si hay SEED_FILE, o el catálogo embebido.
func loadSeed(ctx context.Context, cfg *config.Config, logger *zap.Logger) ([]domain.Book, error) {
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		books, err := repository.NewPgBookRepository(pool).LoadAll(ctx)
		if err != nil {
			return nil, err
		}
		logger.Info("catalog loaded from postgres", zap.Int("books", len(books)))
		return books, nil
	}
	if cfg.SeedFile != "" {
		books, err := repository.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		logger.Info("catalog loaded from seed file", zap.String("path", cfg.SeedFile), zap.Int("books", len(books)))
		return books, nil
	}
	return repository.DefaultSeed(), nil
}
