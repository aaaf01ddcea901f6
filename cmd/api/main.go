package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	_ "github.com/redmonkez12/account-api/docs" // Swagger docs
	"github.com/redmonkez12/account-api/internal/account"
	"github.com/redmonkez12/account-api/internal/auth"
	"github.com/redmonkez12/account-api/internal/config"
	"github.com/redmonkez12/account-api/internal/database"
	httpServer "github.com/redmonkez12/account-api/internal/http"
	"github.com/redmonkez12/account-api/internal/logging"
)

// @title           Account API
// @version         1.0
// @description     User account service: registration, login, profile lookup, profile update and account deletion.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token returned by POST /auth/user.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"store", cfg.Store.Driver,
		"token_strategy", cfg.Auth.TokenStrategy,
	)

	ctx := context.Background()

	// Initialize account store
	store, closeStore, err := initStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer closeStore()

	// Initialize profile cache
	var cache account.ProfileCache = account.NoopCache{}
	if cfg.Redis.Enabled {
		redisClient, err := initRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis: %w", err)
		}
		defer redisClient.Close()
		cache = account.NewRedisProfileCache(redisClient, cfg.Redis.ProfileTTL)
		logger.Info("profile cache enabled", "addr", cfg.Redis.Address(), "ttl", cfg.Redis.ProfileTTL)
	}

	// Initialize credential hasher and token service
	hasher, err := auth.NewPasswordHasher(cfg.Auth.PasswordHasher, cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	tokenService, err := initTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Initialize account service and HTTP handlers
	accountService := account.NewService(store, cache, hasher, tokenService, logger)
	accountHandler := account.NewHandler(accountService)
	authMiddleware := auth.NewMiddleware(tokenService)

	// Initialize router
	router := httpServer.NewRouter(cfg, accountHandler, authMiddleware, logger)

	// Initialize HTTP server
	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initStore opens the backend named by STORE_DRIVER. The returned func
// releases its connections.
func initStore(ctx context.Context, cfg *config.Config, logger *logging.Logger) (account.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreMongo:
		client, err := database.ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error("failed to disconnect mongo", "error", err.Error())
			}
		}

		store := account.NewMongoStore(client.Database(cfg.Mongo.Database), cfg.Mongo.Collection, cfg.Store.QueryTimeout)
		if err := store.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		return store, closeFn, nil

	case config.StorePostgres:
		sqlDB, err := database.OpenPostgres(cfg.Database.ConnectionString())
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, nil, err
		}

		db := database.NewBunDB(sqlDB)
		return account.NewPostgresStore(db, cfg.Store.QueryTimeout), func() { db.Close() }, nil

	case config.StoreMemory:
		logger.Warn("using in-memory store, accounts are lost on restart")
		return account.NewMemoryStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

func initTokenService(cfg config.AuthConfig) (auth.TokenService, error) {
	switch cfg.TokenStrategy {
	case config.TokenJWT:
		return auth.NewJWTService(cfg.JWTSecret, cfg.TokenDuration)
	case config.TokenPaseto:
		return auth.NewPasetoService(cfg.PasetoKey, cfg.TokenDuration)
	default:
		return nil, fmt.Errorf("unsupported token strategy %q", cfg.TokenStrategy)
	}
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
