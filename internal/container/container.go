package container

import (
	"context"

	"evote-api/internal/config"
	"evote-api/internal/repository"
	"evote-api/internal/service"
	"evote-api/internal/service/auth"
	"evote-api/internal/service/gemini"
	"evote-api/pkg/database"
	"evote-api/pkg/logger"
	"evote-api/pkg/redis"
)

// Container holds all application dependencies. It is constructed once in
// main and handed to every consumer; nothing reaches election state except
// through the engine it carries.
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	RedisClient *redis.Client
	PostgresDB  *database.PostgresDB
	Store       repository.SnapshotStore
	Engine      *service.ElectionService
	Auth        service.AuthService
	TextGen     service.TextGenerator
}

// New creates a new dependency injection container. The snapshot store is
// chosen from configuration: Redis first, then Postgres, then in-memory.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: log,
	}

	switch {
	case cfg.RedisURL != "":
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			return nil, err
		}
		c.RedisClient = client
		c.Store = repository.NewRedisStore(client)
		log.Info("Snapshot store: redis")

	case cfg.DatabaseURL != "":
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store, err := repository.NewPostgresStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		c.PostgresDB = db
		c.Store = store
		log.Info("Snapshot store: postgres")

	default:
		c.Store = repository.NewMemoryStore()
		log.Warn("Snapshot store: in-memory, state will not survive a restart")
	}

	c.Auth = auth.NewService(cfg.JWTSecret, log)
	c.TextGen = gemini.NewService(cfg.GeminiAPIKey, log)

	deliverer := service.NewLogDeliverer(log.Logger)
	c.Engine = service.NewElectionService(c.Store, deliverer, log.Logger, cfg.AdminEmail, cfg.AdminPassword)
	if err := c.Engine.Load(ctx); err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

// Close releases the backing connections.
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.WithError(err).Warn("Failed to close Redis client")
		}
	}
	if c.PostgresDB != nil {
		c.PostgresDB.Close()
	}
}
