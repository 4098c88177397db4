// Command seed manages the election snapshot store from the shell: creating
// the Postgres schema, seeding the demo ballot, and wiping state between
// demo runs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"evote-api/internal/config"
	"evote-api/internal/domain"
	"evote-api/internal/repository"
	"evote-api/pkg/database"
	"evote-api/pkg/logger"
	"evote-api/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: seed [up|seed|reset]")
		os.Exit(1)
	}
	command := os.Args[1]

	zlog, err := logger.New("warn", cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	store, cleanup, err := openStore(ctx, cfg, zlog)
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}
	defer cleanup()

	switch command {
	case "up":
		// Schema creation happens inside openStore for Postgres; Redis and
		// memory stores have nothing to set up.
		fmt.Println("Snapshot store ready")

	case "seed":
		if err := seedDemoBallot(ctx, store); err != nil {
			log.Fatalf("Failed to seed demo ballot: %v", err)
		}
		fmt.Println("Demo ballot seeded")

	case "reset":
		for _, key := range []string{
			repository.SnapshotCandidates,
			repository.SnapshotVoters,
			repository.SnapshotAdminSession,
		} {
			if err := store.Delete(ctx, key); err != nil {
				log.Fatalf("Failed to delete snapshot %q: %v", key, err)
			}
		}
		fmt.Println("Election state cleared")

	default:
		fmt.Printf("Unknown command %q\n", command)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config, zlog *logger.Logger) (repository.SnapshotStore, func(), error) {
	switch {
	case cfg.RedisURL != "":
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, zlog.Logger)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisStore(client), func() { _ = client.Close() }, nil

	case cfg.DatabaseURL != "":
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store, err := repository.NewPostgresStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil
	}

	return nil, nil, fmt.Errorf("set REDIS_URL or DATABASE_URL to address a durable store")
}

func seedDemoBallot(ctx context.Context, store repository.SnapshotStore) error {
	candidates, err := json.Marshal(domain.SeedCandidates())
	if err != nil {
		return err
	}
	voters, err := json.Marshal([]domain.Voter{})
	if err != nil {
		return err
	}
	return store.SaveAll(ctx, map[string]string{
		repository.SnapshotCandidates: string(candidates),
		repository.SnapshotVoters:     string(voters),
	})
}
