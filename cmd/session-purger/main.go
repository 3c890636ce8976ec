package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	authpostgres "github.com/bloodlink/bloodlink-api/internal/domains/auth/adapters/persistence/postgres"
	platformpostgres "github.com/bloodlink/bloodlink-api/internal/platform/postgres"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge sessions")
	}

	store := authpostgres.NewSessionStore(db, sessionTTLFromEnv())
	interval := purgeIntervalFromEnv()
	if interval <= 0 {
		purgeOnce(ctx, store, logger)
		return
	}

	logger.Info("session purger running", slog.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		purgeOnce(ctx, store, logger)
		<-ticker.C
	}
}

func purgeOnce(ctx context.Context, store *authpostgres.SessionStore, logger *slog.Logger) {
	purgeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := store.PurgeExpired(purgeCtx); err != nil {
		logger.Error("failed to purge sessions", slog.String("error", err.Error()))
		return
	}
	logger.Info("session purge completed")
}

func sessionTTLFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("SESSION_TTL_HOURS"))
	if raw == "" {
		return authpostgres.DefaultSessionTTL
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return authpostgres.DefaultSessionTTL
	}
	return time.Duration(hours) * time.Hour
}

func purgeIntervalFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("SESSION_PURGE_INTERVAL_MINUTES"))
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}
