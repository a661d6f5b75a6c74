package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/nutriplan/backend/internal/ai"
	"github.com/nutriplan/backend/internal/auth"
	"github.com/nutriplan/backend/internal/bus"
	"github.com/nutriplan/backend/internal/config"
	"github.com/nutriplan/backend/internal/mailbox"
	"github.com/nutriplan/backend/internal/plans"
	"github.com/nutriplan/backend/internal/server"
	"github.com/nutriplan/backend/internal/store"
	"github.com/nutriplan/backend/internal/tracker"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load .env if present; environment variables win over config file
	// fallbacks.
	_ = godotenv.Load()

	path := *configPath
	if path == "" {
		path = config.GetConfigPath()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT secret is not set; set auth.jwt_secret in config or the JWT_SECRET environment variable")
	}

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	gateway, err := ai.New(context.Background(), cfg.AI)
	if err != nil {
		log.Fatalf("Failed to initialize AI gateway: %v", err)
	}

	events := bus.New()

	users := store.NewUserRepository(db)
	sessions := store.NewSessionRepository(db)
	archive := store.NewArchiveRepository(db)
	trackerRepo := store.NewTrackerRepository(db)
	mailboxRepo := store.NewMailboxRepository(db)

	delay := time.Duration(cfg.Enrichment.DelayMillis) * time.Millisecond

	srv := server.New(server.Deps{
		Auth:      auth.NewService(users, sessions),
		Plans:     plans.NewManager(gateway, archive, events, delay),
		Tracker:   tracker.NewService(trackerRepo, gateway),
		Mailbox:   mailbox.NewService(mailboxRepo, gateway, events),
		Gateway:   gateway,
		Bus:       events,
		JWTSecret: []byte(cfg.Auth.JWTSecret),
		StaticDir: cfg.Server.StaticDir,
		Debug:     cfg.Server.Debug,
	})

	if err := srv.Start(cfg.Server.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
