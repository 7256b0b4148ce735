package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mwerner-fin/divtracker-backend/internal/api"
	"github.com/mwerner-fin/divtracker-backend/internal/config"
	"github.com/mwerner-fin/divtracker-backend/internal/crypto"
	"github.com/mwerner-fin/divtracker-backend/internal/database"
	"github.com/mwerner-fin/divtracker-backend/internal/repository"
	"github.com/mwerner-fin/divtracker-backend/internal/scheduler"
	"github.com/mwerner-fin/divtracker-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply schema migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Secret encryption
	sealer, err := crypto.NewSealer(cfg.Security.SecretKey)
	if err != nil {
		log.Fatalf("Failed to initialize secret encryption: %v", err)
	}

	// Create repositories
	stateRepo := repository.NewStateRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	brokerRepo := repository.NewBrokerRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	stateService := service.NewStateService(stateRepo, tradeRepo)
	brokerService := service.NewBrokerService(brokerRepo, sealer)
	syncService := service.NewSyncService(db, stateRepo, tradeRepo, brokerRepo, sealer, nil)

	// Create router
	router := api.NewRouter(systemService, syncService, stateService, brokerService, cfg)

	// Optional background sync
	if cfg.Sync.Schedule != "" {
		sched := scheduler.New(syncService)
		if err := sched.Start(cfg.Sync.Schedule); err != nil {
			log.Fatalf("Failed to start auto-sync scheduler: %v", err)
		}
		defer sched.Stop()
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
