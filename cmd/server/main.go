package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/toolbay/rental-engine/internal/config"
	"github.com/toolbay/rental-engine/internal/handler"
	"github.com/toolbay/rental-engine/internal/repository"
	"github.com/toolbay/rental-engine/internal/service"
)

func main() {
	// .env is optional; viper reads the environment either way
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize store and services
	store := repository.NewStore(db)
	ledgerService := service.NewLedgerService(store, redisClient, cfg)
	rentalService := service.NewRentalService(store, ledgerService, cfg)
	toolService := service.NewToolService(store, cfg)
	memberService := service.NewMemberService(store)

	// Initialize handlers
	rentalHandler := handler.NewRentalHandler(rentalService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	toolHandler := handler.NewToolHandler(toolService)
	memberHandler := handler.NewMemberHandler(memberService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.Health.Timeout)

	// Setup routes
	router := setupRoutes(rentalHandler, ledgerHandler, toolHandler, memberHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	rentalHandler *handler.RentalHandler,
	ledgerHandler *handler.LedgerHandler,
	toolHandler *handler.ToolHandler,
	memberHandler *handler.MemberHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Rental lifecycle
	api.HandleFunc("/rentals/requests", rentalHandler.RequestRental).Methods("POST")
	api.HandleFunc("/rentals", rentalHandler.BookDirect).Methods("POST")
	api.HandleFunc("/rentals/pending", rentalHandler.ListPending).Methods("GET")
	api.HandleFunc("/rentals/active", rentalHandler.ListActive).Methods("GET")
	api.HandleFunc("/rentals/history", rentalHandler.ListHistory).Methods("GET")
	api.HandleFunc("/rentals/{rentalId}", rentalHandler.GetRental).Methods("GET")
	api.HandleFunc("/rentals/{rentalId}/approve", rentalHandler.ApproveRental).Methods("POST")
	api.HandleFunc("/rentals/{rentalId}/reject", rentalHandler.RejectRental).Methods("POST")
	api.HandleFunc("/rentals/{rentalId}/complete", rentalHandler.CompleteRental).Methods("POST")

	// Ledger
	api.HandleFunc("/payments", ledgerHandler.RecordPayment).Methods("POST")
	api.HandleFunc("/repair-charges", ledgerHandler.ChargeRepairCost).Methods("POST")
	api.HandleFunc("/members/{memberId}/balance", ledgerHandler.GetBalance).Methods("GET")
	api.HandleFunc("/members/{memberId}/transactions", ledgerHandler.ListTransactions).Methods("GET")

	// Tools
	api.HandleFunc("/tools", toolHandler.CreateTool).Methods("POST")
	api.HandleFunc("/tools", toolHandler.ListTools).Methods("GET")
	api.HandleFunc("/tools/{toolId}", toolHandler.GetTool).Methods("GET")
	api.HandleFunc("/tools/{toolId}/maintenance", toolHandler.RecordMaintenance).Methods("POST")
	api.HandleFunc("/tools/{toolId}/conditions", toolHandler.ConditionLog).Methods("GET")

	// Members
	api.HandleFunc("/members", memberHandler.CreateMember).Methods("POST")
	api.HandleFunc("/members", memberHandler.ListMembers).Methods("GET")
	api.HandleFunc("/members/{memberId}", memberHandler.GetMember).Methods("GET")

	return router
}
