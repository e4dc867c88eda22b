package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/toolbay/rental-engine/internal/config"
	"github.com/toolbay/rental-engine/internal/jobs"
	"github.com/toolbay/rental-engine/internal/repository"
	"github.com/toolbay/rental-engine/internal/service"
)

func main() {
	log.Println("Starting rental scheduler...")

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// The API server caches member balances; fee postings must drop those
	// entries, so the scheduler talks to the same Redis.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	store := repository.NewStore(db)
	ledgerService := service.NewLedgerService(store, redisClient, cfg)
	runner := jobs.NewRunner(store, ledgerService, cfg)

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(cfg.GetSchedulerLocation()))

	// Schedule tasks
	setupCronJobs(c, runner)

	// Start the scheduler
	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, runner *jobs.Runner) {
	// Daily job to park tools with overdue maintenance (runs at 3 AM)
	_, err := c.AddFunc("0 0 3 * * *", func() {
		log.Println("Running daily maintenance flagging job...")
		runner.RunWithRecovery("FlagMaintenanceDueTools", runner.FlagMaintenanceDueTools)
	})
	if err != nil {
		log.Printf("Error scheduling maintenance flagging job: %v", err)
	}

	// Daily job to report overdue rentals (runs at 7 AM)
	_, err = c.AddFunc("0 0 7 * * *", func() {
		log.Println("Running daily overdue rental report job...")
		runner.RunWithRecovery("ReportOverdueRentals", runner.ReportOverdueRentals)
	})
	if err != nil {
		log.Printf("Error scheduling overdue rental report job: %v", err)
	}

	// Weekly job to post membership fees for expired memberships (Mondays at 6 AM)
	_, err = c.AddFunc("0 0 6 * * MON", func() {
		log.Println("Running membership fee job...")
		runner.RunWithRecovery("PostMembershipFees", runner.PostMembershipFees)
	})
	if err != nil {
		log.Printf("Error scheduling membership fee job: %v", err)
	}

	log.Println("Cron jobs scheduled successfully")
}
