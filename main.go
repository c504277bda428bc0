package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"telemedicine-reminder-server/internal/config"
	"telemedicine-reminder-server/internal/models"
	"telemedicine-reminder-server/internal/reminder"
	"telemedicine-reminder-server/internal/routes"
	"telemedicine-reminder-server/internal/scheduler"
	"telemedicine-reminder-server/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "[reminder-server] ", log.LstdFlags)

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Printf("No .env file loaded: %v", err)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Error loading config: %v", err)
	}

	// Initialize database connection
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		logger.Fatalf("Error connecting to database: %v", err)
	}

	// Wire the reminder dispatcher to its store
	reminderStore := store.NewReminderStore(db)
	dispatcher := reminder.NewDispatcher(reminderStore, reminderStore, cfg.Timezone, logger)

	// Start the cron scheduler that fires dispatch cycles
	sched := scheduler.New(dispatcher, cfg.ReminderCron, logger)
	if err := sched.Start(); err != nil {
		logger.Fatalf("Error starting scheduler: %v", err)
	}
	defer sched.Stop()

	// Initialize Gin router
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Set up routes
	routes.SetupRoutes(router, db, dispatcher, cfg)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	fmt.Printf("Server running on port %s\n", cfg.Port)
	if err := router.Run(serverAddr); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
