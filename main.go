// api/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"clickpath/api/database"
	"clickpath/api/handlers"
	"clickpath/api/journey"
	"clickpath/api/middleware"
	"clickpath/api/store"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Initialize PostgreSQL Database (users, leads, payments) ---
	dbClient, err := database.NewPostgresDB()
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	// --- Initialize ClickHouse Database (tracking events) ---
	chClient, err := database.NewClickHouseDB()
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse database: %v", err)
	}
	defer chClient.Close()

	// --- Initialize Stores ---
	userStore := store.NewUserStore(dbClient.DB)
	eventStore := store.NewEventStore(chClient)
	crmStore := store.NewCRMStore(dbClient.DB)

	// --- Initialize the journey engine and handlers ---
	journeyService := journey.NewService(eventStore, crmStore, crmStore)

	authHandlers := handlers.NewAuthHandlers(userStore)
	trackHandlers := handlers.NewTrackHandlers(eventStore)
	journeyHandlers := handlers.NewJourneyHandlers(journeyService)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	{
		// Authentication Endpoints (no authentication required)
		api.POST("/signup", authHandlers.Signup)
		api.POST("/login", authHandlers.Login)
		api.POST("/logout", authHandlers.Logout)
		// Protected Routes (require a valid JWT token)
		protected := api.Group("/")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("/track", trackHandlers.TrackEvent)

			journeys := protected.Group("/journeys")
			{
				journeys.GET("", journeyHandlers.GetJourneys)
				journeys.GET("/export", journeyHandlers.ExportJourneys)
				journeys.GET("/:visitorId/attribution", journeyHandlers.GetAttribution)
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Go API server starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Go API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
