package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"assetregister/cmd"
	"assetregister/internal/core/container"
	"assetregister/internal/core/logger"
	"assetregister/internal/core/routes"
	"assetregister/internal/database"
	"assetregister/internal/middleware"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	// Execute migration CMD
	cmd.Execute(ctx)
}

func main() {
	zapLogger := logger.NewLogger()
	defer zapLogger.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		zapLogger.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		zapLogger.Sugar().Fatalf("Unable to connect to the database: %v", err)
	}
	defer db.Close()

	zapLogger.Info("Connected to the database successfully")

	appContainer := container.NewAppContainer(db)

	if err := appContainer.SnapshotScheduler.Start(); err != nil {
		zapLogger.Sugar().Fatalf("Unable to start valuation snapshot scheduler: %v", err)
	}
	defer appContainer.SnapshotScheduler.Stop()

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware())

	routes.RegisterPublicRoutes(router, appContainer)
	routes.RegisterProtectedRoutes(router, appContainer)
	routes.RegisterUtilityRoutes(router)

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		zapLogger.Sugar().Fatalf("HTTP server stopped: %v", err)
	}
}
