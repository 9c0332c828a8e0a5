package server

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ashboi005/bulk-email-sender/docs" // generated swagger docs
	"github.com/ashboi005/bulk-email-sender/internal/handlers"
	"github.com/ashboi005/bulk-email-sender/internal/logger"
	"github.com/ashboi005/bulk-email-sender/internal/provider"
	"github.com/ashboi005/bulk-email-sender/internal/services"
	"github.com/ashboi005/bulk-email-sender/internal/store"
)

// Handler Definitions
var (
	batchHandler  *handlers.BatchHandler
	healthHandler *handlers.HealthHandler

	dispatcher *services.BatchDispatcher
	sweeper    *store.Sweeper
)

// InitializeHandlers wires the store, provider client, dispatcher and
// handlers from the environment and starts the retention sweep.
func InitializeHandlers() {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		logger.Fatal("RESEND_API_KEY environment variable is required")
	}

	fromEmail := os.Getenv("FROM_EMAIL")
	if fromEmail == "" {
		logger.Fatal("FROM_EMAIL environment variable is required")
	}
	fromName := os.Getenv("FROM_NAME")

	batches := store.NewInMemoryBatchStore()
	client := provider.NewResendClient(apiKey, logger.Log)

	dispatcher = services.NewBatchDispatcher(batches, client, fromEmail, fromName, logger.Log, nil)
	reporter := services.NewStatusReporter(batches)

	batchHandler = handlers.NewBatchHandler(dispatcher, reporter)
	healthHandler = handlers.NewHealthHandler()

	sweeper = store.NewSweeper(batches, store.DefaultRetention)
	sweeper.Start()
}

// Shutdown stops the retention sweep and waits for in-flight batches to
// reach a terminal state.
func Shutdown() {
	if sweeper != nil {
		sweeper.Stop()
	}
	if dispatcher != nil {
		dispatcher.Wait()
	}
}

// SetupRouter configures the gin engine with middleware and routes.
func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(corsConfig()))

	// if we are not in production, log the request body
	if os.Getenv("GIN_MODE") != "release" {
		router.Use(handlers.LogRequest())
	}

	// Add Swagger endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		batches := v1.Group("/batches")
		{
			batches.POST("", batchHandler.SubmitBatch)
			batches.POST("/preview", batchHandler.PreviewBatch)
			batches.GET("/:batch_id", batchHandler.GetBatchStatus)
		}
	}

	return router
}

func corsConfig() cors.Config {
	config := cors.DefaultConfig()

	// Get allowed origins from environment variable
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		// Default to localhost if not set
		config.AllowOrigins = []string{"http://localhost:3000"}
	} else {
		// Split and trim the origins
		origins := strings.Split(originsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		config.AllowOrigins = origins
	}

	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}

	return config
}
