package main

import (
	"context"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"cloudlens-backend/document-service/extraction"
	"cloudlens-backend/document-service/handlers"
	"cloudlens-backend/document-service/middleware"
	"cloudlens-backend/document-service/queue"
	"cloudlens-backend/document-service/repository"
	"cloudlens-backend/document-service/services"
	"cloudlens-backend/shared/config"
	"cloudlens-backend/shared/database"
	"cloudlens-backend/shared/utils/cache"

	_ "cloudlens-backend/docs"
)

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	// Initialize MinIO service
	minioService, err := services.NewMinIOService()
	if err != nil {
		log.Fatalf("❌ Failed to initialize MinIO service: %v", err)
	}

	// Test MinIO connection
	if err := minioService.TestConnection(); err != nil {
		log.Fatalf("❌ MinIO connection test failed: %v", err)
	}

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Redis cache is optional; a miss on startup degrades to direct reads
	if err := cache.InitCacheManager(); err != nil {
		log.Printf("Warning: cache unavailable, continuing without it: %v", err)
	}

	store := repository.NewGormStore(database.GetDB())
	documentRepo := repository.NewDocumentRepository(store)
	folderRepo := repository.NewFolderRepository(store)

	// Extractor chain; OCR and transcription stay out unless enabled
	extractors := []extraction.Extractor{
		extraction.NewPlainTextExtractor(),
		extraction.NewPDFExtractor(),
	}
	if cfg.EnableOCR {
		ocr := services.NewOCRService(cfg.OCRServiceURL, cfg.OCRServiceKey)
		extractors = append(extractors, extraction.NewImageExtractor(ocr))
	}
	if cfg.EnableAudioTranscription {
		transcriber := services.NewTranscriptionService(cfg.TranscriptionServiceURL)
		extractors = append(extractors, extraction.NewAudioExtractor(transcriber))
	}

	lens := extraction.NewLens(extraction.Options{
		MaxTextLength:            cfg.MaxTextLength,
		EnableOCR:                cfg.EnableOCR,
		EnableAudioTranscription: cfg.EnableAudioTranscription,
	}, extractors...)

	// Extraction pipeline: queue feeding a background worker
	jobs := queue.New()
	var docCache services.DocumentCache
	if cm := cache.GetCacheManager(); cm != nil {
		docCache = cm
	}
	processor := services.NewExtractionService(documentRepo, minioService, lens, docCache, services.GetEventsService())
	worker := queue.NewWorker(jobs, processor, cfg.WorkerMaxAttempts, time.Duration(cfg.WorkerPollingSeconds)*time.Second)

	workerCtx, stopWorker := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopWorker()

	go worker.Run(workerCtx)

	handlers.Init(documentRepo, folderRepo, minioService, jobs)

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.Default())

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware())

	// Document Routes
	api.POST("/documents", handlers.IndexDocument)
	api.GET("/documents/:id", handlers.GetDocument)
	api.PUT("/documents/:id/content", handlers.UploadContent)
	api.GET("/documents/:id/download", handlers.DownloadDocument)
	api.DELETE("/documents/:id", handlers.DeleteDocument)
	api.DELETE("/documents/:id/permanent", handlers.PermanentlyDeleteDocument)
	api.POST("/documents/:id/reprocess", handlers.ReprocessDocument)

	// Folder Routes
	api.POST("/folders", handlers.IndexFolder)
	api.GET("/folders/:id", handlers.GetFolder)
	api.GET("/folders/:id/contents", handlers.GetFolderContents)
	api.DELETE("/folders/:id", handlers.DeleteFolder)

	// Search
	api.GET("/search", handlers.SearchDocuments)

	// Extraction event stream
	api.GET("/events", handlers.StreamEvents)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "document-service",
			"message": "Document service is running",
		})
	})

	// Start server
	// Parse port from config URL
	port := strings.Split(cfg.DocumentServiceURL, ":")[2]
	log.Printf("Document Service starting on port %s...", port)
	router.Run(":" + port)
}
