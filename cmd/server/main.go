package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mercil/npa-search/internal/config"
	"github.com/mercil/npa-search/internal/handler"
	"github.com/mercil/npa-search/internal/repository"
	"github.com/mercil/npa-search/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.Printf("NPA Hybrid Search")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gin.SetMode(cfg.Server.GinMode)

	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()
	log.Println("Connected to PostgreSQL database")

	// Load the catalogue type vocabulary for filter normalization. An
	// empty vocabulary still works: unknown types pass through verbatim.
	vocabCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	typeNames, err := repo.ListTypeNames(vocabCtx)
	cancel()
	if err != nil {
		log.Printf("Warning: could not load type vocabulary: %v", err)
	} else {
		log.Printf("Loaded %d property types from catalogue", len(typeNames))
	}

	var aiClient service.AIClient
	if cfg.AI.Enabled {
		aiClient = service.NewOpenAIClient(&cfg.AI)
		log.Printf("AI client initialized (base: %s, chat: %s, embedding: %s/%dd)",
			cfg.AI.APIBase, cfg.AI.ChatModel, cfg.AI.EmbeddingModel, cfg.AI.EmbeddingDimensions)
	} else {
		log.Println("AI is disabled - intent parsing and vector search will run in fallback mode")
		log.Println("Set AI_API_KEY environment variable to enable AI features")
	}

	intentParser := service.NewIntentParser(aiClient)
	embedder, err := service.NewEmbedder(aiClient, cfg.AI.EmbeddingDimensions)
	if err != nil {
		log.Fatalf("Failed to configure embedder: %v", err)
	}
	filterResolver := service.NewFilterResolver(typeNames)
	ranker := service.NewRanker(cfg.Ranking)
	searchService := service.NewSearchService(
		repo, intentParser, embedder, filterResolver, ranker,
		cfg.Search.DefaultLimit, cfg.Search.MaxLimit,
	)
	log.Printf("Services initialized (ranking weights %s)", cfg.Ranking.Version)

	searchHandler := handler.NewSearchHandler(searchService)
	embeddingHandler := handler.NewEmbeddingHandler(searchService)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.AllowedOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "npa-hybrid-search",
			"version": Version,
		})
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/search", searchHandler.Search)
		apiV1.GET("/listings/:id", searchHandler.GetListing)
		apiV1.POST("/embeddings/batch", embeddingHandler.BatchUpdate)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", addr)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	log.Println("Server stopped")
}
