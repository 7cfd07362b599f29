package main

import (
	"log"

	"github.com/downlz/llmcostguide/config"
	"github.com/downlz/llmcostguide/internal/api"
	"github.com/downlz/llmcostguide/internal/database"
	"github.com/downlz/llmcostguide/internal/models"
	"github.com/downlz/llmcostguide/pkg/logger"
)

// @title LLMCostGuide API
// @version 1.0
// @description Catalog service for LLM pricing data: searchable, sortable,
// @description paginated model listings with CSV bulk import.

// @host localhost:8080
// @BasePath /api/v1

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.InitLogger(&logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	}); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	router, err := api.NewRouter()
	if err != nil {
		log.Fatalf("failed to create router: %v", err)
	}

	// Migrate the schema
	err = database.DB.AutoMigrate(&models.LLMModel{}, &models.SyncLog{})
	if err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	if err := router.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
