package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/downlz/llmcostguide/config"
	_ "github.com/downlz/llmcostguide/docs"
	"github.com/downlz/llmcostguide/internal/api/v1/model"
	"github.com/downlz/llmcostguide/internal/cache"
	"github.com/downlz/llmcostguide/internal/database"
	"github.com/downlz/llmcostguide/internal/importer"
	"github.com/downlz/llmcostguide/internal/middleware"
	"github.com/downlz/llmcostguide/internal/services"
)

func NewRouter() (*gin.Engine, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	_, err = database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}

	err = database.ConnectRedis(cfg)
	if err != nil {
		return nil, err
	}

	queryCache := cache.NewRedis(database.RedisClient, "")
	queryService := services.NewModelQueryService(queryCache, cfg)
	pipeline := importer.NewPipeline(services.Store{})
	handler := model.NewHandler(queryService, pipeline)

	router := gin.New()
	router.Use(middleware.Logger(), gin.Recovery())

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8080"}, // Allow frontend origin
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum age for preflight requests
	}))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1
	v1 := router.Group("/api/v1")
	model.RegisterRoutes(v1, handler)

	return router, nil
}
