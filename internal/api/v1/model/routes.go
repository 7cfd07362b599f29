package model

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the catalog endpoints on the given group.
func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	rg.GET("/models", h.ListModels)
	rg.GET("/models/import/template", h.DownloadTemplate)
	rg.POST("/models/import", h.ImportModels)
	rg.GET("/models/:id", h.GetModel)
	rg.GET("/providers", h.GetProviders)
	rg.GET("/sync-logs", h.GetSyncLogs)
	rg.GET("/health", h.HealthCheck)
}
