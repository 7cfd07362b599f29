package model

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/downlz/llmcostguide/internal/importer"
	"github.com/downlz/llmcostguide/internal/search"
	"github.com/downlz/llmcostguide/internal/services"
	"github.com/downlz/llmcostguide/internal/sorting"
	"github.com/downlz/llmcostguide/internal/utils"
)

// Handler serves the catalog endpoints. All reads go through the query
// service so identical parameter tuples share cached results.
type Handler struct {
	query    *services.ModelQueryService
	pipeline *importer.Pipeline
	sorter   *sorting.Sorter
}

func NewHandler(query *services.ModelQueryService, pipeline *importer.Pipeline) *Handler {
	return &Handler{
		query:    query,
		pipeline: pipeline,
		sorter:   sorting.NewSorter(),
	}
}

// ListModels godoc
// @Summary List catalog models
// @Description Paginated, sortable catalog of active models with optional provider filter and free-text search
// @Tags models
// @Produce json
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Page size" default(25)
// @Param provider query string false "Filter by provider ('all' for no filter)"
// @Param search query string false "Free-text search over name, provider and description"
// @Param sort_by query string false "Sort key" default(model_name)
// @Param sort_dir query string false "asc or desc" default(asc)
// @Success 200 {object} utils.Response{data=ModelListResponse}
// @Failure 400 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /models [get]
func (h *Handler) ListModels(c *gin.Context) {
	var q ListModelsQuery
	if !utils.BindQuery(c, &q) {
		return
	}
	if !sorting.IsSortable(q.SortBy) {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Unknown sort key: "+q.SortBy))
		return
	}

	pagination := utils.NewPagination(q.Page, q.Limit, 0)
	opts := services.FetchOptions{
		Provider:      q.Provider,
		Search:        q.Search,
		SortBy:        q.SortBy,
		SortDirection: q.SortDir,
		Limit:         pagination.PageSize,
		Offset:        pagination.Offset(),
	}

	records, err := h.query.FetchModels(c.Request.Context(), opts)
	if err != nil {
		status := http.StatusInternalServerError
		if services.IsAuthError(err) {
			status = http.StatusUnauthorized
		}
		c.JSON(status, utils.NewErrorResponse(status, err.Error()))
		return
	}

	cfg := sorting.Config{Key: q.SortBy, Direction: sorting.Direction(q.SortDir)}
	var totalCount int64
	fetched := len(records)
	filtered := fetched
	if search.ComputeStats(0, 0, q.Search).ActiveSearch {
		// Search queries return the full matching set; refine, order and
		// page it here.
		records = search.Filter(records, search.DefaultFields, q.Search)
		records = h.sorter.Sort(records, cfg)
		filtered = len(records)
		totalCount = int64(filtered)

		pagination = utils.NewPagination(q.Page, q.Limit, totalCount)
		start := pagination.Offset()
		if start > len(records) {
			start = len(records)
		}
		end := start + pagination.PageSize
		if end > len(records) {
			end = len(records)
		}
		records = records[start:end]
	} else {
		totalCount, err = h.query.CountModels(c.Request.Context(), q.Provider, q.Search)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
			return
		}
		pagination = utils.NewPagination(q.Page, q.Limit, totalCount)
	}

	items := make([]ModelItem, 0, len(records))
	for i := range records {
		items = append(items, toModelItem(&records[i]))
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", ModelListResponse{
		Models:      items,
		Pagination:  pagination,
		SearchStats: search.ComputeStats(fetched, filtered, q.Search),
	}))
}

// GetModel godoc
// @Summary Get one model
// @Tags models
// @Produce json
// @Param id path string true "Model ID"
// @Success 200 {object} utils.Response{data=ModelItem}
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /models/{id} [get]
func (h *Handler) GetModel(c *gin.Context) {
	record, err := services.GetModelByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, "Model not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch model"))
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", toModelItem(record)))
}

// GetProviders godoc
// @Summary List distinct providers of active models
// @Tags providers
// @Produce json
// @Success 200 {object} utils.Response{data=[]string}
// @Failure 500 {object} utils.Response
// @Router /providers [get]
func (h *Handler) GetProviders(c *gin.Context) {
	providers, err := h.query.Providers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch providers"))
		return
	}
	if providers == nil {
		providers = []string{}
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", providers))
}

// ImportModels godoc
// @Summary Bulk import models from a CSV file
// @Description Validates and upserts the uploaded rows keyed by (external_model_id, provider). All-or-nothing: a store failure imports nothing.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file (max 10MB)"
// @Success 200 {object} utils.Response{data=ImportResponse}
// @Failure 400 {object} utils.Response{data=ImportResponse}
// @Failure 422 {object} utils.Response{data=ImportResponse}
// @Failure 500 {object} utils.Response{data=ImportResponse}
// @Router /models/import [post]
func (h *Handler) ImportModels(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Missing file upload"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Unable to read uploaded file"))
		return
	}
	defer file.Close()

	result := h.pipeline.Run(c.Request.Context(), fileHeader.Filename, fileHeader.Size, file)
	response := ImportResponse{
		State:      result.State,
		Stats:      result.Stats,
		Errors:     result.Errors,
		Warnings:   result.Warnings,
		FileErrors: result.FileErrors,
		ParseError: result.ParseError,
		ImportErr:  result.ImportErr,
	}

	switch {
	case len(result.FileErrors) > 0 || result.ParseError != "":
		c.JSON(http.StatusBadRequest, utils.NewResponse(http.StatusBadRequest, "Import rejected", response))
	case result.State == importer.StateFailed && result.Stats.ValidRows == 0:
		c.JSON(http.StatusUnprocessableEntity, utils.NewResponse(http.StatusUnprocessableEntity, "No valid rows to import", response))
	case result.State == importer.StateFailed:
		c.JSON(http.StatusInternalServerError, utils.NewResponse(http.StatusInternalServerError, "Import failed", response))
	default:
		// Imported records must be visible on the next read.
		h.query.Invalidate(c.Request.Context())
		c.JSON(http.StatusOK, utils.NewSuccessResponse("Import completed", response))
	}
}

// DownloadTemplate godoc
// @Summary Download the CSV import template
// @Tags import
// @Produce text/csv
// @Success 200 {string} string "CSV content"
// @Router /models/import/template [get]
func (h *Handler) DownloadTemplate(c *gin.Context) {
	content := importer.Template()
	c.Header("Content-Disposition", `attachment; filename="`+importer.TemplateFilename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(content)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", content)
}

// GetSyncLogs godoc
// @Summary List recent import audit entries
// @Tags import
// @Produce json
// @Param limit query int false "Number of entries" default(10)
// @Success 200 {object} utils.Response{data=[]models.SyncLog}
// @Failure 500 {object} utils.Response
// @Router /sync-logs [get]
func (h *Handler) GetSyncLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid limit number"))
		return
	}
	logs, err := services.GetSyncLogs(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch sync logs"))
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", logs))
}

// HealthCheck godoc
// @Summary Report store connectivity
// @Tags health
// @Produce json
// @Success 200 {object} utils.Response{data=HealthResponse}
// @Router /health [get]
func (h *Handler) HealthCheck(c *gin.Context) {
	connected := h.query.CheckConnection(c.Request.Context())
	status := http.StatusOK
	if !connected {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, utils.NewResponse(status, "Success", HealthResponse{Connected: connected}))
}
