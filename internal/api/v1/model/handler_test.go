package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/downlz/llmcostguide/config"
	"github.com/downlz/llmcostguide/internal/cache"
	"github.com/downlz/llmcostguide/internal/database"
	"github.com/downlz/llmcostguide/internal/importer"
	"github.com/downlz/llmcostguide/internal/models"
	"github.com/downlz/llmcostguide/internal/search"
	"github.com/downlz/llmcostguide/internal/services"
	"github.com/downlz/llmcostguide/internal/utils"
	"github.com/downlz/llmcostguide/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.LLMModel{}, &models.SyncLog{}))
	database.DB = db

	cfg := &config.Config{
		ModelCacheFreshFor:    5 * time.Minute,
		ModelCacheRetainFor:   10 * time.Minute,
		CountCacheFreshFor:    2 * time.Minute,
		ConnectionCacheFor:    time.Minute,
		ProviderCacheFreshFor: 5 * time.Minute,
		QueryRetryMaxAttempts: 1,
		QueryRetryBaseDelay:   time.Millisecond,
		QueryRetryMaxDelay:    time.Millisecond,
	}
	query := services.NewModelQueryService(cache.NewMemory(0), cfg)
	h := NewHandler(query, importer.NewPipeline(services.Store{}))

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), h)
	return router
}

func seedCatalog(t *testing.T, records ...models.LLMModel) {
	t.Helper()
	require.NoError(t, database.DB.Create(&records).Error)
}

func catalogModel(id, externalID, provider, name string) models.LLMModel {
	return models.LLMModel{
		ID:              id,
		ExternalModelID: externalID,
		Provider:        provider,
		ModelName:       name,
		ModelType:       models.ModelTypeText,
		AddedOn:         time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		UpdatedOn:       time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		IsActive:        true,
	}
}

func doRequest(router *gin.Engine, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type listEnvelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Models      []ModelItem      `json:"models"`
		Pagination  utils.Pagination `json:"pagination"`
		SearchStats search.Stats     `json:"search_stats"`
	} `json:"data"`
}

func TestListModels(t *testing.T) {
	router := setupRouter(t)
	seedCatalog(t,
		catalogModel("id-1", "gpt-4-turbo", "OpenAI", "GPT-4 Turbo"),
		catalogModel("id-2", "claude-3-opus", "Anthropic", "Claude 3 Opus"),
		catalogModel("id-3", "gemini-pro", "Google", "Gemini Pro"),
	)

	w := doRequest(router, http.MethodGet, "/api/v1/models?limit=2&page=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp listEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 200, resp.Status)
	assert.Len(t, resp.Data.Models, 2)
	assert.Equal(t, int64(3), resp.Data.Pagination.TotalCount)
	assert.Equal(t, 2, resp.Data.Pagination.TotalPages)
	assert.Equal(t, int64(1), resp.Data.Pagination.StartIndex)
	assert.Equal(t, int64(2), resp.Data.Pagination.EndIndex)
	// default sort is model_name ascending
	assert.Equal(t, "Claude 3 Opus", resp.Data.Models[0].ModelName)
	assert.False(t, resp.Data.SearchStats.ActiveSearch)
}

func TestListModelsFormatsDisplayBlock(t *testing.T) {
	router := setupRouter(t)
	m := catalogModel("id-1", "gpt-4-turbo", "OpenAI", "GPT-4 Turbo")
	price := 10.0
	limit := 128000
	m.InputPricePer1MTokens = &price
	m.ContextLimit = &limit
	seedCatalog(t, m)

	w := doRequest(router, http.MethodGet, "/api/v1/models", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp listEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Models, 1)
	display := resp.Data.Models[0].Display
	assert.Equal(t, "$10.0000", display.InputPrice)
	assert.Equal(t, "N/A", display.OutputPrice)
	assert.Equal(t, "128K", display.ContextWindow)
	assert.Equal(t, "Jan 15, 2025", display.AddedOn)
	assert.NotEmpty(t, display.ProviderBadge.BackgroundColor)
}

func TestListModelsSearchPathPagesClientSide(t *testing.T) {
	router := setupRouter(t)
	seedCatalog(t,
		catalogModel("id-1", "gpt-4-turbo", "OpenAI", "GPT-4 Turbo"),
		catalogModel("id-2", "gpt-3.5", "OpenAI", "GPT-3.5 Turbo"),
		catalogModel("id-3", "claude-3-opus", "Anthropic", "Claude 3 Opus"),
	)

	w := doRequest(router, http.MethodGet, "/api/v1/models?search=gpt&limit=1&page=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp listEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Data.Pagination.TotalCount)
	assert.Equal(t, 2, resp.Data.Pagination.TotalPages)
	require.Len(t, resp.Data.Models, 1)
	assert.Equal(t, "GPT-4 Turbo", resp.Data.Models[0].ModelName)
	assert.True(t, resp.Data.SearchStats.ActiveSearch)
	// stats describe the whole filtered set, not the page slice
	assert.Equal(t, 2, resp.Data.SearchStats.FilteredItems)
	assert.Equal(t, 2, resp.Data.SearchStats.TotalItems)
}

func TestListModelsRejectsUnknownSortKey(t *testing.T) {
	router := setupRouter(t)
	w := doRequest(router, http.MethodGet, "/api/v1/models?sort_by=parameters", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListModelsRejectsInvalidSortDirection(t *testing.T) {
	router := setupRouter(t)
	w := doRequest(router, http.MethodGet, "/api/v1/models?sort_dir=sideways", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListModelsRejectsOversizedPage(t *testing.T) {
	router := setupRouter(t)
	w := doRequest(router, http.MethodGet, "/api/v1/models?limit=500", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetModel(t *testing.T) {
	router := setupRouter(t)
	seedCatalog(t, catalogModel("id-1", "gpt-4-turbo", "OpenAI", "GPT-4 Turbo"))

	w := doRequest(router, http.MethodGet, "/api/v1/models/id-1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data ModelItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "GPT-4 Turbo", resp.Data.ModelName)

	w = doRequest(router, http.MethodGet, "/api/v1/models/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProviders(t *testing.T) {
	router := setupRouter(t)
	seedCatalog(t,
		catalogModel("id-1", "gpt-4-turbo", "OpenAI", "GPT-4 Turbo"),
		catalogModel("id-2", "claude-3-opus", "Anthropic", "Claude 3 Opus"),
	)

	w := doRequest(router, http.MethodGet, "/api/v1/providers", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Anthropic", "OpenAI"}, resp.Data)
}

func csvUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestImportModels(t *testing.T) {
	router := setupRouter(t)

	csv := "model_name,provider,model_type,context_limit,input_price_per_1M_tokens\n" +
		"GPT-4 Turbo,OpenAI,Text,128000,10.00\n" +
		"Claude 3 Opus,Anthropic,Text,200000,15.00\n"
	body, contentType := csvUpload(t, "models.csv", csv)

	w := doRequest(router, http.MethodPost, "/api/v1/models/import", body, contentType)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data ImportResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, importer.StateCompleted, resp.Data.State)
	assert.Equal(t, 2, resp.Data.Stats.ValidRows)

	// imported records are visible on the next read
	w = doRequest(router, http.MethodGet, "/api/v1/models", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list listEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Data.Models, 2)

	// and the attempt is audited
	w = doRequest(router, http.MethodGet, "/api/v1/sync-logs", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var logs struct {
		Data []models.SyncLog `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Len(t, logs.Data, 1)
	assert.Equal(t, "manual", logs.Data[0].Provider)
	assert.Equal(t, "csv_import", logs.Data[0].SyncType)
	assert.Equal(t, 2, logs.Data[0].RecordsAdded)
}

func TestImportModelsInvalidatesCachedListing(t *testing.T) {
	router := setupRouter(t)
	seedCatalog(t, catalogModel("id-1", "gpt-4-turbo", "OpenAI", "GPT-4 Turbo"))

	// warm the cache
	w := doRequest(router, http.MethodGet, "/api/v1/models", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	csv := "model_name,provider\nClaude 3 Opus,Anthropic\n"
	body, contentType := csvUpload(t, "models.csv", csv)
	w = doRequest(router, http.MethodPost, "/api/v1/models/import", body, contentType)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(router, http.MethodGet, "/api/v1/models", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list listEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Data.Models, 2)
}

func TestImportModelsRejectsNonCSV(t *testing.T) {
	router := setupRouter(t)
	body, contentType := csvUpload(t, "models.xlsx", "whatever")

	w := doRequest(router, http.MethodPost, "/api/v1/models/import", body, contentType)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Data ImportResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.FileErrors)
}

func TestImportModelsMissingFile(t *testing.T) {
	router := setupRouter(t)
	w := doRequest(router, http.MethodPost, "/api/v1/models/import", bytes.NewBuffer(nil), "multipart/form-data")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportModelsNoValidRows(t *testing.T) {
	router := setupRouter(t)

	// rows missing the required model_name are rejected
	csv := "model_name,provider\n,OpenAI\n"
	body, contentType := csvUpload(t, "models.csv", csv)

	w := doRequest(router, http.MethodPost, "/api/v1/models/import", body, contentType)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDownloadTemplate(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/models/import/template", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), importer.TemplateFilename)
	assert.Contains(t, w.Body.String(), "model_name")
	assert.Contains(t, w.Body.String(), "GPT-4 Turbo")
}

func TestGetSyncLogsInvalidLimit(t *testing.T) {
	router := setupRouter(t)
	w := doRequest(router, http.MethodGet, "/api/v1/sync-logs?limit=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(t)
	w := doRequest(router, http.MethodGet, "/api/v1/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data HealthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Connected)
}
