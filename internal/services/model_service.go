package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/downlz/llmcostguide/internal/database"
	"github.com/downlz/llmcostguide/internal/models"
)

// ModelFilter defines criteria for the catalog listing query. Zero values
// mean "no constraint"; Provider "all" is treated as unset.
type ModelFilter struct {
	Provider      string
	Search        string
	SortBy        string
	SortDirection string
	Limit         int
	Offset        int
}

// SearchFields are the columns the substring-OR search runs over.
var SearchFields = []string{"model_name", "provider", "description"}

// sortColumns maps API sort keys to database columns. Keys outside this map
// are rejected rather than interpolated into ORDER BY.
var sortColumns = map[string]string{
	"model_name":                  "model_name",
	"provider":                    "provider",
	"model_type":                  "model_type",
	"context_limit":               "context_limit",
	"context_window":              "context_window",
	"description":                 "description",
	"input_price_per_1M_tokens":   "input_price_per_1m_tokens",
	"output_price_per_1M_tokens":  "output_price_per_1m_tokens",
	"caching_price_per_1M_tokens": "caching_price_per_1m_tokens",
	"added_on":                    "added_on",
	"updated_on":                  "updated_on",
}

// activeModels scopes every read to live records. Soft-deleted rows never
// reach callers.
func activeModels(db *gorm.DB) *gorm.DB {
	return db.Model(&models.LLMModel{}).Where("is_active = ?", true)
}

func applyFilter(query *gorm.DB, provider, searchTerm string) *gorm.DB {
	if provider != "" && provider != "all" {
		query = query.Where("provider = ?", provider)
	}
	if term := strings.ToLower(strings.TrimSpace(searchTerm)); term != "" {
		pattern := "%" + term + "%"
		conditions := make([]string, len(SearchFields))
		args := make([]interface{}, len(SearchFields))
		for i, field := range SearchFields {
			conditions[i] = "LOWER(" + field + ") LIKE ?"
			args[i] = pattern
		}
		query = query.Where(strings.Join(conditions, " OR "), args...)
	}
	return query
}

// FindModels retrieves a filtered, ordered, paginated page of active models.
func FindModels(ctx context.Context, filter ModelFilter) ([]models.LLMModel, error) {
	query := applyFilter(activeModels(database.DB.WithContext(ctx)), filter.Provider, filter.Search)

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "model_name"
	}
	order := column
	if filter.SortDirection == "desc" {
		order += " DESC"
	}
	query = query.Order(order)

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var records []models.LLMModel
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// SearchModels returns the full matching set for a search term, without
// ordering or paging; the caller refines it client-side.
func SearchModels(ctx context.Context, term string) ([]models.LLMModel, error) {
	if strings.TrimSpace(term) == "" {
		return FindModels(ctx, ModelFilter{})
	}
	var records []models.LLMModel
	query := applyFilter(activeModels(database.DB.WithContext(ctx)), "", term)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CountModels runs the listing filters in count-only mode.
func CountModels(ctx context.Context, provider, search string) (int64, error) {
	var total int64
	query := applyFilter(activeModels(database.DB.WithContext(ctx)), provider, search)
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// GetModelByID retrieves one active model.
func GetModelByID(ctx context.Context, id string) (*models.LLMModel, error) {
	var record models.LLMModel
	err := activeModels(database.DB.WithContext(ctx)).Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// IsNotFound reports whether err is the store's missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// GetProviders returns the distinct providers of active models, sorted.
func GetProviders(ctx context.Context) ([]string, error) {
	var providers []string
	err := activeModels(database.DB.WithContext(ctx)).
		Distinct("provider").
		Order("provider").
		Pluck("provider", &providers).Error
	if err != nil {
		return nil, err
	}
	return providers, nil
}

// upsertColumns are the fields refreshed when an import hits an existing
// (external_model_id, provider) pair. ID and added_on survive the update.
var upsertColumns = []string{
	"model_name",
	"description",
	"model_type",
	"context_limit",
	"context_window",
	"input_price_per_1m_tokens",
	"output_price_per_1m_tokens",
	"caching_price_per_1m_tokens",
	"updated_on",
	"is_active",
}

// UpsertModels writes a batch keyed by (external_model_id, provider) in one
// transaction: matching rows are updated, the rest inserted. A failure
// leaves the store untouched.
func UpsertModels(ctx context.Context, records []models.LLMModel) error {
	if len(records) == 0 {
		return nil
	}
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "external_model_id"},
				{Name: "provider"},
			},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).Create(&records).Error
	})
}

// AppendSyncLog appends one audit entry. The log is insert-only.
func AppendSyncLog(ctx context.Context, entry models.SyncLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return database.DB.WithContext(ctx).Create(&entry).Error
}

// GetSyncLogs returns the most recent audit entries, newest first.
func GetSyncLogs(ctx context.Context, limit int) ([]models.SyncLog, error) {
	if limit <= 0 {
		limit = 10
	}
	var logs []models.SyncLog
	err := database.DB.WithContext(ctx).
		Model(&models.SyncLog{}).
		Order("created_at desc").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// CheckConnection is the cheap existence probe behind the health endpoint.
func CheckConnection(ctx context.Context) error {
	var one int
	return database.DB.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error
}

// Store adapts the package-level repository functions to the importer's
// store interface.
type Store struct{}

func (Store) UpsertModels(ctx context.Context, records []models.LLMModel) error {
	return UpsertModels(ctx, records)
}

func (Store) AppendSyncLog(ctx context.Context, entry models.SyncLog) error {
	return AppendSyncLog(ctx, entry)
}
