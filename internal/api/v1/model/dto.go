package model

import (
	"time"

	"github.com/downlz/llmcostguide/internal/format"
	"github.com/downlz/llmcostguide/internal/importer"
	"github.com/downlz/llmcostguide/internal/models"
	"github.com/downlz/llmcostguide/internal/search"
	"github.com/downlz/llmcostguide/internal/utils"
)

// ListModelsQuery holds the catalog listing parameters.
type ListModelsQuery struct {
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit    int    `form:"limit,default=25" binding:"omitempty,min=1,max=100"`
	Provider string `form:"provider"`
	Search   string `form:"search"`
	SortBy   string `form:"sort_by,default=model_name"`
	SortDir  string `form:"sort_dir,default=asc" binding:"omitempty,oneof=asc desc"`
}

// ModelDisplay carries the pre-formatted strings the table renders, so the
// client does not re-implement price or context formatting.
type ModelDisplay struct {
	InputPrice    string            `json:"input_price"`
	OutputPrice   string            `json:"output_price"`
	CachingPrice  string            `json:"caching_price"`
	ContextWindow string            `json:"context_window"`
	AddedOn       string            `json:"added_on"`
	ProviderBadge format.BadgeStyle `json:"provider_badge"`
	TypeConfig    format.TypeConfig `json:"type_config"`
}

// ModelItem is one catalog row: the raw record plus display formatting.
type ModelItem struct {
	ID                      string           `json:"id"`
	ExternalModelID         string           `json:"external_model_id"`
	ModelName               string           `json:"model_name"`
	Provider                string           `json:"provider"`
	Description             string           `json:"description"`
	ModelType               models.ModelType `json:"model_type"`
	ContextLimit            *int             `json:"context_limit"`
	InputPricePer1MTokens   *float64         `json:"input_price_per_1M_tokens"`
	OutputPricePer1MTokens  *float64         `json:"output_price_per_1M_tokens"`
	CachingPricePer1MTokens *float64         `json:"caching_price_per_1M_tokens"`
	AddedOn                 time.Time        `json:"added_on"`
	UpdatedOn               time.Time        `json:"updated_on"`
	Display                 ModelDisplay     `json:"display"`
}

// ModelListResponse is the listing payload: one page of rows plus the
// derived pagination state and search statistics.
type ModelListResponse struct {
	Models      []ModelItem      `json:"models"`
	Pagination  utils.Pagination `json:"pagination"`
	SearchStats search.Stats     `json:"search_stats"`
}

// ImportResponse reports one import attempt.
type ImportResponse struct {
	State      importer.State      `json:"state"`
	Stats      importer.Stats      `json:"stats"`
	Errors     []importer.RowIssue `json:"errors"`
	Warnings   []importer.RowIssue `json:"warnings"`
	FileErrors []string            `json:"file_errors,omitempty"`
	ParseError string              `json:"parse_error,omitempty"`
	ImportErr  string              `json:"import_error,omitempty"`
}

// HealthResponse reports store reachability.
type HealthResponse struct {
	Connected bool `json:"connected"`
}

func toModelItem(m *models.LLMModel) ModelItem {
	contextWindow := m.ContextWindow
	if contextWindow == "" {
		contextWindow = format.FormatContextLimit(m.ContextLimit)
	}
	return ModelItem{
		ID:                      m.ID,
		ExternalModelID:         m.ExternalModelID,
		ModelName:               m.ModelName,
		Provider:                m.Provider,
		Description:             format.TruncateText(m.Description, 120),
		ModelType:               m.ModelType,
		ContextLimit:            m.ContextLimit,
		InputPricePer1MTokens:   m.InputPricePer1MTokens,
		OutputPricePer1MTokens:  m.OutputPricePer1MTokens,
		CachingPricePer1MTokens: m.CachingPricePer1MTokens,
		AddedOn:                 m.AddedOn,
		UpdatedOn:               m.UpdatedOn,
		Display: ModelDisplay{
			InputPrice:    format.FormatPrice(m.InputPricePer1MTokens),
			OutputPrice:   format.FormatPrice(m.OutputPricePer1MTokens),
			CachingPrice:  format.FormatPrice(m.CachingPricePer1MTokens),
			ContextWindow: contextWindow,
			AddedOn:       format.FormatDate(m.AddedOn.Format(time.RFC3339)),
			ProviderBadge: format.GetProviderBadge(m.Provider),
			TypeConfig:    format.GetModelTypeConfig(string(m.ModelType)),
		},
	}
}
