package models

import "time"

type ModelType string

const (
	ModelTypeText       ModelType = "Text"
	ModelTypeImages     ModelType = "Images"
	ModelTypeVideos     ModelType = "Videos"
	ModelTypeEmbeddings ModelType = "Embeddings"
)

// ValidModelTypes is the closed set of recognized model types. Unknown values
// are kept on import but flagged with a warning.
var ValidModelTypes = []ModelType{
	ModelTypeText,
	ModelTypeImages,
	ModelTypeVideos,
	ModelTypeEmbeddings,
}

// KnownProviders is the allow-list used by the import validator. A provider
// outside this list produces a warning, never an error.
var KnownProviders = []string{
	"OpenRouter",
	"TogetherAI",
	"Anthropic",
	"OpenAI",
	"Google",
}

// LLMModel is one priced model offering. The (ExternalModelID, Provider) pair
// is the natural key used by the import upsert; ID is an opaque surrogate.
type LLMModel struct {
	ID              string `gorm:"primarykey" json:"id"`
	ExternalModelID string `gorm:"uniqueIndex:idx_external_provider;not null" json:"external_model_id"`
	Provider        string `gorm:"uniqueIndex:idx_external_provider;index;not null" json:"provider"`

	ModelName   string    `gorm:"index;not null" json:"model_name"`
	Description string    `json:"description"`
	ModelType   ModelType `gorm:"not null;default:'Text'" json:"model_type"`

	ContextLimit  *int   `json:"context_limit"`
	ContextWindow string `json:"context_window"`

	InputPricePer1MTokens   *float64 `gorm:"column:input_price_per_1m_tokens" json:"input_price_per_1M_tokens"`
	OutputPricePer1MTokens  *float64 `gorm:"column:output_price_per_1m_tokens" json:"output_price_per_1M_tokens"`
	CachingPricePer1MTokens *float64 `gorm:"column:caching_price_per_1m_tokens" json:"caching_price_per_1M_tokens"`

	AddedOn   time.Time `json:"added_on"`
	UpdatedOn time.Time `json:"updated_on"`
	IsActive  bool      `gorm:"index;not null;default:true" json:"is_active"`
}

func (LLMModel) TableName() string {
	return "llm_models"
}

// IsValidModelType reports whether t is in the recognized enum.
func IsValidModelType(t ModelType) bool {
	for _, v := range ValidModelTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsKnownProvider reports whether name is on the provider allow-list.
func IsKnownProvider(name string) bool {
	for _, p := range KnownProviders {
		if p == name {
			return true
		}
	}
	return false
}
