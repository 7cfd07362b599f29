package format

// BadgeStyle is the display styling for a provider badge.
type BadgeStyle struct {
	Color           string `json:"color"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
}

// TypeConfig is the display styling for a model type chip.
type TypeConfig struct {
	Icon            string `json:"icon"`
	Color           string `json:"color"`
	BackgroundColor string `json:"background_color"`
}

var providerBadges = map[string]BadgeStyle{
	"OpenRouter":  {Color: "#00d4aa", BackgroundColor: "#e6fff9", TextColor: "#006644"},
	"TogetherAI":  {Color: "#6366f1", BackgroundColor: "#eef2ff", TextColor: "#3730a3"},
	"Moonshot AI": {Color: "#8b5cf6", BackgroundColor: "#f3e8ff", TextColor: "#6d28d9"},
}

var defaultBadge = BadgeStyle{Color: "#666", BackgroundColor: "#f5f5f5", TextColor: "#333"}

var modelTypeConfigs = map[string]TypeConfig{
	"Text":       {Icon: "text", Color: "#2196f3", BackgroundColor: "#e3f2fd"},
	"Images":     {Icon: "image", Color: "#ff9800", BackgroundColor: "#fff3e0"},
	"Videos":     {Icon: "video", Color: "#e91e63", BackgroundColor: "#fce4ec"},
	"Embeddings": {Icon: "embed", Color: "#4caf50", BackgroundColor: "#e8f5e8"},
}

var defaultTypeConfig = TypeConfig{Icon: "model", Color: "#666", BackgroundColor: "#f5f5f5"}

// GetProviderBadge returns the badge styling for a provider, falling back to
// a neutral style for unknown names.
func GetProviderBadge(provider string) BadgeStyle {
	if badge, ok := providerBadges[provider]; ok {
		return badge
	}
	return defaultBadge
}

// GetModelTypeConfig returns the chip styling for a model type, falling back
// to a neutral style for unknown types.
func GetModelTypeConfig(modelType string) TypeConfig {
	if cfg, ok := modelTypeConfigs[modelType]; ok {
		return cfg
	}
	return defaultTypeConfig
}
