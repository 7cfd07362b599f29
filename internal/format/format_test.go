package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCleanPriceValue(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  float64
		ok    bool
	}{
		{"currency string", "$1,234.50", 1234.5, true},
		{"plain string", "0.015", 0.015, true},
		{"whitespace", "  $2.50 ", 2.5, true},
		{"non-numeric", "abc", 0, false},
		{"empty string", "", 0, false},
		{"zero is valid", 0, 0, true},
		{"float", 12.5, 12.5, true},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CleanPriceValue(tt.input)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCleanPriceValueNilPointer(t *testing.T) {
	var p *float64
	_, ok := CleanPriceValue(p)
	assert.False(t, ok)

	v := 3.5
	got, ok := CleanPriceValue(&v)
	assert.True(t, ok)
	assert.Equal(t, 3.5, got)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "N/A", FormatPrice(nil))
	assert.Equal(t, "N/A", FormatPrice("abc"))
	assert.Equal(t, "Free", FormatPrice(0))
	assert.Equal(t, "$0.0100", FormatPrice(0.01))
	assert.Equal(t, "$1,234.5000", FormatPrice("$1,234.50"))
}

func TestFormatPricePer1KTokens(t *testing.T) {
	// OpenRouter rows carry the scale override
	assert.Equal(t, "$10,000.0000", FormatPricePer1KTokens(0.01, "OpenRouter"))
	// other providers are unscaled
	assert.Equal(t, "$0.0100", FormatPricePer1KTokens(0.01, "Anthropic"))
	assert.Equal(t, "Free", FormatPricePer1KTokens(0, "OpenRouter"))
	assert.Equal(t, "N/A", FormatPricePer1KTokens(nil, "OpenRouter"))
}

func intPtr(n int) *int { return &n }

func TestFormatContextLimit(t *testing.T) {
	assert.Equal(t, "128K", FormatContextLimit(intPtr(128000)))
	assert.Equal(t, "2.0M", FormatContextLimit(intPtr(2000000)))
	assert.Equal(t, "1.5M", FormatContextLimit(intPtr(1500000)))
	assert.Equal(t, "200K", FormatContextLimit(intPtr(200000)))
	assert.Equal(t, "512", FormatContextLimit(intPtr(512)))
	assert.Equal(t, "N/A", FormatContextLimit(nil))
	assert.Equal(t, "N/A", FormatContextLimit(intPtr(0)))
}

func TestFormatContextWindow(t *testing.T) {
	assert.Equal(t, "128K Context", FormatContextWindow(intPtr(128000)))
	assert.Equal(t, "N/A Context", FormatContextWindow(nil))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "N/A", FormatDate(""))
	assert.Equal(t, "Invalid Date", FormatDate("not-a-date"))
	assert.Equal(t, "Mar 15, 2024", FormatDate("2024-03-15T10:30:00Z"))
	assert.Equal(t, "Jan 02, 2025", FormatDate("2025-01-02"))
}

func TestFormatRelativeTime(t *testing.T) {
	assert.Equal(t, "Unknown", FormatRelativeTime(""))
	assert.Equal(t, "Invalid Date", FormatRelativeTime("garbage"))

	now := time.Now()
	assert.Equal(t, "Just now", FormatRelativeTime(now.Format(time.RFC3339)))
	assert.Equal(t, "2 hours ago", FormatRelativeTime(now.Add(-2*time.Hour).Format(time.RFC3339)))
	assert.Equal(t, "1 day ago", FormatRelativeTime(now.Add(-25*time.Hour).Format(time.RFC3339)))

	old := now.Add(-30 * 24 * time.Hour)
	assert.Equal(t, old.Format("Jan 02, 2006"), FormatRelativeTime(old.Format(time.RFC3339)))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 50))
	assert.Equal(t, "", TruncateText("", 50))

	long := "This description is definitely longer than twenty characters"
	got := TruncateText(long, 20)
	assert.Len(t, []rune(got), 20)
	assert.Equal(t, "...", got[len(got)-3:])
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "gpt-4-turbo", Slugify("GPT-4 Turbo"))
	assert.Equal(t, "claude-3-opus", Slugify("Claude 3 Opus"))
	assert.Equal(t, "llama-31-405b", Slugify("Llama 3.1  405B!"))
	assert.Equal(t, "", Slugify(""))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatNumber(1234567))
	assert.Equal(t, "0", FormatNumber(0))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatFileSize(0))
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1 KB", FormatFileSize(1024))
	assert.Equal(t, "1.5 MB", FormatFileSize(1536*1024))
}

func TestGetProviderBadge(t *testing.T) {
	badge := GetProviderBadge("OpenRouter")
	assert.Equal(t, "#00d4aa", badge.Color)

	fallback := GetProviderBadge("SomeNewProvider")
	assert.Equal(t, defaultBadge, fallback)
}

func TestGetModelTypeConfig(t *testing.T) {
	cfg := GetModelTypeConfig("Embeddings")
	assert.Equal(t, "#4caf50", cfg.Color)

	fallback := GetModelTypeConfig("Audio")
	assert.Equal(t, defaultTypeConfig, fallback)
}
