package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Display formatting for catalog fields. All functions are total: bad input
// yields a placeholder string, never an error.

var enUS = message.NewPrinter(language.AmericanEnglish)

// ProviderPriceScale holds per-provider multipliers applied before a price is
// displayed per 1K tokens. OpenRouter rows are stored in a different unit than
// the per-1M column naming suggests; the override is kept as-is pending
// product clarification rather than silently normalized.
var ProviderPriceScale = map[string]float64{
	"OpenRouter": 1000000,
}

var priceCleaner = strings.NewReplacer("$", "", ",", "", " ", "", "\t", "")

// CleanPriceValue converts a raw price value (string or number) to a float.
// Strings may carry currency symbols, commas and whitespace. Returns ok=false
// for anything non-numeric; zero is a valid price.
func CleanPriceValue(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return v, v == v // NaN fails
	case float32:
		return float64(v), v == v
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case *float64:
		if v == nil {
			return 0, false
		}
		return CleanPriceValue(*v)
	case string:
		cleaned := strings.TrimSpace(priceCleaner.Replace(v))
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// FormatPrice renders a price as an en-US currency string with 4 to 6
// fraction digits. Missing values render "N/A", zero renders "Free".
func FormatPrice(raw interface{}) string {
	price, ok := CleanPriceValue(raw)
	if !ok {
		return "N/A"
	}
	if price == 0 {
		return "Free"
	}
	return enUS.Sprintf("$%v", number.Decimal(price,
		number.MinFractionDigits(4),
		number.MaxFractionDigits(6),
	))
}

// FormatPricePer1KTokens applies the provider's scale factor before
// formatting. Providers without an override are displayed unscaled.
func FormatPricePer1KTokens(raw interface{}, provider string) string {
	price, ok := CleanPriceValue(raw)
	if !ok {
		return "N/A"
	}
	if price == 0 {
		return "Free"
	}
	if scale, found := ProviderPriceScale[provider]; found {
		price *= scale
	}
	return FormatPrice(price)
}

// FormatContextLimit renders a context size as "1.5M", "128K" or the literal
// integer. Missing or non-positive limits render "N/A".
func FormatContextLimit(limit *int) string {
	if limit == nil || *limit <= 0 {
		return "N/A"
	}
	n := *limit
	switch {
	case n >= 1000000:
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	case n >= 1000:
		return fmt.Sprintf("%.0fK", float64(n)/1000)
	default:
		return strconv.Itoa(n)
	}
}

// FormatContextWindow is the human-readable variant shown in table cells.
func FormatContextWindow(limit *int) string {
	return FormatContextLimit(limit) + " Context"
}

// FormatDate renders an ISO timestamp as "Jan 02, 2006".
func FormatDate(iso string) string {
	if iso == "" {
		return "N/A"
	}
	t, err := parseISO(iso)
	if err != nil {
		return "Invalid Date"
	}
	return t.Format("Jan 02, 2006")
}

// FormatRelativeTime renders a timestamp as "2 days ago" style text, falling
// back to the absolute date beyond a week.
func FormatRelativeTime(iso string) string {
	if iso == "" {
		return "Unknown"
	}
	t, err := parseISO(iso)
	if err != nil {
		return "Invalid Date"
	}
	diff := time.Since(t)
	switch {
	case diff > 7*24*time.Hour:
		return t.Format("Jan 02, 2006")
	case diff >= 24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	case diff >= time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff >= time.Minute:
		return plural(int(diff.Minutes()), "minute")
	default:
		return "Just now"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

func parseISO(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// FormatNumber renders an integer with en-US thousand separators.
func FormatNumber(value int64) string {
	return enUS.Sprintf("%v", number.Decimal(value))
}

// TruncateText cuts text to maxLen runes, ending with "..." when truncated.
func TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

var (
	slugInvalid   = regexp.MustCompile(`[^\w\s-]`)
	slugSeparator = regexp.MustCompile(`[\s_-]+`)
)

// Slugify derives a URL-safe identifier from free text. Used to fill
// external_model_id from the model name on import.
func Slugify(text string) string {
	s := strings.ToLower(text)
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugSeparator.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// FormatFileSize renders a byte count with a binary unit suffix.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	// round to two decimals, drop trailing zeros
	rounded := math.Round(size*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + units[i]
}
