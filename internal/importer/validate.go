package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/downlz/llmcostguide/internal/format"
	"github.com/downlz/llmcostguide/internal/models"
)

// RowIssue is a field-level validation finding. Row numbers are 1-based over
// the data rows, matching what a user sees below the header line.
type RowIssue struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validateRow checks one parsed row and, when it carries no errors, builds
// the record with all defaults filled. Rows are independent; warnings never
// block a row.
func validateRow(row map[string]string, rowNumber int, now time.Time, newID func() string) (models.LLMModel, []RowIssue, []RowIssue) {
	var errs, warnings []RowIssue

	record := models.LLMModel{
		ModelName:   strings.TrimSpace(row["model_name"]),
		Provider:    strings.TrimSpace(row["provider"]),
		Description: row["description"],
	}

	if record.ModelName == "" {
		errs = append(errs, RowIssue{Row: rowNumber, Field: "model_name", Message: "Model name is required"})
	}

	if record.Provider == "" {
		errs = append(errs, RowIssue{Row: rowNumber, Field: "provider", Message: "Provider is required"})
	} else if !models.IsKnownProvider(record.Provider) {
		warnings = append(warnings, RowIssue{
			Row:     rowNumber,
			Field:   "provider",
			Message: fmt.Sprintf("Provider %q may not be supported", record.Provider),
		})
	}

	if raw := row["context_limit"]; raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			errs = append(errs, RowIssue{Row: rowNumber, Field: "context_limit", Message: "Context limit must be a positive number"})
		} else {
			record.ContextLimit = &limit
		}
	}

	record.InputPricePer1MTokens = parsePriceField(row, "input_price_per_1M_tokens", "Input price", rowNumber, &errs)
	record.OutputPricePer1MTokens = parsePriceField(row, "output_price_per_1M_tokens", "Output price", rowNumber, &errs)

	// Caching price is nullable: absent or empty normalizes to null.
	if raw := row["caching_price_per_1M_tokens"]; raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price < 0 {
			errs = append(errs, RowIssue{
				Row:     rowNumber,
				Field:   "caching_price_per_1M_tokens",
				Message: "Caching price must be a positive number or empty",
			})
		} else {
			record.CachingPricePer1MTokens = &price
		}
	}

	if raw := row["model_type"]; raw != "" {
		record.ModelType = models.ModelType(raw)
		if !models.IsValidModelType(record.ModelType) {
			warnings = append(warnings, RowIssue{
				Row:     rowNumber,
				Field:   "model_type",
				Message: fmt.Sprintf("Model type %q should be one of: Text, Images, Videos, Embeddings", raw),
			})
		}
	} else {
		record.ModelType = models.ModelTypeText
	}

	record.ContextWindow = row["context_window"]
	if record.ContextWindow == "" && record.ContextLimit != nil {
		record.ContextWindow = format.FormatContextLimit(record.ContextLimit)
	}

	record.ExternalModelID = row["external_model_id"]
	if record.ExternalModelID == "" {
		record.ExternalModelID = format.Slugify(record.ModelName)
	}

	record.AddedOn = now
	if raw := row["added_on"]; raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			record.AddedOn = t
		}
	}
	record.UpdatedOn = now
	record.IsActive = true
	record.ID = newID()

	return record, errs, warnings
}

func parsePriceField(row map[string]string, field, label string, rowNumber int, errs *[]RowIssue) *float64 {
	raw := row[field]
	if raw == "" {
		return nil
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price < 0 {
		*errs = append(*errs, RowIssue{
			Row:     rowNumber,
			Field:   field,
			Message: label + " must be a positive number",
		})
		return nil
	}
	return &price
}
