package search

import (
	"strings"

	"github.com/downlz/llmcostguide/internal/models"
)

// DefaultFields is the searchable field set of the catalog table.
var DefaultFields = []string{"model_name", "provider", "description"}

// fieldValue resolves a searchable field name on a record. Unknown fields
// contribute nothing to the haystack.
func fieldValue(m *models.LLMModel, field string) string {
	switch field {
	case "model_name":
		return m.ModelName
	case "provider":
		return m.Provider
	case "description":
		return m.Description
	case "model_type":
		return string(m.ModelType)
	case "external_model_id":
		return m.ExternalModelID
	default:
		return ""
	}
}

// Terms splits a free-text query into lower-cased search terms.
func Terms(query string) []string {
	var terms []string
	for _, t := range strings.Fields(strings.ToLower(query)) {
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// Filter returns the records matching the query over the given fields. A
// record matches when every term is a substring of the joined lower-cased
// field values (AND semantics). An empty or whitespace-only query returns
// the input unchanged.
func Filter(records []models.LLMModel, fields []string, query string) []models.LLMModel {
	terms := Terms(query)
	if len(terms) == 0 {
		return records
	}
	if len(fields) == 0 {
		fields = DefaultFields
	}

	var matched []models.LLMModel
	for i := range records {
		values := make([]string, 0, len(fields))
		for _, f := range fields {
			values = append(values, strings.ToLower(fieldValue(&records[i], f)))
		}
		haystack := strings.Join(values, " ")

		ok := true
		for _, term := range terms {
			if !strings.Contains(haystack, term) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, records[i])
		}
	}
	if matched == nil {
		matched = []models.LLMModel{}
	}
	return matched
}

// Stats summarizes one filter pass for display purposes.
type Stats struct {
	TotalItems    int      `json:"total_items"`
	FilteredItems int      `json:"filtered_items"`
	ActiveSearch  bool     `json:"has_active_search"`
	Terms         []string `json:"search_terms"`
}

// ComputeStats derives display statistics for a query over a record set.
func ComputeStats(total, filtered int, query string) Stats {
	terms := Terms(query)
	return Stats{
		TotalItems:    total,
		FilteredItems: filtered,
		ActiveSearch:  len(terms) > 0,
		Terms:         terms,
	}
}
