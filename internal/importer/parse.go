package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// headerSynonyms maps the spellings accepted in uploaded files to canonical
// column names. Matching is case-insensitive; unrecognized headers pass
// through lower-cased.
var headerSynonyms = map[string]string{
	"model_name":    "model_name",
	"model name":    "model_name",
	"provider":      "provider",
	"context_limit": "context_limit",
	"context limit": "context_limit",
	"input_price":   "input_price_per_1M_tokens",
	"input price":   "input_price_per_1M_tokens",
	"output_price":  "output_price_per_1M_tokens",
	"output price":  "output_price_per_1M_tokens",
	"caching_price": "caching_price_per_1M_tokens",
	"caching price": "caching_price_per_1M_tokens",
	"model_type":    "model_type",
	"model type":    "model_type",
	"type":          "model_type",

	"input_price_per_1m_tokens":   "input_price_per_1M_tokens",
	"output_price_per_1m_tokens":  "output_price_per_1M_tokens",
	"caching_price_per_1m_tokens": "caching_price_per_1M_tokens",

	"context_window": "context_window",
	"context window": "context_window",
	"description":    "description",
	"added_on":       "added_on",
	"added on":       "added_on",
}

// CanonicalColumns is the full column set of the template file, in order.
var CanonicalColumns = []string{
	"model_name",
	"provider",
	"context_limit",
	"input_price_per_1M_tokens",
	"output_price_per_1M_tokens",
	"caching_price_per_1M_tokens",
	"model_type",
	"context_window",
	"description",
	"added_on",
}

func canonicalHeader(header string) string {
	normalized := strings.ToLower(strings.TrimSpace(header))
	if canonical, ok := headerSynonyms[normalized]; ok {
		return canonical
	}
	return normalized
}

// parseCSV reads a delimited file with a header row into one map per data
// row. Rows that are entirely empty are skipped; short rows leave trailing
// columns unset.
func parseCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = canonicalHeader(h)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid CSV on line %d: %w", len(rows)+2, err)
		}

		empty := true
		row := make(map[string]string, len(columns))
		for i, value := range record {
			if i >= len(columns) {
				break
			}
			value = strings.TrimSpace(value)
			if value != "" {
				empty = false
			}
			row[columns[i]] = value
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
