package sorting

import (
	"sort"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/downlz/llmcostguide/internal/format"
	"github.com/downlz/llmcostguide/internal/models"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Toggle returns the direction after clicking the same column again.
func (d Direction) Toggle() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// FieldType is the explicit comparison rule for a sortable field. Dispatch is
// schema-driven; key names are never inspected for substrings.
type FieldType int

const (
	TypeText FieldType = iota
	TypeNumber
	TypePrice
	TypeDate
)

// Config is one sort axis. The table holds exactly one active axis; the
// multi-key comparator below accepts a priority list.
type Config struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// DefaultConfig is the initial table ordering.
var DefaultConfig = Config{Key: "model_name", Direction: Ascending}

type fieldSpec struct {
	fieldType FieldType
	value     func(*models.LLMModel) interface{}
}

// fields is the sortable-field schema. A value of nil means "null" and sorts
// ahead of every real value in ascending order.
var fields = map[string]fieldSpec{
	"model_name": {TypeText, func(m *models.LLMModel) interface{} { return m.ModelName }},
	"provider":   {TypeText, func(m *models.LLMModel) interface{} { return m.Provider }},
	"description": {TypeText, func(m *models.LLMModel) interface{} {
		if m.Description == "" {
			return nil
		}
		return m.Description
	}},
	"model_type":     {TypeText, func(m *models.LLMModel) interface{} { return string(m.ModelType) }},
	"context_window": {TypeText, func(m *models.LLMModel) interface{} { return m.ContextWindow }},
	"context_limit": {TypeNumber, func(m *models.LLMModel) interface{} {
		if m.ContextLimit == nil {
			return nil
		}
		return float64(*m.ContextLimit)
	}},
	"input_price_per_1M_tokens":   {TypePrice, func(m *models.LLMModel) interface{} { return floatOrNil(m.InputPricePer1MTokens) }},
	"output_price_per_1M_tokens":  {TypePrice, func(m *models.LLMModel) interface{} { return floatOrNil(m.OutputPricePer1MTokens) }},
	"caching_price_per_1M_tokens": {TypePrice, func(m *models.LLMModel) interface{} { return floatOrNil(m.CachingPricePer1MTokens) }},
	"added_on": {TypeDate, func(m *models.LLMModel) interface{} {
		if m.AddedOn.IsZero() {
			return nil
		}
		return m.AddedOn
	}},
	"updated_on": {TypeDate, func(m *models.LLMModel) interface{} {
		if m.UpdatedOn.IsZero() {
			return nil
		}
		return m.UpdatedOn
	}},
}

func floatOrNil(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// IsSortable reports whether key is a known sortable field.
func IsSortable(key string) bool {
	_, ok := fields[key]
	return ok
}

// Sorter sorts record lists. Safe for concurrent use: the collator carries
// internal buffers, so text comparisons are serialized behind a mutex.
type Sorter struct {
	mu       sync.Mutex
	collator *collate.Collator
}

func NewSorter() *Sorter {
	// Loose collation approximates case-insensitive comparison; Numeric makes
	// "Model 2" sort before "Model 10".
	return &Sorter{collator: collate.New(language.English, collate.Loose, collate.Numeric)}
}

// compareAscending applies the per-field ascending rule. Null sorts ahead of
// every real value; descending negates this result wholesale.
func (s *Sorter) compareAscending(a, b *models.LLMModel, key string) int {
	spec, ok := fields[key]
	if !ok {
		return 0
	}
	av, bv := spec.value(a), spec.value(b)

	switch {
	case av == nil && bv == nil:
		return 0
	case av == nil:
		return -1
	case bv == nil:
		return 1
	}

	switch spec.fieldType {
	case TypePrice, TypeNumber:
		return compareFloat(coerceNumber(av), coerceNumber(bv))
	case TypeDate:
		at, bt := av.(time.Time), bv.(time.Time)
		switch {
		case at.Before(bt):
			return -1
		case at.After(bt):
			return 1
		default:
			return 0
		}
	default:
		s.mu.Lock()
		result := s.collator.CompareString(av.(string), bv.(string))
		s.mu.Unlock()
		return result
	}
}

// Compare applies the configured direction to the ascending rule.
func (s *Sorter) Compare(a, b *models.LLMModel, cfg Config) int {
	result := s.compareAscending(a, b, cfg.Key)
	if cfg.Direction == Descending {
		return -result
	}
	return result
}

// Sort returns a sorted copy of records. The sort is stable: ties keep their
// input order.
func (s *Sorter) Sort(records []models.LLMModel, cfg Config) []models.LLMModel {
	if cfg.Key == "" {
		return records
	}
	sorted := make([]models.LLMModel, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return s.Compare(&sorted[i], &sorted[j], cfg) < 0
	})
	return sorted
}

// MultiSort applies several sort axes in priority order, short-circuiting at
// the first non-zero comparison.
func (s *Sorter) MultiSort(records []models.LLMModel, configs []Config) []models.LLMModel {
	if len(configs) == 0 {
		return records
	}
	sorted := make([]models.LLMModel, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		for _, cfg := range configs {
			if r := s.Compare(&sorted[i], &sorted[j], cfg); r != 0 {
				return r < 0
			}
		}
		return false
	})
	return sorted
}

// coerceNumber accepts the float values produced by the field schema plus
// stray strings, which clean like prices and default to 0 when unparseable.
func coerceNumber(v interface{}) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	f, _ := format.CleanPriceValue(v)
	return f
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
