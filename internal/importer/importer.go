package importer

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/downlz/llmcostguide/internal/models"
	"github.com/downlz/llmcostguide/pkg/logger"
)

// State tracks an import attempt through its lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateParsing   State = "parsing"
	StateValidated State = "validated"
	StateImporting State = "importing"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Stats summarizes one processed file.
type Stats struct {
	TotalRows   int `json:"total_rows"`
	ValidRows   int `json:"valid_rows"`
	ErrorRows   int `json:"error_rows"`
	WarningRows int `json:"warning_rows"`
}

// Result is the outcome of a pipeline run. FileErrors are pre-parse gate
// violations; Errors and Warnings are per-row findings.
type Result struct {
	State      State             `json:"state"`
	Models     []models.LLMModel `json:"-"`
	FileErrors []string          `json:"file_errors,omitempty"`
	ParseError string            `json:"parse_error,omitempty"`
	Errors     []RowIssue        `json:"errors"`
	Warnings   []RowIssue        `json:"warnings"`
	Stats      Stats             `json:"stats"`
	ImportErr  string            `json:"import_error,omitempty"`
}

// ModelStore is the subset of the store the pipeline writes through: one
// batch upsert plus the append-only audit log.
type ModelStore interface {
	UpsertModels(ctx context.Context, records []models.LLMModel) error
	AppendSyncLog(ctx context.Context, entry models.SyncLog) error
}

// Pipeline runs the gate -> parse -> validate -> import sequence. Parsing and
// validation run to completion once started; only the final upsert touches
// the store, as a single all-or-nothing batch.
type Pipeline struct {
	store ModelStore
	now   func() time.Time
	newID func() string
}

func NewPipeline(store ModelStore) *Pipeline {
	return &Pipeline{
		store: store,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// Parse validates the file gate, reads the CSV and validates every row. The
// returned result is in StateValidated (possibly with row errors) or
// StateFailed when the file itself is unusable.
func (p *Pipeline) Parse(filename string, size int64, r io.Reader) *Result {
	result := &Result{State: StateParsing, Errors: []RowIssue{}, Warnings: []RowIssue{}}

	if fileErrs := ValidateFile(filename, size); len(fileErrs) > 0 {
		result.State = StateFailed
		result.FileErrors = fileErrs
		return result
	}

	rows, err := parseCSV(r)
	if err != nil {
		result.State = StateFailed
		result.ParseError = err.Error()
		return result
	}

	now := p.now()
	for i, row := range rows {
		record, errs, warnings := validateRow(row, i+1, now, p.newID)
		if len(errs) == 0 {
			result.Models = append(result.Models, record)
		}
		result.Errors = append(result.Errors, errs...)
		result.Warnings = append(result.Warnings, warnings...)
	}

	result.Stats = Stats{
		TotalRows:   len(rows),
		ValidRows:   len(result.Models),
		ErrorRows:   len(result.Errors),
		WarningRows: len(result.Warnings),
	}
	result.State = StateValidated
	return result
}

// Import upserts the validated records as one batch and appends an audit
// entry for the attempt. A store failure leaves zero records added.
func (p *Pipeline) Import(ctx context.Context, result *Result) *Result {
	result.State = StateImporting

	if len(result.Models) == 0 {
		result.State = StateFailed
		result.ImportErr = "No models to import"
		p.logSync(ctx, 0, models.SyncStatusFailed, result.ImportErr)
		return result
	}

	if err := p.store.UpsertModels(ctx, result.Models); err != nil {
		result.State = StateFailed
		result.ImportErr = err.Error()
		p.logSync(ctx, 0, models.SyncStatusFailed, err.Error())
		logger.Log.Error("CSV import failed",
			zap.Int("valid_rows", result.Stats.ValidRows),
			zap.Error(err))
		return result
	}

	result.State = StateCompleted
	p.logSync(ctx, len(result.Models), models.SyncStatusCompleted, "")
	logger.Log.Info("CSV import completed",
		zap.Int("records", len(result.Models)),
		zap.Int("error_rows", result.Stats.ErrorRows),
		zap.Int("warning_rows", result.Stats.WarningRows))
	return result
}

// Run executes the full pipeline for an uploaded file.
func (p *Pipeline) Run(ctx context.Context, filename string, size int64, r io.Reader) *Result {
	result := p.Parse(filename, size, r)
	if result.State == StateFailed {
		return result
	}
	return p.Import(ctx, result)
}

func (p *Pipeline) logSync(ctx context.Context, added int, status models.SyncStatus, errMsg string) {
	entry := models.SyncLog{
		ID:           p.newID(),
		Provider:     "manual",
		SyncType:     "csv_import",
		RecordsAdded: added,
		Status:       status,
		ErrorMessage: errMsg,
		CreatedAt:    p.now(),
	}
	if err := p.store.AppendSyncLog(ctx, entry); err != nil {
		logger.Log.Warn("failed to append sync log", zap.Error(err))
	}
}
