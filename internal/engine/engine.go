// Package engine orchestrates statement ingestion: file discovery,
// duplicate detection, parsing, categorization, and persistence.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/ysiton/shekelwise/internal/categorize"
	"github.com/ysiton/shekelwise/internal/common"
	"github.com/ysiton/shekelwise/internal/model"
	"github.com/ysiton/shekelwise/internal/service"
	"github.com/ysiton/shekelwise/internal/statement"
)

// Engine runs statement files through the ingestion flow.
type Engine struct {
	store    service.Storage
	parser   *statement.Parser
	pipeline *categorize.Pipeline
	config   Config
}

// Config holds configuration options for the ingestion engine.
type Config struct {
	// ShowProgress renders a terminal progress bar during batch runs.
	ShowProgress bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{ShowProgress: true}
}

// New creates an ingestion engine with the default configuration.
func New(store service.Storage, parser *statement.Parser, pipeline *categorize.Pipeline) *Engine {
	return NewWithConfig(store, parser, pipeline, DefaultConfig())
}

// NewWithConfig creates an ingestion engine with custom configuration.
func NewWithConfig(store service.Storage, parser *statement.Parser, pipeline *categorize.Pipeline, config Config) *Engine {
	return &Engine{
		store:    store,
		parser:   parser,
		pipeline: pipeline,
		config:   config,
	}
}

// DiscoverStatements lists the statement spreadsheets in a directory,
// sorted by name. Office lock files ("~$...") are ignored. An existing
// directory with no statements is reported as common.ErrNoStatements.
func DiscoverStatements(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read statement directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ".xlsx") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", common.ErrNoStatements, dir)
	}

	sort.Strings(paths)
	return paths, nil
}

// ProcessFiles ingests each file in order. A failing file is recorded in
// its report and the batch continues; the batch itself fails only on
// context cancellation.
func (e *Engine) ProcessFiles(ctx context.Context, paths []string) (*service.RunSummary, error) {
	summary := &service.RunSummary{TotalFiles: len(paths)}

	var bar *progressbar.ProgressBar
	if e.config.ShowProgress {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetDescription("ingesting statements"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		report := e.ProcessFile(ctx, path)
		summary.Files = append(summary.Files, report)
		switch {
		case report.Error != nil:
			common.LogError(report.Error, "statement ingestion failed",
				common.Fields{"file": report.Filename})
		case !report.AlreadyProcessed:
			summary.SucceededFiles++
			summary.TotalTransactions += report.Saved
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	slog.Info("batch run complete",
		"files", summary.TotalFiles,
		"succeeded", summary.SucceededFiles,
		"transactions", summary.TotalTransactions)
	return summary, nil
}

// ProcessFile ingests a single statement file. The file is fingerprinted
// before parsing so an already-ingested file is skipped without opening it,
// and it is marked processed only after its transactions are persisted: a
// parse or insert failure leaves the ledger untouched so a retry can
// succeed.
func (e *Engine) ProcessFile(ctx context.Context, path string) service.FileReport {
	filename := filepath.Base(path)
	report := service.FileReport{Filename: filename}
	started := time.Now()

	fingerprint, err := statement.Fingerprint(path)
	if err != nil {
		report.Error = common.NewUserError(
			fmt.Sprintf("cannot read statement file %s", filename),
			fmt.Errorf("%w: %s", common.ErrFileUnreadable, err))
		return report
	}

	processed, err := e.store.IsFileProcessed(ctx, fingerprint)
	if err != nil {
		report.Error = fmt.Errorf("failed to check processing ledger: %w", err)
		return report
	}
	if processed {
		slog.Info("skipping already processed file", "file", filename)
		report.AlreadyProcessed = true
		return report
	}

	result, err := e.parser.ParseFile(ctx, path)
	if err != nil {
		report.Error = err
		return report
	}
	report.Skipped = result.SkippedTotal()

	for i := range result.Transactions {
		result.Transactions[i].FileHash = fingerprint
	}
	result.Transactions = e.pipeline.Apply(ctx, result.Transactions)

	saved, err := e.store.InsertTransactions(ctx, result.Transactions)
	if err != nil {
		report.Error = fmt.Errorf("failed to save transactions from %s: %w", filename, err)
		return report
	}
	report.Saved = saved

	err = e.store.MarkFileProcessed(ctx, &model.ProcessedFile{
		Filename:         filename,
		Fingerprint:      fingerprint,
		Issuer:           result.Issuer,
		TransactionCount: saved,
		ProcessingTime:   time.Since(started),
		ProcessedAt:      time.Now(),
	})
	if errors.Is(err, common.ErrDuplicateEntry) {
		// Another run recorded the file between our check and now.
		slog.Warn("file marked processed concurrently", "file", filename)
		report.AlreadyProcessed = true
		return report
	}
	if err != nil {
		report.Error = fmt.Errorf("failed to record processed file %s: %w", filename, err)
		return report
	}

	return report
}
