package engine_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ysiton/shekelwise/internal/categorize"
	"github.com/ysiton/shekelwise/internal/common"
	"github.com/ysiton/shekelwise/internal/engine"
	"github.com/ysiton/shekelwise/internal/model"
	"github.com/ysiton/shekelwise/internal/service"
	"github.com/ysiton/shekelwise/internal/statement"
	"github.com/ysiton/shekelwise/internal/storage"
	"github.com/ysiton/shekelwise/internal/testutil"
)

func newEngine(t *testing.T) (*engine.Engine, *storage.SQLiteStorage) {
	t.Helper()

	store := testutil.SetupTestDB(t)
	catalog, err := categorize.LoadCatalog(context.Background(), store, model.DefaultCategoryName)
	require.NoError(t, err)

	pipeline := categorize.NewPipeline(store, catalog, categorize.NewRuleCategorizer(categorize.DefaultRules))
	e := engine.NewWithConfig(store, statement.NewParser(), pipeline, engine.Config{ShowProgress: false})
	return e, store
}

// writeStatement builds an xlsx fixture with the given rows in the first
// sheet, one value per cell starting at column A.
func writeStatement(t *testing.T, path string, rows [][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

// singleBlockRows lays out a Visa-style sheet: two title rows, a caption
// row, then data rows with date, business and amount columns.
func singleBlockRows(data [][]any) [][]any {
	rows := [][]any{
		{"פירוט עסקאות לחשבון"},
		{},
		{"תאריך עסקה", "שם בית עסק", "ענף", "סכום חיוב"},
	}
	return append(rows, data...)
}

func TestProcessFilePersistsTransactions(t *testing.T) {
	e, store := newEngine(t)
	path := filepath.Join(t.TempDir(), "visa_1234_05_2025.xlsx")
	writeStatement(t, path, singleBlockRows([][]any{
		{"15/05/2025", "שופרסל דיל", "מזון", 85.5},
		{"16/05/2025", "סופר פארם", "פארם", 120.0},
	}))

	report := e.ProcessFile(context.Background(), path)
	require.NoError(t, report.Error)
	assert.Equal(t, 2, report.Saved)
	assert.Zero(t, report.Skipped)
	assert.False(t, report.AlreadyProcessed)

	saved, err := store.Transactions(context.Background(), service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	for _, txn := range saved {
		assert.Equal(t, "1234", txn.CardLastFour)
		assert.Equal(t, model.IssuerVisa, txn.Issuer)
		assert.NotEmpty(t, txn.FileHash)
		assert.NotZero(t, txn.CategoryID)
	}
}

// segmentedRows lays out an Isracard-style sheet: two data blocks with
// caption rows at fixed offsets 9 and 26, each terminated by a blank row.
func segmentedRows(firstBlock, secondBlock [][]any) [][]any {
	caption := []any{"תאריך רכישה", "שם בית עסק", "סכום עסקה", "מטבע", "סכום חיוב"}

	rows := make([][]any, 0, 32)
	for i := 0; i < 8; i++ {
		rows = append(rows, []any{""})
	}
	rows = append(rows, caption)
	rows = append(rows, firstBlock...)
	for len(rows) < 25 {
		rows = append(rows, []any{""})
	}
	rows = append(rows, caption)
	rows = append(rows, secondBlock...)
	return rows
}

func TestProcessFileSegmentedLayout(t *testing.T) {
	e, store := newEngine(t)
	path := filepath.Join(t.TempDir(), "isracard_1234_05_2025.xlsx")
	writeStatement(t, path, segmentedRows(
		[][]any{
			{"01.05.25", "Test Cafe", "25.00", "₪", -25.0},
			{},
		},
		[][]any{
			{"02.05.25", "שופרסל דיל", "90.00", "₪", 90.0},
			{},
		},
	))

	report := e.ProcessFile(context.Background(), path)
	require.NoError(t, report.Error)
	assert.Equal(t, 2, report.Saved)

	saved, err := store.Transactions(context.Background(), service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, saved, 2)

	// Newest first, so the cafe row from the first block comes last.
	cafe := saved[1]
	assert.Equal(t, "Test Cafe", cafe.Business)
	assert.Equal(t, "test cafe", cafe.NormalizedBusiness)
	assert.Equal(t, 25.0, cafe.Amount)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), cafe.Date)
	assert.Equal(t, "1234", cafe.CardLastFour)
	assert.Equal(t, model.IssuerIsracard, cafe.Issuer)
}

func TestProcessFileIsIdempotent(t *testing.T) {
	e, store := newEngine(t)
	path := filepath.Join(t.TempDir(), "visa_1234_05_2025.xlsx")
	writeStatement(t, path, singleBlockRows([][]any{
		{"15/05/2025", "שופרסל דיל", "מזון", 85.5},
	}))

	first := e.ProcessFile(context.Background(), path)
	require.NoError(t, first.Error)
	require.Equal(t, 1, first.Saved)

	second := e.ProcessFile(context.Background(), path)
	require.NoError(t, second.Error)
	assert.True(t, second.AlreadyProcessed)
	assert.Zero(t, second.Saved)

	saved, err := store.Transactions(context.Background(), service.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestProcessFileUnreadable(t *testing.T) {
	e, store := newEngine(t)

	report := e.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, report.Error)
	assert.ErrorIs(t, report.Error, common.ErrFileUnreadable)

	// The failure carries a message fit for direct display.
	var uerr *common.UserError
	require.ErrorAs(t, report.Error, &uerr)
	assert.Contains(t, uerr.UserMessage, "missing.xlsx")

	// A failed file must stay retryable: nothing recorded.
	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.ProcessedFiles)
	assert.Zero(t, stats.TotalTransactions)
}

func TestProcessFileCountsSkippedRows(t *testing.T) {
	e, _ := newEngine(t)
	path := filepath.Join(t.TempDir(), "cal_5678_06_2025.xlsx")
	writeStatement(t, path, singleBlockRows([][]any{
		{"15/05/2025", "שופרסל דיל", "מזון", 85.5},
		{"not a date", "מוסך הרצל", "", 300.0},
		{"16/05/2025", "סופר פארם", "", 0.0},
	}))

	report := e.ProcessFile(context.Background(), path)
	require.NoError(t, report.Error)
	assert.Equal(t, 1, report.Saved)
	assert.Equal(t, 2, report.Skipped)
}

func TestProcessFilesContinuesPastFailures(t *testing.T) {
	e, _ := newEngine(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "visa_1234_05_2025.xlsx")
	writeStatement(t, good, singleBlockRows([][]any{
		{"15/05/2025", "שופרסל דיל", "מזון", 85.5},
	}))
	missing := filepath.Join(dir, "cal_0000_01_2025.xlsx")

	summary, err := e.ProcessFiles(context.Background(), []string{missing, good})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalFiles)
	assert.Equal(t, 1, summary.SucceededFiles)
	assert.Equal(t, 1, summary.TotalTransactions)
	require.Len(t, summary.Files, 2)
	assert.Error(t, summary.Files[0].Error)
	assert.NoError(t, summary.Files[1].Error)
}

func TestProcessFilesStopsOnCancel(t *testing.T) {
	e, _ := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := e.ProcessFiles(ctx, []string{"a.xlsx", "b.xlsx"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, summary.Files)
}

func TestDiscoverStatements(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, filepath.Join(dir, "visa_1234_05_2025.xlsx"), singleBlockRows(nil))
	writeStatement(t, filepath.Join(dir, "cal_5678_05_2025.xlsx"), singleBlockRows(nil))
	writeStatement(t, filepath.Join(dir, "~$visa_1234_05_2025.xlsx"), singleBlockRows(nil))

	paths, err := engine.DiscoverStatements(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "cal_5678_05_2025.xlsx"), paths[0])
	assert.Equal(t, filepath.Join(dir, "visa_1234_05_2025.xlsx"), paths[1])
}

func TestDiscoverStatementsEmptyDir(t *testing.T) {
	_, err := engine.DiscoverStatements(t.TempDir())
	assert.ErrorIs(t, err, common.ErrNoStatements)
}
