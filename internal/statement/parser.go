// Package statement turns raw credit-card statement spreadsheets into
// validated transaction drafts. Each issuer family lays out its sheets
// differently; the per-issuer Layout describes where the data lives and the
// parser applies the matching extraction strategy.
package statement

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ysiton/shekelwise/internal/issuer"
	"github.com/ysiton/shekelwise/internal/model"
)

// Parser extracts transaction drafts from statement files.
type Parser struct{}

// NewParser creates a statement parser.
func NewParser() *Parser {
	return &Parser{}
}

// Result holds the outcome of parsing one statement file.
type Result struct {
	Skipped      map[SkipReason]int
	CardLastFour string
	Transactions []model.Transaction
	Issuer       model.Issuer
}

// ParseFile reads a statement spreadsheet and returns the transaction drafts
// it contains. The issuer and card digits come from the filename. A file
// that cannot be opened or read is a reportable failure; an empty or
// data-free sheet is not.
func (p *Parser) ParseFile(_ context.Context, path string) (*Result, error) {
	base := filepath.Base(path)
	iss := issuer.Detect(base)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement %s: %w", base, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Result{Issuer: iss, Skipped: map[SkipReason]int{}}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet of %s: %w", base, err)
	}

	result := p.ParseSheet(rows, iss)

	result.CardLastFour = issuer.CardLastFour(base)
	for i := range result.Transactions {
		result.Transactions[i].CardLastFour = result.CardLastFour
	}

	slog.Info("parsed statement",
		"file", base,
		"issuer", iss,
		"transactions", len(result.Transactions),
		"skipped", result.SkippedTotal())

	return result, nil
}

// ParseSheet extracts transaction drafts from an in-memory cell grid using
// the issuer's layout. It never fails: malformed rows are counted and
// skipped, and a sheet without parsable data yields an empty result.
func (p *Parser) ParseSheet(sheet Sheet, iss model.Issuer) *Result {
	layout := LayoutFor(iss)
	result := &Result{Issuer: iss, Skipped: make(map[SkipReason]int)}

	switch layout.Kind {
	case LayoutSegmented:
		for _, headerRow := range layout.HeaderRows {
			p.parseBlock(sheet, headerRow, layout, iss, result)
		}
	case LayoutSingleBlock:
		p.parseToEnd(sheet, layout.HeaderRows[0], layout, iss, result)
	}

	return result
}

// parseBlock consumes one segmented data block. The block starts right after
// its fixed header row and ends at the first mostly-blank row or at a row
// that looks like another header.
func (p *Parser) parseBlock(sheet Sheet, headerRow int, layout Layout, iss model.Issuer, result *Result) {
	if headerRow >= len(sheet) {
		return
	}

	for rowIdx := headerRow + 1; rowIdx < len(sheet); rowIdx++ {
		row := sheet[rowIdx]

		if nonEmptyCells(row) < 3 {
			break
		}
		if isHeaderRow(row) {
			break
		}

		p.collect(parseRow(row, layout, iss), result)
	}
}

// parseToEnd consumes a single-block sheet from the row after the header to
// the end of the sheet. Trailing summary rows fail row validation and are
// skipped like any other malformed row.
func (p *Parser) parseToEnd(sheet Sheet, headerRow int, layout Layout, iss model.Issuer, result *Result) {
	if headerRow >= len(sheet) {
		return
	}

	for rowIdx := headerRow + 1; rowIdx < len(sheet); rowIdx++ {
		p.collect(parseRow(sheet[rowIdx], layout, iss), result)
	}
}

func (p *Parser) collect(outcome RowOutcome, result *Result) {
	if outcome.Accepted() {
		result.Transactions = append(result.Transactions, *outcome.Txn)
		return
	}
	result.Skipped[outcome.Skip]++
}

// SkippedTotal returns the number of rows dropped across all skip reasons.
func (r *Result) SkippedTotal() int {
	total := 0
	for _, count := range r.Skipped {
		total += count
	}
	return total
}

// headerKeywords flag a row as a column-caption row rather than data. The
// issuers caption their columns in Hebrew.
var headerKeywords = []string{"תאריך", "שם", "עסק", "סכום", "חיוב"}

// isHeaderRow reports whether at least three cells carry a header keyword,
// in any column.
func isHeaderRow(row []string) bool {
	score := 0
	for _, cell := range row {
		lower := strings.ToLower(strings.TrimSpace(cell))
		for _, keyword := range headerKeywords {
			if strings.Contains(lower, keyword) {
				score++
				break
			}
		}
	}
	return score >= 3
}
