package statement

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Sheet is the untyped cell grid of a statement file: rows of textual cell
// values exactly as the spreadsheet library renders them. Rows may be ragged;
// a missing trailing cell and an empty cell are treated the same.
type Sheet [][]string

// Cell read errors. Spreadsheet authors mix blanks, text, numbers and dates
// freely, so every cell access goes through a typed accessor and callers
// handle each failure explicitly.
var (
	errCellEmpty   = errors.New("cell is empty")
	errCellNotNum  = errors.New("cell is not numeric")
	errCellNotDate = errors.New("cell is not a date")
)

// cellText returns the trimmed text of a cell, or errCellEmpty when the cell
// is blank or the row is too short.
func cellText(row []string, col int) (string, error) {
	if col >= len(row) {
		return "", errCellEmpty
	}
	text := strings.TrimSpace(row[col])
	if text == "" {
		return "", errCellEmpty
	}
	return text, nil
}

// cellFloat parses a cell as a real number, tolerating thousands separators
// and a currency mark.
func cellFloat(row []string, col int) (float64, error) {
	text, err := cellText(row, col)
	if err != nil {
		return 0, err
	}

	cleaned := strings.NewReplacer(",", "", "₪", "", " ", "").Replace(text)
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, errCellNotNum
	}
	return value, nil
}

// cellDate parses a cell under the given layouts, falling back to a
// spreadsheet serial number for date-styled cells rendered as raw values.
func cellDate(row []string, col int, layouts []string) (time.Time, error) {
	text, err := cellText(row, col)
	if err != nil {
		return time.Time{}, err
	}

	for _, layout := range layouts {
		if date, parseErr := time.Parse(layout, text); parseErr == nil {
			return date, nil
		}
	}

	// Serials below 10000 land in the 1920s; real statements never do, so a
	// small number here is an amount or counter, not a date.
	if serial, parseErr := strconv.ParseFloat(text, 64); parseErr == nil && serial >= 10000 {
		return serialToDate(serial), nil
	}

	return time.Time{}, errCellNotDate
}

// serialToDate converts an Excel date serial to a calendar date. Excel
// counts days from the December 30, 1899 epoch.
func serialToDate(serial float64) time.Time {
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	return epoch.Add(time.Duration(serial * 24 * float64(time.Hour)))
}

// nonEmptyCells counts the cells in a row with any content after trimming.
func nonEmptyCells(row []string) int {
	count := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			count++
		}
	}
	return count
}
