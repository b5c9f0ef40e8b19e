package statement

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/ysiton/shekelwise/internal/model"
)

// SkipReason classifies why a row was not turned into a transaction.
// Statement sheets end in summary and blank rows by construction, so a skip
// is a diagnostic, never an error.
type SkipReason string

const (
	// SkipMissingDate marks a row whose date cell is blank.
	SkipMissingDate SkipReason = "missing_date"
	// SkipInvalidDate marks a row whose date cell does not parse under the
	// issuer's date representation.
	SkipInvalidDate SkipReason = "invalid_date"
	// SkipMissingBusiness marks a row whose business cell is blank or
	// shorter than two characters.
	SkipMissingBusiness SkipReason = "missing_business"
	// SkipInvalidAmount marks a row whose amount cell is blank, not a
	// number, or non-positive after taking the absolute value.
	SkipInvalidAmount SkipReason = "invalid_amount"
)

// RowOutcome is the result of parsing one data row: either an accepted
// transaction draft or a skip with its reason.
type RowOutcome struct {
	Txn  *model.Transaction
	Skip SkipReason
}

// Accepted reports whether the row produced a transaction draft.
func (o RowOutcome) Accepted() bool {
	return o.Txn != nil
}

// parseRow validates and converts a single data row under the given layout.
// Field checks run in a fixed order (date, business, amount) and the first
// failure decides the skip reason.
func parseRow(row []string, layout Layout, iss model.Issuer) RowOutcome {
	date, err := cellDate(row, layout.DateCol, layout.DateLayouts)
	if err != nil {
		if errors.Is(err, errCellEmpty) {
			return RowOutcome{Skip: SkipMissingDate}
		}
		return RowOutcome{Skip: SkipInvalidDate}
	}

	business, err := cellText(row, layout.BusinessCol)
	if err != nil || utf8.RuneCountInString(business) < 2 {
		return RowOutcome{Skip: SkipMissingBusiness}
	}

	amount, err := cellFloat(row, layout.AmountCol)
	if err != nil {
		return RowOutcome{Skip: SkipInvalidAmount}
	}
	amount = math.Abs(amount)
	if amount == 0 {
		return RowOutcome{Skip: SkipInvalidAmount}
	}

	raw := make(map[string]string, len(row))
	for i, cell := range row {
		raw[fmt.Sprintf("col_%d", i)] = cell
	}

	return RowOutcome{Txn: &model.Transaction{
		Date:      date,
		Business:  business,
		Amount:    amount,
		Issuer:    iss,
		RawFields: raw,
	}}
}
