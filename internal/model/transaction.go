package model

import "time"

// Issuer identifies the card company whose statement layout a file follows.
type Issuer string

const (
	// IssuerIsracard uses the segmented two-block sheet layout.
	IssuerIsracard Issuer = "isracard"
	// IssuerDiners uses the single-block sheet layout.
	IssuerDiners Issuer = "diners"
	// IssuerCal uses the single-block sheet layout.
	IssuerCal Issuer = "cal"
	// IssuerVisa uses the single-block sheet layout.
	IssuerVisa Issuer = "visa"
	// IssuerMastercard uses the single-block sheet layout.
	IssuerMastercard Issuer = "mastercard"
	// IssuerAmex uses the single-block sheet layout.
	IssuerAmex Issuer = "amex"
	// IssuerUnknown is returned when no alias matches the filename.
	IssuerUnknown Issuer = "unknown"
)

// Transaction represents a single statement row, from parsed draft through
// persisted record. Drafts carry no ID or category; the categorization
// pipeline fills those in before the record is inserted.
type Transaction struct {
	Date               time.Time
	RawFields          map[string]string
	Business           string // Raw merchant string from the statement
	NormalizedBusiness string // Derived via normalize.BusinessName, never empty
	Currency           string
	CardLastFour       string
	FileHash           string
	Issuer             Issuer
	ID                 int64
	CategoryID         int64
	Amount             float64 // Absolute value; the statement's sign is discarded
	Confidence         float64
	NeedsReview        bool
}

// Valid reports whether a parsed draft is complete enough to persist.
// Partial rows (missing date, short business name, non-positive amount)
// must never reach the categorization stage.
func (t *Transaction) Valid() bool {
	return !t.Date.IsZero() && len(t.Business) >= 2 && t.Amount > 0
}

// ProcessedFile records a statement file that was fully ingested.
type ProcessedFile struct {
	ProcessedAt      time.Time
	Filename         string
	Fingerprint      string
	Issuer           Issuer
	TransactionCount int
	ProcessingTime   time.Duration
}
