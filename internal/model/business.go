package model

import "time"

// BusinessSource indicates how a known-business mapping was created.
type BusinessSource string

const (
	// SourceAuto indicates the mapping came from an automatic rule match.
	SourceAuto BusinessSource = "AUTO"
	// SourceManual indicates the mapping was approved by the user.
	SourceManual BusinessSource = "MANUAL"
)

// KnownBusiness maps a normalized business name to its learned category.
// One entry exists per distinct normalized name; entries are overwritten,
// never deleted. An exact lookup is always treated as high confidence
// regardless of how the mapping was established.
type KnownBusiness struct {
	CreatedAt      time.Time
	Name           string // Original merchant string at first sighting
	NormalizedName string
	Source         BusinessSource
	CategoryID     int64
}

// SimilarBusiness is a fuzzy match against the known-business set.
type SimilarBusiness struct {
	Name       string
	CategoryID int64
	Similarity float64
}

// Suggestion proposes recategorizing a low-confidence transaction.
type Suggestion struct {
	Business          string
	CurrentCategory   string
	SuggestedCategory string
	TransactionID     int64
	Amount            float64
	Confidence        float64
}
