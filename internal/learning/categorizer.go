// Package learning derives per-category signatures from historical
// transactions and uses them to propose categories for unseen businesses.
// Signatures are process-local derived state: rebuilt wholesale on every
// learning pass, never persisted.
package learning

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/ysiton/shekelwise/internal/categorize"
	"github.com/ysiton/shekelwise/internal/model"
	"github.com/ysiton/shekelwise/internal/normalize"
	"github.com/ysiton/shekelwise/internal/service"
)

const (
	// minKeywordCount is the occurrence floor for a token to enter a
	// category's keyword signature.
	minKeywordCount = 2
	// keywordWeight scales a keyword's frequency into the suggestion score.
	keywordWeight = 0.1
	// amountBonus is added when the amount sits near the category average.
	amountBonus = 0.2
	// maxConfidence caps suggestion confidence below the known-business level.
	maxConfidence = 0.95
	// fallbackConfidence is returned with the default category when no
	// signature overlaps the input.
	fallbackConfidence = 0.30
)

// AmountSignature summarizes the amounts seen for one category.
type AmountSignature struct {
	Avg   float64
	Min   float64
	Max   float64
	Count int
}

// Config tunes the learning engine.
type Config struct {
	// ConfidenceThreshold gates improvement suggestions: a proposal below it
	// is not worth surfacing.
	ConfidenceThreshold float64
	// ReviewCutoff selects which persisted transactions count as
	// low-confidence when collecting improvement suggestions.
	ReviewCutoff float64
}

// DefaultConfig returns the default learning configuration.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.6,
		ReviewCutoff:        0.7,
	}
}

// Categorizer builds keyword and amount signatures per category and scores
// new businesses against them.
type Categorizer struct {
	store    service.Storage
	catalog  *categorize.Catalog
	keywords map[string]map[string]int
	amounts  map[string]AmountSignature
	config   Config
	mu       sync.RWMutex
}

// NewCategorizer creates a learning categorizer over the given catalog.
func NewCategorizer(store service.Storage, catalog *categorize.Catalog, config Config) *Categorizer {
	return &Categorizer{
		store:    store,
		catalog:  catalog,
		keywords: make(map[string]map[string]int),
		amounts:  make(map[string]AmountSignature),
		config:   config,
	}
}

// Learn rebuilds both signatures from the full historical transaction set.
// The rebuild replaces the previous signatures wholesale, so the same
// historical input always produces the same signature. Returns the number of
// transactions processed.
func (c *Categorizer) Learn(ctx context.Context) (int, error) {
	transactions, err := c.store.Transactions(ctx, service.TransactionFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to load historical transactions: %w", err)
	}

	tokenCounts := make(map[string]map[string]int)
	amountSums := make(map[string]*AmountSignature)

	for i := range transactions {
		t := &transactions[i]
		category := c.catalog.CategoryName(t.CategoryID)
		if category == "" {
			continue
		}

		counts, ok := tokenCounts[category]
		if !ok {
			counts = make(map[string]int)
			tokenCounts[category] = counts
		}
		for _, token := range normalize.Tokens(t.Business) {
			counts[token]++
		}

		sig, ok := amountSums[category]
		if !ok {
			sig = &AmountSignature{Min: t.Amount, Max: t.Amount}
			amountSums[category] = sig
		}
		sig.Avg += t.Amount // running sum until the final divide
		sig.Min = math.Min(sig.Min, t.Amount)
		sig.Max = math.Max(sig.Max, t.Amount)
		sig.Count++
	}

	keywords := make(map[string]map[string]int, len(tokenCounts))
	for category, counts := range tokenCounts {
		common := make(map[string]int)
		for token, count := range counts {
			if count >= minKeywordCount {
				common[token] = count
			}
		}
		if len(common) > 0 {
			keywords[category] = common
		}
	}

	amounts := make(map[string]AmountSignature, len(amountSums))
	for category, sig := range amountSums {
		sig.Avg /= float64(sig.Count)
		amounts[category] = *sig
	}

	c.mu.Lock()
	c.keywords = keywords
	c.amounts = amounts
	c.mu.Unlock()

	slog.Info("learning pass complete",
		"transactions", len(transactions),
		"categories_learned", len(keywords))
	return len(transactions), nil
}

// Suggest proposes a category for a business and amount. Scoring sums
// keyword frequencies for every signature keyword present in the name, plus
// a flat bonus when the amount lands within half of the category's average.
// Equal top scores break lexicographically by category name so the result
// does not depend on map iteration order.
func (c *Categorizer) Suggest(business string, amount float64) (string, float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	lower := strings.ToLower(business)
	scores := make(map[string]float64, len(c.keywords))

	for category, keywords := range c.keywords {
		score := 0.0
		for keyword, frequency := range keywords {
			if strings.Contains(lower, keyword) {
				score += float64(frequency) * keywordWeight
			}
		}
		scores[category] = score
	}

	for category, sig := range c.amounts {
		if _, ok := scores[category]; !ok || sig.Avg == 0 {
			continue
		}
		if math.Abs(amount-sig.Avg)/sig.Avg < 0.5 {
			scores[category] += amountBonus
		}
	}

	best := ""
	bestScore := 0.0
	categories := make([]string, 0, len(scores))
	for category := range scores {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		if scores[category] > bestScore {
			best = category
			bestScore = scores[category]
		}
	}

	if best == "" || bestScore == 0 {
		return model.DefaultCategoryName, fallbackConfidence
	}
	return best, math.Min(bestScore, maxConfidence)
}

// RetrainOnCorrection shifts the corrected business's tokens from the old
// category's signature to the new one. This is the single incremental
// update path; amount signatures are untouched until the next full Learn.
func (c *Categorizer) RetrainOnCorrection(business, oldCategory, newCategory string) {
	tokens := normalize.Tokens(business)
	if len(tokens) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	target, ok := c.keywords[newCategory]
	if !ok {
		target = make(map[string]int)
		c.keywords[newCategory] = target
	}
	for _, token := range tokens {
		target[token]++
	}

	if source, ok := c.keywords[oldCategory]; ok {
		for _, token := range tokens {
			if source[token] > 0 {
				source[token]--
			}
		}
	}

	slog.Debug("retrained on correction",
		"business", business,
		"from", oldCategory,
		"to", newCategory,
		"tokens", len(tokens))
}

// KeywordCount returns the total number of signature keywords, for stats.
func (c *Categorizer) KeywordCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := 0
	for _, keywords := range c.keywords {
		total += len(keywords)
	}
	return total
}

// CategoriesLearned returns how many categories have a keyword signature.
func (c *Categorizer) CategoriesLearned() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keywords)
}

// ImprovementSuggestions re-scores persisted low-confidence transactions and
// proposes recategorizations that differ from the current assignment with
// enough confidence. A storage failure degrades to an empty list with the
// error surfaced; ingestion never depends on this path.
func (c *Categorizer) ImprovementSuggestions(ctx context.Context, limit int) ([]model.Suggestion, error) {
	cutoff := c.config.ReviewCutoff
	transactions, err := c.store.Transactions(ctx, service.TransactionFilter{
		MaxConfidence: &cutoff,
		Limit:         limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load low-confidence transactions: %w", err)
	}

	var suggestions []model.Suggestion
	for i := range transactions {
		t := &transactions[i]
		current := c.catalog.CategoryName(t.CategoryID)

		suggested, confidence := c.Suggest(t.Business, t.Amount)
		if suggested == current || confidence <= c.config.ConfidenceThreshold {
			continue
		}

		suggestions = append(suggestions, model.Suggestion{
			TransactionID:     t.ID,
			Business:          t.Business,
			Amount:            t.Amount,
			CurrentCategory:   current,
			SuggestedCategory: suggested,
			Confidence:        confidence,
		})
	}

	return suggestions, nil
}
