package learning

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ysiton/shekelwise/internal/model"
	"github.com/ysiton/shekelwise/internal/normalize"
	"github.com/ysiton/shekelwise/internal/service"
)

// maxSimilarResults bounds how many fuzzy matches a lookup returns.
const maxSimilarResults = 10

// DefaultSimilarityThreshold is the minimum ratio for two business names to
// count as variants of the same merchant.
const DefaultSimilarityThreshold = 0.8

// Propagator spreads a category assignment from one business to its
// near-duplicate spellings in the known-business set.
type Propagator struct {
	store service.Storage
}

// NewPropagator creates a propagator over the given store.
func NewPropagator(store service.Storage) *Propagator {
	return &Propagator{store: store}
}

// FindSimilar returns the known businesses whose names score at or above
// the threshold against the target, best first, capped at ten. The target's
// exact spelling is excluded so a lookup never reports itself.
func (p *Propagator) FindSimilar(ctx context.Context, business string, threshold float64) ([]model.SimilarBusiness, error) {
	known, err := p.store.KnownBusinesses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load known businesses: %w", err)
	}

	target := normalize.BusinessName(business)

	var matches []model.SimilarBusiness
	for i := range known {
		candidate := strings.ToLower(known[i].NormalizedName)
		if candidate == target {
			continue
		}
		similarity := normalize.Ratio(target, candidate)
		if similarity >= threshold {
			matches = append(matches, model.SimilarBusiness{
				Name:       known[i].NormalizedName,
				CategoryID: known[i].CategoryID,
				Similarity: similarity,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > maxSimilarResults {
		matches = matches[:maxSimilarResults]
	}
	return matches, nil
}

// Propagate assigns categoryID to every business similar to the given one,
// rewriting both the known-business mapping and the historical transactions
// carrying that name. A failure on one match is logged and skipped; the
// remaining matches still propagate. Returns the number of businesses
// updated.
func (p *Propagator) Propagate(ctx context.Context, business string, categoryID int64, threshold float64) (int, error) {
	matches, err := p.FindSimilar(ctx, business, threshold)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, match := range matches {
		if err := p.store.SaveKnownBusiness(ctx, &model.KnownBusiness{
			Name:           match.Name,
			NormalizedName: match.Name,
			CategoryID:     categoryID,
			Source:         model.SourceManual,
		}); err != nil {
			slog.Warn("failed to propagate category to business",
				"business", match.Name, "error", err)
			continue
		}
		if _, err := p.store.UpdateCategoryByBusiness(ctx, match.Name, categoryID); err != nil {
			slog.Warn("failed to recategorize transactions for business",
				"business", match.Name, "error", err)
			continue
		}
		updated++
	}

	if updated > 0 {
		slog.Info("propagated category to similar businesses",
			"source", business, "updated", updated)
	}
	return updated, nil
}
