// Package categorize assigns spending categories to parsed transactions:
// exact known-business lookups first, then the ordered keyword rule table,
// then the default category.
package categorize

import (
	"context"
	"log/slog"

	"github.com/ysiton/shekelwise/internal/model"
	"github.com/ysiton/shekelwise/internal/normalize"
	"github.com/ysiton/shekelwise/internal/service"
)

// KnownConfidence is assigned to exact known-business matches regardless of
// how the mapping was originally established.
const KnownConfidence = 0.95

// ReviewThreshold flags transactions for manual review when the final
// confidence falls below it.
const ReviewThreshold = 0.50

// Decision is the outcome of categorizing one business name.
type Decision struct {
	CategoryID  int64
	Confidence  float64
	Known       bool
	NeedsReview bool
}

// Pipeline runs the full categorization flow against the catalog caches and
// registers newly seen businesses as it goes.
type Pipeline struct {
	store   service.Storage
	catalog *Catalog
	rules   *RuleCategorizer
}

// NewPipeline creates a categorization pipeline.
func NewPipeline(store service.Storage, catalog *Catalog, rules *RuleCategorizer) *Pipeline {
	return &Pipeline{store: store, catalog: catalog, rules: rules}
}

// Catalog exposes the pipeline's caches to collaborating components.
func (p *Pipeline) Catalog() *Catalog {
	return p.catalog
}

// Categorize decides a category for a raw business name. An exact
// known-business hit bypasses the rules entirely; otherwise the first
// matching rule wins and the business is recorded as now known.
func (p *Pipeline) Categorize(ctx context.Context, businessName string) Decision {
	normalized := normalize.BusinessName(businessName)

	if categoryID, ok := p.catalog.Known(normalized); ok {
		return Decision{CategoryID: categoryID, Confidence: KnownConfidence, Known: true}
	}

	categoryName, confidence := p.rules.Categorize(businessName)
	if categoryID, ok := p.catalog.CategoryID(categoryName); ok {
		p.registerBusiness(ctx, businessName, normalized, categoryID)
		return Decision{
			CategoryID:  categoryID,
			Confidence:  confidence,
			NeedsReview: confidence < ReviewThreshold,
		}
	}

	return Decision{
		CategoryID:  p.catalog.DefaultID(),
		Confidence:  DefaultConfidence,
		NeedsReview: true,
	}
}

// Apply categorizes a batch of transaction drafts in place, filling the
// normalized name, category, confidence and review flag, and returns the
// drafts that survived. Drafts without a date, a business name or a
// positive amount are dropped; partial rows never reach persistence.
func (p *Pipeline) Apply(ctx context.Context, transactions []model.Transaction) []model.Transaction {
	valid := transactions[:0]
	for i := range transactions {
		t := &transactions[i]
		if !t.Valid() {
			slog.Warn("dropping incomplete transaction",
				"business", t.Business,
				"date", t.Date,
				"amount", t.Amount)
			continue
		}

		t.NormalizedBusiness = normalize.BusinessName(t.Business)
		if t.Currency == "" {
			t.Currency = "ILS"
		}

		decision := p.Categorize(ctx, t.Business)
		t.CategoryID = decision.CategoryID
		t.Confidence = decision.Confidence
		t.NeedsReview = decision.NeedsReview
		valid = append(valid, *t)
	}
	return valid
}

// registerBusiness records a first-time automatic categorization. A failure
// here must not block ingestion; the mapping will be relearned next time.
func (p *Pipeline) registerBusiness(ctx context.Context, businessName, normalized string, categoryID int64) {
	business := &model.KnownBusiness{
		Name:           businessName,
		NormalizedName: normalized,
		CategoryID:     categoryID,
		Source:         model.SourceAuto,
	}
	if err := p.store.SaveKnownBusiness(ctx, business); err != nil {
		slog.Warn("failed to register business", "business", normalized, "error", err)
		return
	}
	p.catalog.Remember(normalized, categoryID)
}

// Approve records a user-confirmed category for a business and bulk-updates
// every historical transaction carrying the same normalized name. Returns
// the number of historical rows updated.
func (p *Pipeline) Approve(ctx context.Context, businessName string, categoryID int64) (int64, error) {
	normalized := normalize.BusinessName(businessName)

	business := &model.KnownBusiness{
		Name:           businessName,
		NormalizedName: normalized,
		CategoryID:     categoryID,
		Source:         model.SourceManual,
	}
	if err := p.store.SaveKnownBusiness(ctx, business); err != nil {
		return 0, err
	}
	p.catalog.Remember(normalized, categoryID)

	updated, err := p.store.UpdateCategoryByBusiness(ctx, normalized, categoryID)
	if err != nil {
		return 0, err
	}

	slog.Info("approved business category",
		"business", normalized,
		"category_id", categoryID,
		"updated_transactions", updated)
	return updated, nil
}
