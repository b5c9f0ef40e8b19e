package categorize

import (
	"context"
	"fmt"

	"github.com/ysiton/shekelwise/internal/service"
)

// Catalog holds the process-wide categorization caches: category name to id
// and known normalized business to category id. It is loaded once from the
// persistence collaborator at session start and passed to every component
// that needs it; there are no ambient globals.
type Catalog struct {
	categoryIDs   map[string]int64
	categoryNames map[int64]string
	knownByName   map[string]int64
	defaultID     int64
}

// LoadCatalog builds the catalog from storage. It fails when the default
// category is missing, since every pipeline fallback depends on it.
func LoadCatalog(ctx context.Context, store service.Storage, defaultCategory string) (*Catalog, error) {
	categories, err := store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	c := &Catalog{
		categoryIDs:   make(map[string]int64, len(categories)),
		categoryNames: make(map[int64]string, len(categories)),
		knownByName:   make(map[string]int64),
	}
	for _, cat := range categories {
		c.categoryIDs[cat.Name] = cat.ID
		c.categoryNames[cat.ID] = cat.Name
	}

	defaultID, ok := c.categoryIDs[defaultCategory]
	if !ok {
		return nil, fmt.Errorf("default category %q not found; run migrations first", defaultCategory)
	}
	c.defaultID = defaultID

	businesses, err := store.KnownBusinesses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load known businesses: %w", err)
	}
	for _, b := range businesses {
		c.knownByName[b.NormalizedName] = b.CategoryID
	}

	return c, nil
}

// CategoryID resolves a category name to its stable storage id.
func (c *Catalog) CategoryID(name string) (int64, bool) {
	id, ok := c.categoryIDs[name]
	return id, ok
}

// CategoryName resolves a category id back to its name, or "" when unknown.
func (c *Catalog) CategoryName(id int64) string {
	return c.categoryNames[id]
}

// DefaultID returns the id of the fallback category.
func (c *Catalog) DefaultID() int64 {
	return c.defaultID
}

// Known looks up a normalized business name in the known-business cache.
func (c *Catalog) Known(normalizedName string) (int64, bool) {
	id, ok := c.knownByName[normalizedName]
	return id, ok
}

// Remember records a business-to-category mapping in the cache.
func (c *Catalog) Remember(normalizedName string, categoryID int64) {
	c.knownByName[normalizedName] = categoryID
}

// KnownBusinessNames returns every cached normalized business name.
func (c *Catalog) KnownBusinessNames() []string {
	names := make([]string, 0, len(c.knownByName))
	for name := range c.knownByName {
		names = append(names, name)
	}
	return names
}
