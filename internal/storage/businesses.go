package storage

import (
	"context"
	"fmt"

	"github.com/ysiton/shekelwise/internal/model"
)

// KnownBusinesses returns every learned business-to-category mapping.
func (s *SQLiteStorage) KnownBusinesses(ctx context.Context) ([]model.KnownBusiness, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT business_name, normalized_name, category_id, source, created_at
		FROM known_businesses
		ORDER BY normalized_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query known businesses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var businesses []model.KnownBusiness
	for rows.Next() {
		var b model.KnownBusiness
		var source string
		if err := rows.Scan(&b.Name, &b.NormalizedName, &b.CategoryID, &source, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan known business: %w", err)
		}
		b.Source = model.BusinessSource(source)
		businesses = append(businesses, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating known businesses: %w", err)
	}
	return businesses, nil
}

// SaveKnownBusiness registers a business-to-category mapping. Registering an
// already-known normalized name from an automatic match is an idempotent
// no-op (the existing record wins); a manual approval overwrites it.
func (s *SQLiteStorage) SaveKnownBusiness(ctx context.Context, business *model.KnownBusiness) error {
	if business == nil || business.NormalizedName == "" {
		return fmt.Errorf("known business requires a normalized name")
	}

	query := `
		INSERT INTO known_businesses (business_name, normalized_name, category_id, source)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(normalized_name) DO NOTHING
	`
	if business.Source == model.SourceManual {
		query = `
			INSERT INTO known_businesses (business_name, normalized_name, category_id, source)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(normalized_name) DO UPDATE SET
				category_id = excluded.category_id,
				source = excluded.source
		`
	}

	_, err := s.db.ExecContext(ctx, query,
		business.Name, business.NormalizedName, business.CategoryID, string(business.Source))
	if err != nil {
		return fmt.Errorf("failed to save known business %q: %w", business.NormalizedName, err)
	}
	return nil
}
