package storage

import (
	"context"
	"fmt"

	"github.com/ysiton/shekelwise/internal/service"
)

// Stats aggregates the persisted data set for the stats command and the API.
func (s *SQLiteStorage) Stats(ctx context.Context) (*service.Stats, error) {
	stats := &service.Stats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM transactions),
			(SELECT COALESCE(SUM(amount), 0) FROM transactions),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM processed_files),
			(SELECT COUNT(*) FROM known_businesses),
			(SELECT COUNT(*) FROM transactions WHERE confidence >= 0.8),
			(SELECT COUNT(*) FROM transactions WHERE confidence >= 0.5 AND confidence < 0.8),
			(SELECT COUNT(*) FROM transactions WHERE confidence < 0.5)
	`).Scan(
		&stats.TotalTransactions,
		&stats.TotalAmount,
		&stats.TotalCategories,
		&stats.ProcessedFiles,
		&stats.KnownBusinesses,
		&stats.HighConfidence,
		&stats.MediumConfidence,
		&stats.LowConfidence,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}

	return stats, nil
}
