package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/ysiton/shekelwise/internal/common"
	"github.com/ysiton/shekelwise/internal/model"
)

// IsFileProcessed reports whether a statement file with this fingerprint was
// already ingested.
func (s *SQLiteStorage) IsFileProcessed(ctx context.Context, fingerprint string) (bool, error) {
	if fingerprint == "" {
		return false, fmt.Errorf("fingerprint cannot be empty")
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM processed_files WHERE fingerprint = ?)
	`, fingerprint).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check processed file: %w", err)
	}
	return exists, nil
}

// MarkFileProcessed records a fully ingested statement file. The UNIQUE
// constraint on the fingerprint closes the check-then-act window between two
// concurrent batch runs: the second writer gets ErrDuplicateEntry and treats
// the file as already processed.
func (s *SQLiteStorage) MarkFileProcessed(ctx context.Context, file *model.ProcessedFile) error {
	if file == nil || file.Fingerprint == "" {
		return fmt.Errorf("processed file requires a fingerprint")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO processed_files (filename, fingerprint, issuer, transactions_count, processing_time_ms)
		VALUES (?, ?, ?, ?, ?)
	`, file.Filename, file.Fingerprint, string(file.Issuer), file.TransactionCount, file.ProcessingTime.Milliseconds())

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return common.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to mark file processed: %w", err)
	}
	return nil
}
