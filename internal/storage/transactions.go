package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ysiton/shekelwise/internal/model"
	"github.com/ysiton/shekelwise/internal/service"
)

// InsertTransactions persists categorized transaction records and returns the
// number inserted. The whole batch goes in one database transaction: a file
// is either fully persisted or not at all.
func (s *SQLiteStorage) InsertTransactions(ctx context.Context, transactions []model.Transaction) (int, error) {
	if len(transactions) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			transaction_date, business_name, normalized_business, amount,
			currency, issuer, card_last_four, category_id, confidence,
			needs_review, file_hash, raw_data
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for i := range transactions {
		t := &transactions[i]

		rawData, jsonErr := json.Marshal(t.RawFields)
		if jsonErr != nil {
			return 0, fmt.Errorf("failed to encode raw fields: %w", jsonErr)
		}

		currency := t.Currency
		if currency == "" {
			currency = "ILS"
		}

		if _, execErr := stmt.ExecContext(ctx,
			t.Date.Format("2006-01-02"),
			t.Business,
			t.NormalizedBusiness,
			t.Amount,
			currency,
			string(t.Issuer),
			t.CardLastFour,
			t.CategoryID,
			t.Confidence,
			t.NeedsReview,
			t.FileHash,
			string(rawData),
		); execErr != nil {
			return 0, fmt.Errorf("failed to insert transaction for %q: %w", t.Business, execErr)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transactions: %w", err)
	}

	return inserted, nil
}

// Transactions returns historical transactions matching the filter, newest first.
func (s *SQLiteStorage) Transactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	query := `
		SELECT id, transaction_date, business_name, normalized_business, amount,
		       currency, issuer, card_last_four, category_id, confidence,
		       needs_review, file_hash
		FROM transactions`

	var conditions []string
	var args []any

	if filter.StartDate != nil {
		conditions = append(conditions, "transaction_date >= ?")
		args = append(args, filter.StartDate.Format("2006-01-02"))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "transaction_date <= ?")
		args = append(args, filter.EndDate.Format("2006-01-02"))
	}
	if filter.CategoryID != 0 {
		conditions = append(conditions, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.MaxConfidence != nil {
		conditions = append(conditions, "confidence < ?")
		args = append(args, *filter.MaxConfidence)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY transaction_date DESC, id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var dateStr, issuerStr string
		if err := rows.Scan(
			&t.ID, &dateStr, &t.Business, &t.NormalizedBusiness, &t.Amount,
			&t.Currency, &issuerStr, &t.CardLastFour, &t.CategoryID,
			&t.Confidence, &t.NeedsReview, &t.FileHash,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Issuer = model.Issuer(issuerStr)
		t.Date = parseStoredDate(dateStr)
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// UpdateTransactionCategory reassigns a single transaction to a category.
func (s *SQLiteStorage) UpdateTransactionCategory(ctx context.Context, transactionID, categoryID int64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET category_id = ?, needs_review = 0 WHERE id = ?
	`, categoryID, transactionID)
	if err != nil {
		return fmt.Errorf("failed to update transaction category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %d not found", transactionID)
	}
	return nil
}

// UpdateCategoryByBusiness bulk-updates every historical transaction of a
// normalized business to the given category. Returns the number of rows
// changed.
func (s *SQLiteStorage) UpdateCategoryByBusiness(ctx context.Context, normalizedName string, categoryID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET category_id = ?, needs_review = 0
		WHERE normalized_business = ?
	`, categoryID, normalizedName)
	if err != nil {
		return 0, fmt.Errorf("failed to update transactions for business %q: %w", normalizedName, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check update result: %w", err)
	}
	return affected, nil
}
