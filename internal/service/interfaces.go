// Package service defines the interfaces between the parsing and
// categorization core and its collaborators. The core never assumes a
// concrete storage technology; it consumes these operations only.
package service

import (
	"context"
	"time"

	"github.com/ysiton/shekelwise/internal/model"
)

// TransactionFilter narrows historical transaction queries.
type TransactionFilter struct {
	StartDate     *time.Time
	EndDate       *time.Time
	MaxConfidence *float64 // Exclusive upper bound on confidence score
	CategoryID    int64
	Limit         int
	Offset        int
}

// Storage is the persistence collaborator consumed by the core.
type Storage interface {
	// File processing ledger
	IsFileProcessed(ctx context.Context, fingerprint string) (bool, error)
	MarkFileProcessed(ctx context.Context, file *model.ProcessedFile) error

	// Transaction operations
	InsertTransactions(ctx context.Context, transactions []model.Transaction) (int, error)
	Transactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	UpdateTransactionCategory(ctx context.Context, transactionID, categoryID int64) error
	UpdateCategoryByBusiness(ctx context.Context, normalizedName string, categoryID int64) (int64, error)

	// Category operations
	Categories(ctx context.Context) ([]model.Category, error)
	CategoryByName(ctx context.Context, name string) (*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error)

	// Known business operations
	KnownBusinesses(ctx context.Context) ([]model.KnownBusiness, error)
	SaveKnownBusiness(ctx context.Context, business *model.KnownBusiness) error

	// Aggregates
	Stats(ctx context.Context) (*Stats, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Stats summarizes the persisted data set for reporting.
type Stats struct {
	TotalTransactions int
	TotalCategories   int
	ProcessedFiles    int
	KnownBusinesses   int
	TotalAmount       float64
	HighConfidence    int // confidence >= 0.8
	MediumConfidence  int // 0.5 <= confidence < 0.8
	LowConfidence     int // confidence < 0.5
}

// FileReport is the per-file outcome of a batch run.
type FileReport struct {
	Error            error
	Filename         string
	Saved            int
	Skipped          int
	AlreadyProcessed bool
}

// RunSummary aggregates a whole batch run.
type RunSummary struct {
	Files             []FileReport
	SucceededFiles    int
	TotalFiles        int
	TotalTransactions int
}
