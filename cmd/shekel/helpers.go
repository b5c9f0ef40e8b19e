package main

import (
	"context"
	"fmt"

	"github.com/ysiton/shekelwise/internal/categorize"
	"github.com/ysiton/shekelwise/internal/config"
	"github.com/ysiton/shekelwise/internal/learning"
	"github.com/ysiton/shekelwise/internal/model"
	"github.com/ysiton/shekelwise/internal/service"
	"github.com/ysiton/shekelwise/internal/storage"
)

// initStorage opens the configured database and runs migrations.
func initStorage(ctx context.Context, cfg *config.Config) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// services bundles the categorization collaborators built on one store.
type services struct {
	store      service.Storage
	pipeline   *categorize.Pipeline
	learner    *learning.Categorizer
	propagator *learning.Propagator
	cfg        *config.Config
}

// initServices loads config, opens storage and wires the categorization
// stack. The caller owns the returned store and must Close it.
func initServices(ctx context.Context) (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	catalog, err := categorize.LoadCatalog(ctx, store, model.DefaultCategoryName)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	pipeline := categorize.NewPipeline(store, catalog, categorize.NewRuleCategorizer(categorize.DefaultRules))
	learner := learning.NewCategorizer(store, catalog, learning.Config{
		ConfidenceThreshold: cfg.AI.ConfidenceThreshold,
		ReviewCutoff:        learning.DefaultConfig().ReviewCutoff,
	})

	return &services{
		store:      store,
		pipeline:   pipeline,
		learner:    learner,
		propagator: learning.NewPropagator(store),
		cfg:        cfg,
	}, nil
}

func (s *services) close() {
	_ = s.store.Close()
}
