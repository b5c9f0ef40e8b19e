// Package config provides configuration defaults and utilities for the
// application. All settings flow through viper so the config file,
// environment variables and flags resolve uniformly.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/ysiton/shekelwise/internal/common"
)

// Config is the resolved application configuration.
type Config struct {
	DatabasePath  string
	StatementsDir string
	ListenAddr    string
	AI            AIConfig
}

// AIConfig tunes the learning engine and similarity propagation.
type AIConfig struct {
	// ConfidenceThreshold gates improvement suggestions.
	ConfidenceThreshold float64
	// SimilarityThreshold is the ratio floor for treating two business
	// names as the same merchant.
	SimilarityThreshold float64
	// SuggestionLimit caps suggestion listings.
	SuggestionLimit int
}

// SetDefaults registers every setting with its default value. Call once
// before reading the config file so absent keys resolve sanely.
func SetDefaults() {
	viper.SetDefault("database.path", "~/.local/share/shekel/shekel.db")
	viper.SetDefault("statements.dir", "~/Documents/statements")
	viper.SetDefault("api.listen", "127.0.0.1:5001")
	viper.SetDefault("ai.confidence_threshold", 0.6)
	viper.SetDefault("ai.similarity_threshold", 0.8)
	viper.SetDefault("ai.suggestion_limit", 20)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
}

// Load resolves the configuration from viper and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		DatabasePath:  ExpandPath(viper.GetString("database.path")),
		StatementsDir: ExpandPath(viper.GetString("statements.dir")),
		ListenAddr:    viper.GetString("api.listen"),
		AI: AIConfig{
			ConfidenceThreshold: viper.GetFloat64("ai.confidence_threshold"),
			SimilarityThreshold: viper.GetFloat64("ai.similarity_threshold"),
			SuggestionLimit:     viper.GetInt("ai.suggestion_limit"),
		},
	}

	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if cfg.AI.SimilarityThreshold <= 0 || cfg.AI.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("%w: ai.similarity_threshold must be in (0, 1]", common.ErrInvalidConfig)
	}
	if cfg.AI.ConfidenceThreshold < 0 || cfg.AI.ConfidenceThreshold >= 1 {
		return nil, fmt.Errorf("%w: ai.confidence_threshold must be in [0, 1)", common.ErrInvalidConfig)
	}

	return cfg, nil
}
