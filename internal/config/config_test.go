package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ysiton/shekelwise/internal/common"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := Load()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local/share/shekel/shekel.db"), cfg.DatabasePath)
	assert.Equal(t, "127.0.0.1:5001", cfg.ListenAddr)
	assert.Equal(t, 0.8, cfg.AI.SimilarityThreshold)
	assert.Equal(t, 0.6, cfg.AI.ConfidenceThreshold)
}

func TestLoadRejectsInvalidThreshold(t *testing.T) {
	resetViper(t)
	viper.Set("ai.similarity_threshold", 1.5)

	_, err := Load()
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestLoadRejectsMissingDatabasePath(t *testing.T) {
	resetViper(t)
	viper.Set("database.path", "")

	_, err := Load()
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("SHEKEL_TEST_DIR", "/tmp/shekel")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tilde prefix", "~/data/db.sqlite", filepath.Join(home, "data/db.sqlite")},
		{"bare tilde", "~", home},
		{"env var", "$SHEKEL_TEST_DIR/db.sqlite", "/tmp/shekel/db.sqlite"},
		{"plain path", "/var/lib/shekel.db", "/var/lib/shekel.db"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
