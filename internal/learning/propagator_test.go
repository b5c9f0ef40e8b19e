package learning_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ysiton/shekelwise/internal/learning"
	"github.com/ysiton/shekelwise/internal/model"
	"github.com/ysiton/shekelwise/internal/storage"
	"github.com/ysiton/shekelwise/internal/testutil"
)

func saveBusiness(t *testing.T, store *storage.SQLiteStorage, name string, categoryID int64) {
	t.Helper()

	err := store.SaveKnownBusiness(context.Background(), &model.KnownBusiness{
		Name:           name,
		NormalizedName: name,
		CategoryID:     categoryID,
		Source:         model.SourceAuto,
	})
	require.NoError(t, err)
}

func TestFindSimilarRanksByRatio(t *testing.T) {
	store := testutil.SetupTestDB(t)
	propagator := learning.NewPropagator(store)
	foodID := testutil.MustCategoryID(t, store, "מזון ומשקאות")

	saveBusiness(t, store, "שופרסל דיל", foodID)
	saveBusiness(t, store, "שופרסל דיל חולון", foodID)
	saveBusiness(t, store, "מוסך הרצל", foodID)

	matches, err := propagator.FindSimilar(context.Background(), "שופרסל דיל רמת גן", 0.6)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "שופרסל דיל", matches[0].Name)
	assert.Equal(t, "שופרסל דיל חולון", matches[1].Name)
	assert.GreaterOrEqual(t, matches[0].Similarity, matches[1].Similarity)
}

func TestFindSimilarExcludesExactMatch(t *testing.T) {
	store := testutil.SetupTestDB(t)
	propagator := learning.NewPropagator(store)
	foodID := testutil.MustCategoryID(t, store, "מזון ומשקאות")

	saveBusiness(t, store, "שופרסל דיל", foodID)

	matches, err := propagator.FindSimilar(context.Background(), "שופרסל דיל", 0.5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindSimilarCapsResults(t *testing.T) {
	store := testutil.SetupTestDB(t)
	propagator := learning.NewPropagator(store)
	foodID := testutil.MustCategoryID(t, store, "מזון ומשקאות")

	names := []string{
		"שופרסל דיל א", "שופרסל דיל ב", "שופרסל דיל ג", "שופרסל דיל ד",
		"שופרסל דיל ה", "שופרסל דיל ו", "שופרסל דיל ז", "שופרסל דיל ח",
		"שופרסל דיל ט", "שופרסל דיל י", "שופרסל דיל כ", "שופרסל דיל ל",
	}
	for _, name := range names {
		saveBusiness(t, store, name, foodID)
	}

	matches, err := propagator.FindSimilar(context.Background(), "שופרסל דיל", 0.5)
	require.NoError(t, err)
	assert.Len(t, matches, 10)
}

func TestFindSimilarRespectsThreshold(t *testing.T) {
	store := testutil.SetupTestDB(t)
	propagator := learning.NewPropagator(store)
	foodID := testutil.MustCategoryID(t, store, "מזון ומשקאות")

	saveBusiness(t, store, "מוסך הרצל", foodID)

	matches, err := propagator.FindSimilar(context.Background(), "שופרסל דיל", 0.8)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestPropagateUpdatesSimilarBusinesses(t *testing.T) {
	store := testutil.SetupTestDB(t)
	propagator := learning.NewPropagator(store)
	foodID := testutil.MustCategoryID(t, store, "מזון ומשקאות")
	healthID := testutil.MustCategoryID(t, store, "בריאות")

	saveBusiness(t, store, "סופר פארם תל אביב", foodID)
	saveBusiness(t, store, "סופר פארם חולון", foodID)
	saveBusiness(t, store, "מוסך הרצל", foodID)

	updated, err := propagator.Propagate(context.Background(), "סופר פארם רמת גן", healthID, 0.6)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	known, err := store.KnownBusinesses(context.Background())
	require.NoError(t, err)
	byName := make(map[string]int64, len(known))
	for _, b := range known {
		byName[b.NormalizedName] = b.CategoryID
	}
	assert.Equal(t, healthID, byName["סופר פארם תל אביב"])
	assert.Equal(t, healthID, byName["סופר פארם חולון"])
	assert.Equal(t, foodID, byName["מוסך הרצל"])
}

func TestPropagateWithNoMatches(t *testing.T) {
	store := testutil.SetupTestDB(t)
	propagator := learning.NewPropagator(store)
	foodID := testutil.MustCategoryID(t, store, "מזון ומשקאות")

	saveBusiness(t, store, "מוסך הרצל", foodID)

	updated, err := propagator.Propagate(context.Background(), "שופרסל דיל", foodID, 0.8)
	require.NoError(t, err)
	assert.Zero(t, updated)
}
