package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ysiton/shekelwise/internal/api"
	"github.com/ysiton/shekelwise/internal/categorize"
	"github.com/ysiton/shekelwise/internal/learning"
	"github.com/ysiton/shekelwise/internal/model"
	"github.com/ysiton/shekelwise/internal/storage"
	"github.com/ysiton/shekelwise/internal/testutil"
)

func newTestServer(t *testing.T) (*api.Server, *storage.SQLiteStorage) {
	t.Helper()

	store := testutil.SetupTestDB(t)
	catalog, err := categorize.LoadCatalog(context.Background(), store, model.DefaultCategoryName)
	require.NoError(t, err)

	pipeline := categorize.NewPipeline(store, catalog, categorize.NewRuleCategorizer(categorize.DefaultRules))
	learner := learning.NewCategorizer(store, catalog, learning.DefaultConfig())
	propagator := learning.NewPropagator(store)

	return api.NewServer(store, pipeline, learner, propagator, api.DefaultConfig()), store
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	status, body := doJSON(t, server.App(), http.MethodGet, "/api/health", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestStatsEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	foodID := testutil.MustCategoryID(t, store, "מזון ומשקאות")
	testutil.InsertTransactions(t, store, []model.Transaction{{
		Date:       time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC),
		Business:   "שופרסל דיל",
		Amount:     85.5,
		CategoryID: foodID,
		Confidence: 0.9,
		Currency:   "ILS",
	}})

	status, body := doJSON(t, server.App(), http.MethodGet, "/api/ai-stats", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, body["total_transactions"])
	assert.EqualValues(t, 10, body["total_categories"])
	assert.EqualValues(t, 1, body["high_confidence"])
}

func TestSuggestionsEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	foodID := testutil.MustCategoryID(t, store, "מזון ומשקאות")
	defaultID := testutil.MustCategoryID(t, store, model.DefaultCategoryName)

	var batch []model.Transaction
	for i := 0; i < 5; i++ {
		batch = append(batch, model.Transaction{
			Date:       time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC),
			Business:   "שופרסל דיל",
			Amount:     100.0,
			CategoryID: foodID,
			Confidence: 0.9,
			Currency:   "ILS",
		})
	}
	batch = append(batch, model.Transaction{
		Date:       time.Date(2025, 5, 13, 0, 0, 0, 0, time.UTC),
		Business:   "שופרסל צפון",
		Amount:     100.0,
		CategoryID: defaultID,
		Confidence: 0.3,
		Currency:   "ILS",
	})
	testutil.InsertTransactions(t, store, batch)

	status, body := doJSON(t, server.App(), http.MethodPost, "/api/retrain", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 6, body["transactions"])

	status, body = doJSON(t, server.App(), http.MethodGet, "/api/ai-suggestions", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.EqualValues(t, 1, body["count"])

	suggestions := body["suggestions"].([]any)
	first := suggestions[0].(map[string]any)
	assert.Equal(t, "שופרסל צפון", first["business"])
	assert.Equal(t, "מזון ומשקאות", first["suggested_category"])
}

func TestSuggestionsEndpointRejectsBadLimit(t *testing.T) {
	server, _ := newTestServer(t)

	status, _ := doJSON(t, server.App(), http.MethodGet, "/api/ai-suggestions?limit=-1", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestSimilarBusinessesEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	foodID := testutil.MustCategoryID(t, store, "מזון ומשקאות")

	for _, name := range []string{"סופר פארם תל אביב", "סופר פארם חולון"} {
		require.NoError(t, store.SaveKnownBusiness(context.Background(), &model.KnownBusiness{
			Name:           name,
			NormalizedName: name,
			CategoryID:     foodID,
			Source:         model.SourceAuto,
		}))
	}

	status, body := doJSON(t, server.App(), http.MethodGet,
		"/api/similar-businesses?business=%D7%A1%D7%95%D7%A4%D7%A8+%D7%A4%D7%90%D7%A8%D7%9D&threshold=0.6", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 2, body["count"])
}

func TestSimilarBusinessesRequiresBusiness(t *testing.T) {
	server, _ := newTestServer(t)

	status, _ := doJSON(t, server.App(), http.MethodGet, "/api/similar-businesses", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestApproveBusinessEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	healthID := testutil.MustCategoryID(t, store, "בריאות")
	defaultID := testutil.MustCategoryID(t, store, model.DefaultCategoryName)

	testutil.InsertTransactions(t, store, []model.Transaction{{
		Date:               time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC),
		Business:           "סופר פארם",
		NormalizedBusiness: "סופר פארם",
		Amount:             120.0,
		CategoryID:         defaultID,
		Confidence:         0.3,
		Currency:           "ILS",
	}})

	status, body := doJSON(t, server.App(), http.MethodPost, "/api/approve-business", approveBody("סופר פארם", "בריאות"))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 1, body["transactions_updated"])

	known, err := store.KnownBusinesses(context.Background())
	require.NoError(t, err)
	require.Len(t, known, 1)
	assert.Equal(t, healthID, known[0].CategoryID)
	assert.Equal(t, model.SourceManual, known[0].Source)
}

func TestApproveBusinessUnknownCategory(t *testing.T) {
	server, _ := newTestServer(t)

	status, _ := doJSON(t, server.App(), http.MethodPost, "/api/approve-business", approveBody("סופר פארם", "לא קיים"))
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestApproveBusinessRequiresFields(t *testing.T) {
	server, _ := newTestServer(t)

	status, _ := doJSON(t, server.App(), http.MethodPost, "/api/approve-business", map[string]any{"business": "x"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func approveBody(business, category string) map[string]any {
	return map[string]any{
		"business": business,
		"category": category,
	}
}
