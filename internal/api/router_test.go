package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"beersmith-bridge/internal/core/catalog"
	"beersmith-bridge/internal/core/match"
	"beersmith-bridge/internal/core/mutation"
	"beersmith-bridge/internal/core/queue"
	"beersmith-bridge/internal/infrastructure/config"
	"beersmith-bridge/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Version = "test"
	cfg.Currency = config.CurrencyConfig{
		UserCurrency: "GBP",
		UserUnit:     "kg",
		HostCurrency: "GBP",
		Rates:        map[string]float64{"EUR_to_GBP": 0.86},
	}
	cfg.Queue.MaxSize = 4
	return cfg
}

func newTestRouter(t *testing.T, load bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dataDir, recipeDir, backupDir := testutil.DataDir(t)
	store := catalog.NewStore(dataDir, recipeDir)
	if load {
		store.Load()
	}

	cfg := testConfig()
	q := queue.NewManager(cfg, mutation.NewGateway(store, mutation.NewDirBackuper(backupDir), cfg.Preferences()))
	q.Start()
	t.Cleanup(q.Close)

	router, err := SetupRouter(cfg, Dependencies{
		Store:   store,
		Matcher: match.New(0, 0),
		Queue:   q,
	})
	require.NoError(t, err)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestSetupRouterRequiresCoreComponents(t *testing.T) {
	_, err := SetupRouter(testConfig(), Dependencies{})
	assert.Error(t, err)
}

func TestHealthAndReadiness(t *testing.T) {
	router := newTestRouter(t, true)

	w, body := do(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["generation"])
	assert.NotNil(t, body["queue"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w, _ = do(t, router, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, router, http.MethodGet, "/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReadinessBeforeLoad(t *testing.T) {
	router := newTestRouter(t, false)

	w, body := do(t, router, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "not_ready", body["status"])
}

func TestIngredientRoutes(t *testing.T) {
	router := newTestRouter(t, true)

	w, body := do(t, router, http.MethodGet, "/api/v1/ingredients/hop?type=aroma", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hop", body["kind"])
	assert.Greater(t, body["count"].(float64), float64(0))

	w, body = do(t, router, http.MethodGet, "/api/v1/ingredients/hop/Cascade", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Cascade", body["name"])
	assert.Equal(t, 1.25, body["price"])

	w, body = do(t, router, http.MethodGet, "/api/v1/ingredients/hop/Casscade", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RECORD_NOT_FOUND", body["code"])
	suggestions := body["suggestions"].([]interface{})
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "Cascade", suggestions[0].(map[string]interface{})["name"])

	w, body = do(t, router, http.MethodGet, "/api/v1/ingredients/widgets", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNKNOWN_KIND", body["code"])

	w, body = do(t, router, http.MethodGet, "/api/v1/ingredients/hop/Cascade/price", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GBP", body["currency"])
	assert.Equal(t, "kg", body["unit"])
}

func TestMatchAndSearchRoutes(t *testing.T) {
	router := newTestRouter(t, true)

	w, body := do(t, router, http.MethodPost, "/api/v1/match", gin.H{
		"items": []string{"Casscade", "pale malt"},
		"kinds": []string{"hop", "grain"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	results := body["results"].([]interface{})
	require.Len(t, results, 2)
	best := results[0].(map[string]interface{})["best"].(map[string]interface{})
	assert.Equal(t, "Cascade", best["name"])

	w, body = do(t, router, http.MethodPost, "/api/v1/match", gin.H{"items": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", body["code"])

	w, body = do(t, router, http.MethodGet, "/api/v1/search?q=saaz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Greater(t, body["count"].(float64), float64(0))

	w, body = do(t, router, http.MethodGet, "/api/v1/hops/Cascade/substitutes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body)

	w, body = do(t, router, http.MethodGet, "/api/v1/water/Dublin,%20Ireland/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2.84, body["so4_cl_ratio"])
}

func TestMashRoutes(t *testing.T) {
	router := newTestRouter(t, true)

	w, body := do(t, router, http.MethodGet, "/api/v1/mash", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["count"])

	w, body = do(t, router, http.MethodGet, "/api/v1/mash/Single%20Infusion,%20Medium%20Body", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Single Infusion, Medium Body", body["name"])
	assert.Equal(t, float64(82), body["total_minutes"])
	schedule := body["schedule"].([]interface{})
	require.Len(t, schedule, 2)
	first := schedule[0].(map[string]interface{})
	assert.Equal(t, "Mash In", first["name"])
	assert.Equal(t, "infusion", first["type"])
	assert.InDelta(t, 66.7, first["temp_c"], 0.05)

	w, body = do(t, router, http.MethodGet, "/api/v1/mash/Single%20Infusoin,%20Medium%20Body", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	suggestions := body["suggestions"].([]interface{})
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "Single Infusion, Medium Body", suggestions[0].(map[string]interface{})["name"])
}

func TestRecipeRoutes(t *testing.T) {
	router := newTestRouter(t, true)

	w, body := do(t, router, http.MethodGet, "/api/v1/recipes?folder=IPAs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])

	w, _ = do(t, router, http.MethodGet, "/api/v1/recipes/West%20Coast%20IPA", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, body = do(t, router, http.MethodGet, "/api/v1/recipes/801/validate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["in_style"])

	w, _ = do(t, router, http.MethodGet, "/api/v1/recipes/West%20Coast%20IPA/beerxml", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "West Coast IPA.xml")
	assert.Contains(t, w.Body.String(), "<RECIPES>")

	w, body = do(t, router, http.MethodPost, "/api/v1/recipes/suggest", gin.H{
		"grains": []string{"Pilsner (2 Row) Ger"},
		"hops":   []string{"Cascade"},
		"yeasts": []string{"Saflager Lager"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	suggestions := body["suggestions"].([]interface{})
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "Czech Pils", suggestions[0].(map[string]interface{})["recipe"])

	w, body = do(t, router, http.MethodGet, "/api/v1/inventory/grocy/suggest", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "SERVICE_UNAVAILABLE", body["code"])
}

func TestPriceConvertRoute(t *testing.T) {
	router := newTestRouter(t, true)

	w, body := do(t, router, http.MethodPost, "/api/v1/prices/convert?unit=oz", gin.H{
		"kind":     "hop",
		"amount":   25,
		"currency": "EUR",
		"unit":     "kg",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "oz", body["unit"])
	assert.InDelta(t, 25*0.86/35.27396194958041, body["value"].(float64), 1e-9)
}

func TestUpdateRouteWritesAndDeduplicates(t *testing.T) {
	router := newTestRouter(t, true)
	patch := gin.H{"fields": gin.H{"price": gin.H{"value": 1.9}}, "reason": "restock"}

	w, body := do(t, router, http.MethodPatch, "/api/v1/ingredients/hop/Cascade", patch)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []interface{}{"price"}, body["changed"])
	assert.NotNil(t, body["backup"])

	w, body = do(t, router, http.MethodPatch, "/api/v1/ingredients/hop/Cascade", patch)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", body["code"])

	w, body = do(t, router, http.MethodGet, "/api/v1/ingredients/hop/Cascade", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.9, body["price"])

	w, body = do(t, router, http.MethodPatch, "/api/v1/ingredients/hop/Cascade", gin.H{"fields": gin.H{"type": gin.H{"value": "aroma"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "FIELD_NOT_ALLOWED", body["code"])
}

func TestReloadRoute(t *testing.T) {
	router := newTestRouter(t, true)

	w, body := do(t, router, http.MethodPost, "/api/v1/reload", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["generation"])
	assert.NotEmpty(t, body["reload_id"])

	w, body = do(t, router, http.MethodPost, "/api/v1/reload?kind=hop", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), body["generation"])

	w, _ = do(t, router, http.MethodPost, "/api/v1/reload?kind=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
