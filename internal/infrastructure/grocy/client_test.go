package grocy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"beersmith-bridge/internal/infrastructure/config"
	"beersmith-bridge/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stockJSON = `[
  {"product_id": 1, "amount": "3", "product": {"id": 1, "name": "Cascade Hops 2023"}},
  {"product_id": "2", "amount": 0, "product": {"id": 2, "name": "Citra"}},
  {"product_id": 3, "amount": 1.5, "product": {"id": 3, "name": "  Safale US-05 "}},
  {"product_id": 4, "amount": 2, "product": {"id": 4, "name": ""}}
]`

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stock", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("GROCY-API-KEY"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStockDecoding(t *testing.T) {
	srv := newServer(t, http.StatusOK, stockJSON)
	c := NewClient(&config.GrocyConfig{BaseURL: srv.URL + "/", APIKey: "secret", Timeout: time.Second})

	items, err := c.Stock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, StockItem{ProductID: 1, Name: "Cascade Hops 2023", Amount: 3}, items[0])
	assert.Equal(t, "Safale US-05", items[1].Name)
	assert.Equal(t, []string{"Cascade Hops 2023", "Safale US-05"}, Names(items))
}

func TestStockErrors(t *testing.T) {
	srv := newServer(t, http.StatusUnauthorized, `{"error_message":"bad key"}`)
	c := NewClient(&config.GrocyConfig{BaseURL: srv.URL, APIKey: "secret", Timeout: time.Second})
	_, err := c.Stock(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrGrocyError))
	assert.Contains(t, err.Error(), "401")

	srv = newServer(t, http.StatusOK, `{"not":"a list"}`)
	c = NewClient(&config.GrocyConfig{BaseURL: srv.URL, APIKey: "secret", Timeout: time.Second})
	_, err = c.Stock(context.Background())
	assert.True(t, errors.Is(err, common.ErrGrocyError))
}
