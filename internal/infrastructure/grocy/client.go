// Package grocy 讀取 Grocy 庫存，作為可行性評估的現有原料來源
package grocy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"beersmith-bridge/internal/infrastructure/config"
	"beersmith-bridge/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// StockItem 庫存中的一項產品
type StockItem struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
}

// stockEntry /api/stock 的原始格式；數量可能是字串
type stockEntry struct {
	ProductID json.Number `json:"product_id"`
	Amount    json.Number `json:"amount"`
	Product   struct {
		ID   json.Number `json:"id"`
		Name string      `json:"name"`
	} `json:"product"`
}

// Client Grocy API 客戶端
type Client struct {
	client *resty.Client
}

// NewClient 創建 Grocy 客戶端
func NewClient(cfg *config.GrocyConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("GROCY-API-KEY", cfg.APIKey).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)

	return &Client{client: client}
}

// Stock 取得目前庫存，數量為 0 的產品略過
func (c *Client) Stock(ctx context.Context) ([]StockItem, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/api/stock")
	if err != nil {
		return nil, common.Wrapf(common.ErrGrocyError, "request stock: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.Wrapf(common.ErrGrocyError, "stock returned %d: %s", resp.StatusCode(), resp.String())
	}

	var entries []stockEntry
	if err := common.ParseJSONBytes(resp.Body(), &entries); err != nil {
		return nil, common.Wrapf(common.ErrGrocyError, "decode stock: %v", err)
	}

	items := make([]StockItem, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Product.Name)
		if name == "" {
			continue
		}
		amount, _ := e.Amount.Float64()
		if amount <= 0 {
			continue
		}
		id, _ := e.ProductID.Int64()
		if id == 0 {
			id, _ = e.Product.ID.Int64()
		}
		items = append(items, StockItem{ProductID: int(id), Name: name, Amount: amount})
	}

	common.LogInfo("已讀取 Grocy 庫存", zap.Int("entries", len(entries)), zap.Int("in_stock", len(items)))
	return items, nil
}

// StockNames 目前有庫存的產品名稱
func (c *Client) StockNames(ctx context.Context) ([]string, error) {
	items, err := c.Stock(ctx)
	if err != nil {
		return nil, err
	}
	return Names(items), nil
}

// Names 庫存產品名稱
func Names(items []StockItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func (s StockItem) String() string {
	return fmt.Sprintf("%s (%v)", s.Name, s.Amount)
}
