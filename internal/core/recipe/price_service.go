package recipe

import (
	"strings"

	"beersmith-bridge/internal/core/match"
	"beersmith-bridge/internal/core/pricing"
	"beersmith-bridge/internal/core/record"
	"beersmith-bridge/internal/pkg/common"
)

// PriceService 價格換算服務；偏好設定在建立時固定，請求可覆寫顯示貨幣與單位
type PriceService struct {
	*Service
	prefs common.Preferences
}

// NewPriceService 創建新的價格換算服務
func NewPriceService(base *Service, prefs common.Preferences) *PriceService {
	return &PriceService{Service: base, prefs: prefs}
}

// Preferences 目前的偏好設定
func (s *PriceService) Preferences() common.Preferences {
	return s.prefs
}

// Convert 將使用者輸入的價格換成存檔值並列出每個步驟
func (s *PriceService) Convert(req pricing.Request, currency, unit string) (*pricing.Breakdown, error) {
	if req.Kind == "" {
		return nil, common.Wrapf(common.ErrInvalidRequest, "kind is required")
	}
	kind, err := record.ParseKind(string(req.Kind))
	if err != nil {
		return nil, err
	}
	req.Kind = kind
	return pricing.Normalize(req, s.prefs.WithOverrides(currency, unit))
}

// PriceOf 以偏好的貨幣與單位顯示某筆原料的價格
func (s *PriceService) PriceOf(kind record.Kind, key, currency, unit string) (*pricing.Breakdown, []match.Result, error) {
	r, suggestions, err := s.snapshot().Lookup(kind, key, s.matcher)
	if err != nil {
		return nil, suggestions, err
	}
	v, ok := record.FieldValue(r, "price")
	if !ok {
		return nil, nil, common.Wrapf(common.ErrNoPrice, "%s %q has no price", kind, r.Meta().Name)
	}
	stored, _ := v.(float64)
	b, err := pricing.Display(kind, stored, s.prefs.WithOverrides(currency, strings.TrimSpace(unit)))
	return b, nil, err
}
