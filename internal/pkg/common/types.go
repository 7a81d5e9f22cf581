package common

import (
	"strings"
)

// Rates 匯率表，鍵為 "FROM_to_TO"
type Rates map[string]float64

// RateKey 產生匯率表的鍵
func RateKey(from, to string) string {
	return strings.ToUpper(from) + "_to_" + strings.ToUpper(to)
}

// Lookup 以不分大小寫方式查找指定方向的匯率
func (r Rates) Lookup(from, to string) (float64, bool) {
	want := RateKey(from, to)
	if v, ok := r[want]; ok {
		return v, true
	}
	for k, v := range r {
		if strings.EqualFold(k, want) {
			return v, true
		}
	}
	return 0, false
}

// Preferences 使用者顯示偏好，每次呼叫時明確傳入
type Preferences struct {
	UserCurrency string `json:"user_currency"` // 顯示貨幣
	UserUnit     string `json:"user_unit"`     // 顯示價格單位
	HostCurrency string `json:"host_currency"` // BeerSmith 存檔使用的貨幣
	Rates        Rates  `json:"rates"`
}

// WithOverrides 套用請求層級的覆寫，空值保留原設定
func (p Preferences) WithOverrides(currency, unit string) Preferences {
	out := p
	if strings.TrimSpace(currency) != "" {
		out.UserCurrency = strings.ToUpper(strings.TrimSpace(currency))
	}
	if strings.TrimSpace(unit) != "" {
		out.UserUnit = strings.ToLower(strings.TrimSpace(unit))
	}
	return out
}
