package pricing

import (
	"fmt"
	"strings"

	"beersmith-bridge/internal/core/record"
	"beersmith-bridge/internal/core/units"
	"beersmith-bridge/internal/pkg/common"
)

// canonicalPriceUnit 種類的標準價格單位；沒有價格的種類回傳 ErrNoPrice
func canonicalPriceUnit(kind record.Kind) (units.Unit, error) {
	t := record.Traits(kind)
	if !t.HasPrice() {
		return "", common.Wrapf(common.ErrNoPrice, "kind %s", kind)
	}
	return t.PriceUnit, nil
}

func canonicalQuantityUnit(kind record.Kind) (units.Unit, error) {
	t := record.Traits(kind)
	if t.InventoryUnit == "" {
		return "", common.Wrapf(common.ErrNoPrice, "kind %s has no inventory", kind)
	}
	return t.InventoryUnit, nil
}

// ToCanonical 將每 from 單位的價格換成種類的標準價格單位
func ToCanonical(value float64, from units.Unit, kind record.Kind) (float64, error) {
	to, err := canonicalPriceUnit(kind)
	if err != nil {
		return 0, err
	}
	return units.ConvertPrice(value, from, to)
}

// ToDisplay 將標準單位的價格換成每 to 單位的價格
func ToDisplay(value float64, to units.Unit, kind record.Kind) (float64, error) {
	from, err := canonicalPriceUnit(kind)
	if err != nil {
		return 0, err
	}
	return units.ConvertPrice(value, from, to)
}

// QuantityToCanonical 數量換成種類的標準庫存單位
func QuantityToCanonical(amount float64, from units.Unit, kind record.Kind) (float64, error) {
	to, err := canonicalQuantityUnit(kind)
	if err != nil {
		return 0, err
	}
	return units.ConvertQuantity(amount, from, to)
}

// QuantityToDisplay 標準庫存單位的數量換成 to 單位
func QuantityToDisplay(amount float64, to units.Unit, kind record.Kind) (float64, error) {
	from, err := canonicalQuantityUnit(kind)
	if err != nil {
		return 0, err
	}
	return units.ConvertQuantity(amount, from, to)
}

// ConvertCurrency 以指定方向的匯率換算金額；不做反向推算
func ConvertCurrency(amount float64, from, to string, rates common.Rates) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return amount, nil
	}
	rate, ok := rates.Lookup(from, to)
	if !ok {
		return 0, common.Wrapf(common.ErrRateNotFound, "no rate %s", common.RateKey(from, to))
	}
	return amount * rate, nil
}

// Request 價格換算請求
type Request struct {
	Kind     record.Kind `json:"kind"`
	Amount   float64     `json:"amount"`
	Currency string      `json:"currency"`
	Unit     string      `json:"unit"`
}

// Breakdown 換算結果與每個步驟的說明
type Breakdown struct {
	Kind     record.Kind `json:"kind"`
	Input    float64     `json:"input"`
	From     string      `json:"from"` // 例如 EUR/kg
	Value    float64     `json:"value"`
	Currency string      `json:"currency"`
	Unit     units.Unit  `json:"unit"`
	Steps    []string    `json:"steps"`
}

// Per 結果的顯示單位，例如 GBP/oz
func (b *Breakdown) Per() string {
	return b.Currency + "/" + string(b.Unit)
}

// Normalize 將使用者輸入的價格換成 BeerSmith 存檔值：先換貨幣，再換單位
//
// 請求未指定貨幣或單位時採用偏好設定中的顯示貨幣與顯示單位。
func Normalize(req Request, prefs common.Preferences) (*Breakdown, error) {
	canonical, err := canonicalPriceUnit(req.Kind)
	if err != nil {
		return nil, err
	}
	if req.Amount < 0 {
		return nil, common.Wrapf(common.ErrInvalidValue, "price %v is negative", req.Amount)
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = strings.ToUpper(prefs.UserCurrency)
	}
	host := strings.ToUpper(prefs.HostCurrency)
	if host == "" {
		host = currency
	}

	from, err := inputUnit(req.Unit, prefs.UserUnit, canonical)
	if err != nil {
		return nil, err
	}

	b := &Breakdown{
		Kind:     req.Kind,
		Input:    req.Amount,
		From:     currency + "/" + string(from),
		Currency: host,
		Unit:     canonical,
	}

	value := req.Amount
	if currency != host {
		converted, err := ConvertCurrency(value, currency, host, prefs.Rates)
		if err != nil {
			return nil, err
		}
		rate, _ := prefs.Rates.Lookup(currency, host)
		b.Steps = append(b.Steps, fmt.Sprintf("%.4f %s × %v (%s) = %.4f %s",
			value, currency, rate, common.RateKey(currency, host), converted, host))
		value = converted
	}

	if from != canonical {
		perCanonical, err := units.ConvertPrice(value, from, canonical)
		if err != nil {
			return nil, err
		}
		factor, _ := units.QuantityFactor(from, canonical)
		b.Steps = append(b.Steps, fmt.Sprintf("%.4f %s/%s ÷ %.6f %s per %s = %.6f %s/%s",
			value, host, from, factor, canonical, from, perCanonical, host, canonical))
		value = perCanonical
	}

	if len(b.Steps) == 0 {
		b.Steps = append(b.Steps, fmt.Sprintf("already in %s/%s", host, canonical))
	}
	b.Value = value
	return b, nil
}

// Display 將存檔價格換成使用者偏好的貨幣與單位
//
// 顯示單位與種類的量綱不同時（例如酵母以包計價）維持標準單位。
func Display(kind record.Kind, stored float64, prefs common.Preferences) (*Breakdown, error) {
	canonical, err := canonicalPriceUnit(kind)
	if err != nil {
		return nil, err
	}
	host := strings.ToUpper(prefs.HostCurrency)
	currency := strings.ToUpper(prefs.UserCurrency)
	if currency == "" {
		currency = host
	}

	to := canonical
	if prefs.UserUnit != "" {
		u, err := units.Parse(prefs.UserUnit)
		if err != nil {
			return nil, err
		}
		if sameDimension(u, canonical) {
			to = u
		}
	}

	b := &Breakdown{
		Kind:     kind,
		Input:    stored,
		From:     host + "/" + string(canonical),
		Currency: currency,
		Unit:     to,
	}

	value := stored
	if to != canonical {
		v, err := units.ConvertPrice(value, canonical, to)
		if err != nil {
			return nil, err
		}
		b.Steps = append(b.Steps, fmt.Sprintf("%.6f %s/%s → %.4f %s/%s", value, host, canonical, v, host, to))
		value = v
	}
	if currency != host {
		v, err := ConvertCurrency(value, host, currency, prefs.Rates)
		if err != nil {
			return nil, err
		}
		b.Steps = append(b.Steps, fmt.Sprintf("%.4f %s → %.4f %s", value, host, v, currency))
		value = v
	}
	b.Value = value
	return b, nil
}

func inputUnit(requested, preferred string, canonical units.Unit) (units.Unit, error) {
	if strings.TrimSpace(requested) != "" {
		return units.Parse(requested)
	}
	if strings.TrimSpace(preferred) == "" {
		return canonical, nil
	}
	u, err := units.Parse(preferred)
	if err != nil {
		return "", err
	}
	if !sameDimension(u, canonical) {
		return canonical, nil
	}
	return u, nil
}

func sameDimension(a, b units.Unit) bool {
	da, ok := units.DimensionOf(a)
	if !ok {
		return false
	}
	db, ok := units.DimensionOf(b)
	return ok && da == db
}
