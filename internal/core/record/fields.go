package record

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"beersmith-bridge/internal/core/bsmx"
)

var leadingNumber = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)`)

// CoerceFloat 寬鬆解析數值
//
// 第二個回傳值：0 表示直接解析成功，1 表示經過修正（小數逗號或截取開頭數字），-1 表示無法解析。
func CoerceFloat(s string) (float64, int) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, -1
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return v, 0
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		if v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); err == nil {
			return v, 1
		}
	}
	if m := leadingNumber.FindString(s); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			return v, 1
		}
	}
	return 0, -1
}

// FormatNumber BeerSmith 寫入數值的格式
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', 7, 64)
}

// reader 讀取單一資料項的欄位並累積警告
type reader struct {
	node  *bsmx.Node
	src   string
	label string
	warns *[]bsmx.Warning
}

func newReader(n *bsmx.Node, src string, warns *[]bsmx.Warning) reader {
	return reader{node: n, src: src, warns: warns}
}

func (r reader) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if r.label != "" {
		msg = r.label + ": " + msg
	}
	*r.warns = append(*r.warns, bsmx.Warning{Source: r.src, Offset: r.node.Offset, Message: msg})
}

func (r reader) text(tag string) string {
	s, _ := r.node.ChildText(tag)
	return s
}

// num 讀取數值，缺少時回傳預設值，無法解析時記錄警告並回傳預設值
func (r reader) num(tag string, def float64) float64 {
	s, ok := r.node.ChildText(tag)
	if !ok || s == "" {
		return def
	}
	v, how := CoerceFloat(s)
	switch how {
	case 1:
		r.warn("%s %q coerced to %v", tag, s, v)
	case -1:
		r.warn("%s %q is not numeric, defaulted to %v", tag, s, def)
		return def
	}
	return v
}

// nonNegative 價格與庫存不得為負，負值修正為 0
func (r reader) nonNegative(tag string) float64 {
	v := r.num(tag, 0)
	if v < 0 {
		r.warn("%s negative value %v clamped to 0", tag, v)
		return 0
	}
	return v
}

// fraction 百分比欄位轉為 0~1，來源大於 1 時視為百分比，超出範圍時截斷並警告
func (r reader) fraction(tag string, def float64) float64 {
	v := r.num(tag, def)
	if v > 1 {
		v /= 100
	}
	switch {
	case v < 0:
		r.warn("%s negative fraction %v clamped to 0", tag, v)
		return 0
	case v > 1:
		r.warn("%s fraction %v above 100%% clamped to 1", tag, v)
		return 1
	}
	return v
}

// code 讀取列舉代碼
func (r reader) code(tag string) (int, bool) {
	s, ok := r.node.ChildText(tag)
	if !ok || s == "" {
		return 0, false
	}
	v, how := CoerceFloat(s)
	if how < 0 {
		r.warn("%s code %q is not numeric", tag, s)
		return 0, false
	}
	return int(math.Round(v)), true
}

// rangeOf 讀取成對範圍，min 大於 max 時標記但不交換
func (r reader) rangeOf(minTag, maxTag string) Range {
	rg := Range{Min: r.num(minTag, 0), Max: r.num(maxTag, 0)}
	if rg.Min > rg.Max {
		rg.Inverted = true
		r.warn("range %s/%s inverted (%v > %v)", minTag, maxTag, rg.Min, rg.Max)
	}
	return rg
}

// FieldValue 讀取可修改欄位目前的值，數值欄位回傳 float64，文字欄位回傳 string
func FieldValue(rec Record, field string) (interface{}, bool) {
	switch r := rec.(type) {
	case *Hop:
		switch field {
		case "price":
			return r.Price, true
		case "inventory":
			return r.Inventory, true
		case "alpha":
			return r.Alpha, true
		case "beta":
			return r.Beta, true
		case "origin":
			return r.Origin, true
		case "notes":
			return r.Notes, true
		}
	case *Grain:
		switch field {
		case "price":
			return r.Price, true
		case "inventory":
			return r.Inventory, true
		case "color":
			return r.Color, true
		case "origin":
			return r.Origin, true
		case "supplier":
			return r.Supplier, true
		case "notes":
			return r.Notes, true
		}
	case *Yeast:
		switch field {
		case "price":
			return r.Price, true
		case "inventory":
			return r.Inventory, true
		case "lab":
			return r.Lab, true
		case "product_id":
			return r.ProductID, true
		case "best_for":
			return r.BestFor, true
		case "notes":
			return r.Notes, true
		}
	case *Misc:
		switch field {
		case "price":
			return r.Price, true
		case "inventory":
			return r.Inventory, true
		case "notes":
			return r.Notes, true
		}
	case *Water:
		switch field {
		case "ph":
			return r.PH, true
		case "notes":
			return r.Notes, true
		}
	case *Style:
		switch field {
		case "description":
			return r.Description, true
		case "profile":
			return r.Profile, true
		case "examples":
			return r.Examples, true
		}
	case *Equipment:
		if field == "notes" {
			return r.Notes, true
		}
	case *Recipe:
		switch field {
		case "brewer":
			return r.Brewer, true
		case "notes":
			return r.Notes, true
		}
	}
	return nil, false
}
