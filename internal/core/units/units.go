package units

import (
	"strings"

	"beersmith-bridge/internal/pkg/common"
)

// Unit 計量單位
type Unit string

// Dimension 單位所屬的量綱
type Dimension string

const (
	Mass   Dimension = "mass"
	Volume Dimension = "volume"
	Count  Dimension = "count"
)

// 支援的單位
const (
	Ounce      Unit = "oz"
	Pound      Unit = "lb"
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
	FluidOunce Unit = "floz"
	Gallon     Unit = "gal"
	Quart      Unit = "qt"
	Liter      Unit = "l"
	Milliliter Unit = "ml"
	Package    Unit = "pkg"
)

type factor struct {
	dim Dimension
	// base 為一個此單位等於多少基準單位（質量：oz，體積：fl oz，數量：pkg）
	base float64
}

// factors 換算表，質量與體積分別以盎司與液量盎司為基準
var factors = map[Unit]factor{
	Ounce:      {Mass, 1},
	Pound:      {Mass, 16},
	Gram:       {Mass, 1 / 28.349523125},
	Kilogram:   {Mass, 35.27396194958041},
	FluidOunce: {Volume, 1},
	Gallon:     {Volume, 128},
	Quart:      {Volume, 32},
	Liter:      {Volume, 33.814022701843},
	Milliliter: {Volume, 0.033814022701843},
	Package:    {Count, 1},
}

// aliases 使用者輸入的別名
var aliases = map[string]Unit{
	"oz": Ounce, "ounce": Ounce, "ounces": Ounce,
	"lb": Pound, "lbs": Pound, "pound": Pound, "pounds": Pound,
	"g": Gram, "gram": Gram, "grams": Gram,
	"kg": Kilogram, "kilo": Kilogram, "kilogram": Kilogram, "kilograms": Kilogram,
	"floz": FluidOunce, "fl oz": FluidOunce, "fl_oz": FluidOunce, "fl.oz": FluidOunce,
	"gal": Gallon, "gallon": Gallon, "gallons": Gallon,
	"qt": Quart, "quart": Quart, "quarts": Quart,
	"l": Liter, "liter": Liter, "liters": Liter, "litre": Liter, "litres": Liter,
	"ml": Milliliter, "milliliter": Milliliter, "milliliters": Milliliter,
	"pkg": Package, "pack": Package, "package": Package, "packages": Package, "each": Package,
}

// Parse 解析單位字串
func Parse(s string) (Unit, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if u, ok := aliases[key]; ok {
		return u, nil
	}
	return "", common.Wrapf(common.ErrUnsupportedUnit, "unit %q", s)
}

// DimensionOf 單位的量綱
func DimensionOf(u Unit) (Dimension, bool) {
	f, ok := factors[u]
	return f.dim, ok
}

// QuantityFactor 一個 from 單位等於多少個 to 單位
func QuantityFactor(from, to Unit) (float64, error) {
	ff, ok := factors[from]
	if !ok {
		return 0, common.Wrapf(common.ErrUnsupportedUnit, "unit %q", from)
	}
	ft, ok := factors[to]
	if !ok {
		return 0, common.Wrapf(common.ErrUnsupportedUnit, "unit %q", to)
	}
	if ff.dim != ft.dim {
		return 0, common.Wrapf(common.ErrUnsupportedUnit, "cannot convert %s (%s) to %s (%s)", from, ff.dim, to, ft.dim)
	}
	return ff.base / ft.base, nil
}

// ConvertQuantity 數量換算，例如 2 lb -> 32 oz
func ConvertQuantity(v float64, from, to Unit) (float64, error) {
	f, err := QuantityFactor(from, to)
	if err != nil {
		return 0, err
	}
	return v * f, nil
}

// ConvertPrice 每單位價格換算，與數量換算互為倒數
//
// 例如每公斤 3.75 -> 每盎司 3.75 / 35.274
func ConvertPrice(perFrom float64, from, to Unit) (float64, error) {
	f, err := QuantityFactor(from, to)
	if err != nil {
		return 0, err
	}
	return perFrom / f, nil
}

// FluidOuncesToLiters BeerSmith 體積（液量盎司）轉公升
func FluidOuncesToLiters(floz float64) float64 {
	return floz / factors[Liter].base
}
