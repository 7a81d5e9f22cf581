package recipe

import (
	"beersmith-bridge/internal/core/record"
	"beersmith-bridge/internal/pkg/common"
)

// 水質風味傾向
const (
	WaterVeryHoppy     = "Very Hoppy/Bitter"
	WaterBalancedHoppy = "Balanced-Hoppy"
	WaterBalancedMalty = "Balanced-Malty"
	WaterVeryMalty     = "Very Malty/Full"
	WaterNoChloride    = "Hoppy (no chloride)"
)

// WaterCharacter 依硫酸根與氯離子的比例判斷風味傾向；沒有氯離子時比例為 0
func WaterCharacter(w *record.Water) (string, float64) {
	if w.Chloride <= 0 {
		return WaterNoChloride, 0
	}
	ratio := w.Sulfate / w.Chloride
	switch {
	case ratio > 2:
		return WaterVeryHoppy, common.Round(ratio, 2)
	case ratio > 1:
		return WaterBalancedHoppy, common.Round(ratio, 2)
	case ratio > 0.5:
		return WaterBalancedMalty, common.Round(ratio, 2)
	default:
		return WaterVeryMalty, common.Round(ratio, 2)
	}
}
