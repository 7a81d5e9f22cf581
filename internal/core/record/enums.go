package record

import (
	"strconv"
	"strings"
)

// Unknown 所有列舉共用的未知值
const Unknown = "unknown"

// HopType 酒花用途分類
type HopType string

const (
	HopBittering HopType = "bittering"
	HopAroma     HopType = "aroma"
	HopBoth      HopType = "both"
)

// HopForm 酒花形態
type HopForm string

const (
	HopPellet HopForm = "pellet"
	HopPlug   HopForm = "plug"
	HopLeaf   HopForm = "leaf"
)

// HopUse 酒花投放方式
type HopUse string

const (
	HopUseBoil      HopUse = "boil"
	HopUseDryHop    HopUse = "dry_hop"
	HopUseMash      HopUse = "mash"
	HopUseFirstWort HopUse = "first_wort"
	HopUseWhirlpool HopUse = "whirlpool"
)

// GrainType 發酵物分類
type GrainType string

const (
	GrainGrain      GrainType = "grain"
	GrainExtract    GrainType = "extract"
	GrainSugar      GrainType = "sugar"
	GrainAdjunct    GrainType = "adjunct"
	GrainDryExtract GrainType = "dry_extract"
	GrainFruit      GrainType = "fruit"
	GrainJuice      GrainType = "juice"
	GrainHoney      GrainType = "honey"
)

// YeastType 酵母分類
type YeastType string

const (
	YeastAle       YeastType = "ale"
	YeastLager     YeastType = "lager"
	YeastWine      YeastType = "wine"
	YeastChampagne YeastType = "champagne"
	YeastWheat     YeastType = "wheat"
)

// YeastForm 酵母形態
type YeastForm string

const (
	YeastLiquid  YeastForm = "liquid"
	YeastDry     YeastForm = "dry"
	YeastSlant   YeastForm = "slant"
	YeastCulture YeastForm = "culture"
)

// Flocculation 凝絮度
type Flocculation string

const (
	FlocLow      Flocculation = "low"
	FlocMedium   Flocculation = "medium"
	FlocHigh     Flocculation = "high"
	FlocVeryHigh Flocculation = "very_high"
)

// MiscType 雜項分類
type MiscType string

const (
	MiscSpice      MiscType = "spice"
	MiscFining     MiscType = "fining"
	MiscHerb       MiscType = "herb"
	MiscFlavor     MiscType = "flavor"
	MiscOther      MiscType = "other"
	MiscWaterAgent MiscType = "water_agent"
)

// MiscUse 雜項使用時機
type MiscUse string

const (
	MiscUseBoil      MiscUse = "boil"
	MiscUseMash      MiscUse = "mash"
	MiscUsePrimary   MiscUse = "primary"
	MiscUseSecondary MiscUse = "secondary"
	MiscUseBottling  MiscUse = "bottling"
)

// MashStepType 糖化步驟加熱方式
type MashStepType string

const (
	MashInfusion    MashStepType = "infusion"
	MashDecoction   MashStepType = "decoction"
	MashTemperature MashStepType = "temperature"
)

// 代碼表：索引即 BeerSmith 儲存的整數代碼
var (
	hopTypeCodes   = []HopType{HopBittering, HopAroma, HopBoth}
	hopFormCodes   = []HopForm{HopPellet, HopPlug, HopLeaf}
	hopUseCodes    = []HopUse{HopUseBoil, HopUseDryHop, HopUseMash, HopUseFirstWort, HopUseWhirlpool}
	grainTypeCodes = []GrainType{GrainGrain, GrainExtract, GrainSugar, GrainAdjunct, GrainDryExtract, GrainFruit, GrainJuice, GrainHoney}
	yeastTypeCodes = []YeastType{YeastAle, YeastLager, YeastWine, YeastChampagne, YeastWheat}
	yeastFormCodes = []YeastForm{YeastLiquid, YeastDry, YeastSlant, YeastCulture}
	flocCodes      = []Flocculation{FlocLow, FlocMedium, FlocHigh, FlocVeryHigh}
	miscTypeCodes  = []MiscType{MiscSpice, MiscFining, MiscHerb, MiscFlavor, MiscOther, MiscWaterAgent}
	miscUseCodes   = []MiscUse{MiscUseBoil, MiscUseMash, MiscUsePrimary, MiscUseSecondary, MiscUseBottling}
	mashStepCodes  = []MashStepType{MashInfusion, MashDecoction, MashTemperature}
)

// decodeCode 將整數代碼轉為列舉值，超出範圍時回傳 Unknown
func decodeCode[T ~string](codes []T, code int, ok bool) T {
	if !ok || code < 0 || code >= len(codes) {
		return T(Unknown)
	}
	return codes[code]
}

// ParseHopType 接受名稱或代碼
func ParseHopType(s string) (HopType, bool) {
	return parseEnum(hopTypeCodes, s)
}

// ParseGrainType 接受名稱或代碼
func ParseGrainType(s string) (GrainType, bool) {
	return parseEnum(grainTypeCodes, s)
}

func parseEnum[T ~string](codes []T, s string) (T, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, c := range codes {
		if string(c) == s || strconv.Itoa(i) == s {
			return c, true
		}
	}
	return T(Unknown), false
}
