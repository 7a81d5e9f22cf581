package recipe

import (
	"encoding/xml"
	"strings"

	"beersmith-bridge/internal/core/catalog"
	"beersmith-bridge/internal/core/match"
	"beersmith-bridge/internal/core/record"
	"beersmith-bridge/internal/core/units"
	"beersmith-bridge/internal/pkg/common"
)

// BeerXML 1.0 的文件結構，只含匯出需要的欄位
type beerXML struct {
	XMLName xml.Name      `xml:"RECIPES"`
	Recipes []beerXMLItem `xml:"RECIPE"`
}

type beerXMLItem struct {
	Name         string           `xml:"NAME"`
	Version      int              `xml:"VERSION"`
	Type         string           `xml:"TYPE"`
	Brewer       string           `xml:"BREWER"`
	BatchSize    float64          `xml:"BATCH_SIZE"`
	BoilSize     float64          `xml:"BOIL_SIZE"`
	BoilTime     float64          `xml:"BOIL_TIME"`
	Efficiency   float64          `xml:"EFFICIENCY"`
	Notes        string           `xml:"NOTES,omitempty"`
	Hops         []beerXMLHop     `xml:"HOPS>HOP"`
	Fermentables []beerXMLFerm    `xml:"FERMENTABLES>FERMENTABLE"`
	Yeasts       []beerXMLYeast   `xml:"YEASTS>YEAST"`
	Miscs        []beerXMLMisc    `xml:"MISCS>MISC"`
	Style        *beerXMLStyle    `xml:"STYLE,omitempty"`
	Equipment    *beerXMLEquipKit `xml:"EQUIPMENT,omitempty"`
	Mash         *beerXMLMash     `xml:"MASH,omitempty"`
}

type beerXMLHop struct {
	Name    string  `xml:"NAME"`
	Version int     `xml:"VERSION"`
	Alpha   float64 `xml:"ALPHA"`
	Amount  float64 `xml:"AMOUNT"` // kg
	Use     string  `xml:"USE"`
	Time    float64 `xml:"TIME"` // 分鐘
	Form    string  `xml:"FORM,omitempty"`
}

type beerXMLFerm struct {
	Name    string  `xml:"NAME"`
	Version int     `xml:"VERSION"`
	Type    string  `xml:"TYPE"`
	Amount  float64 `xml:"AMOUNT"` // kg
	Yield   float64 `xml:"YIELD"`
	Color   float64 `xml:"COLOR"`
}

type beerXMLYeast struct {
	Name        string  `xml:"NAME"`
	Version     int     `xml:"VERSION"`
	Type        string  `xml:"TYPE"`
	Form        string  `xml:"FORM"`
	Laboratory  string  `xml:"LABORATORY,omitempty"`
	ProductID   string  `xml:"PRODUCT_ID,omitempty"`
	MinTemp     float64 `xml:"MIN_TEMPERATURE,omitempty"` // °C
	MaxTemp     float64 `xml:"MAX_TEMPERATURE,omitempty"`
	Attenuation float64 `xml:"ATTENUATION,omitempty"`
}

type beerXMLMisc struct {
	Name    string  `xml:"NAME"`
	Version int     `xml:"VERSION"`
	Type    string  `xml:"TYPE"`
	Use     string  `xml:"USE"`
	Time    float64 `xml:"TIME"`
	Amount  float64 `xml:"AMOUNT"` // kg
}

type beerXMLStyle struct {
	Name       string  `xml:"NAME"`
	Version    int     `xml:"VERSION"`
	Category   string  `xml:"CATEGORY"`
	Number     string  `xml:"CATEGORY_NUMBER,omitempty"`
	Letter     string  `xml:"STYLE_LETTER,omitempty"`
	StyleGuide string  `xml:"STYLE_GUIDE"`
	Type       string  `xml:"TYPE"`
	OGMin      float64 `xml:"OG_MIN"`
	OGMax      float64 `xml:"OG_MAX"`
	FGMin      float64 `xml:"FG_MIN"`
	FGMax      float64 `xml:"FG_MAX"`
	IBUMin     float64 `xml:"IBU_MIN"`
	IBUMax     float64 `xml:"IBU_MAX"`
	ColorMin   float64 `xml:"COLOR_MIN"`
	ColorMax   float64 `xml:"COLOR_MAX"`
}

type beerXMLEquipKit struct {
	Name      string  `xml:"NAME"`
	Version   int     `xml:"VERSION"`
	BatchSize float64 `xml:"BATCH_SIZE"`
	BoilSize  float64 `xml:"BOIL_SIZE"`
	BoilTime  float64 `xml:"BOIL_TIME,omitempty"`
}

type beerXMLMash struct {
	Name       string            `xml:"NAME"`
	Version    int               `xml:"VERSION"`
	GrainTemp  float64           `xml:"GRAIN_TEMP"` // °C
	SpargeTemp float64           `xml:"SPARGE_TEMP,omitempty"`
	PH         float64           `xml:"PH,omitempty"`
	Steps      []beerXMLMashStep `xml:"MASH_STEPS>MASH_STEP"`
}

type beerXMLMashStep struct {
	Name         string  `xml:"NAME"`
	Version      int     `xml:"VERSION"`
	Type         string  `xml:"TYPE"`
	InfuseAmount float64 `xml:"INFUSE_AMOUNT,omitempty"` // 公升
	StepTemp     float64 `xml:"STEP_TEMP"`
	StepTime     float64 `xml:"STEP_TIME"`
	RampTime     float64 `xml:"RAMP_TIME,omitempty"`
}

// boilFactor 沒有煮沸體積時以批次體積推估
const boilFactor = 1.2

// BeerXML 將食譜匯出成 BeerXML 1.0
func (s *RecipeService) BeerXML(key string) ([]byte, []match.Result, error) {
	snap := s.snapshot()
	rec, suggestions, err := snap.Lookup(record.KindRecipe, key, s.matcher)
	if err != nil {
		return nil, suggestions, err
	}
	out, err := ExportBeerXML(snap, rec.(*record.Recipe))
	return out, nil, err
}

// ExportBeerXML 產生 BeerXML 文件；重量換成公斤，體積換成公升
func ExportBeerXML(snap *catalog.Snapshot, r *record.Recipe) ([]byte, error) {
	batch := units.FluidOuncesToLiters(r.BatchVolume())
	boil := batch * boilFactor
	efficiency := record.DefaultEfficiency
	if eq := r.EquipmentCopy; eq != nil {
		efficiency = eq.Efficiency
		if eq.BoilVolume > 0 {
			boil = units.FluidOuncesToLiters(eq.BoilVolume)
		}
	}

	item := beerXMLItem{
		Name:       r.Name,
		Version:    1,
		Type:       "All Grain",
		Brewer:     r.Brewer,
		BatchSize:  common.Round(batch, 2),
		BoilSize:   common.Round(boil, 2),
		BoilTime:   r.BoilTime,
		Efficiency: common.Round(efficiency*100, 1),
		Notes:      r.Notes,
	}

	for _, h := range r.Hops {
		t := h.BoilTime
		if h.Use == record.HopUseDryHop {
			t = h.DryHopDays * 24 * 60
		}
		item.Hops = append(item.Hops, beerXMLHop{
			Name:    h.Ref.Name,
			Version: 1,
			Alpha:   h.Alpha,
			Amount:  ozToKg(h.AmountOz),
			Use:     hopUse(h.Use),
			Time:    t,
			Form:    title(string(h.Form)),
		})
	}
	for _, g := range r.Grains {
		item.Fermentables = append(item.Fermentables, beerXMLFerm{
			Name:    g.Ref.Name,
			Version: 1,
			Type:    fermentableType(g.Type),
			Amount:  ozToKg(g.AmountOz),
			Yield:   g.Yield,
			Color:   g.Color,
		})
	}
	for _, y := range r.Yeasts {
		xy := beerXMLYeast{
			Name:        y.Ref.Name,
			Version:     1,
			Type:        yeastType(y.Type),
			Form:        yeastForm(y.Form),
			Laboratory:  y.Lab,
			ProductID:   y.ProductID,
			Attenuation: y.Attenuation,
		}
		if lib := catalog.Resolve[record.Yeast](snap, y.Ref); lib.OK {
			if xy.Laboratory == "" {
				xy.Laboratory = lib.Record.Lab
			}
			if xy.ProductID == "" {
				xy.ProductID = lib.Record.ProductID
			}
			xy.MinTemp = fahrenheitToCelsius(lib.Record.MinTemp)
			xy.MaxTemp = fahrenheitToCelsius(lib.Record.MaxTemp)
		}
		item.Yeasts = append(item.Yeasts, xy)
	}
	for _, m := range r.Miscs {
		mt := "Other"
		if lib := catalog.Resolve[record.Misc](snap, m.Ref); lib.OK {
			mt = miscType(lib.Record.Type)
		}
		item.Miscs = append(item.Miscs, beerXMLMisc{
			Name:    m.Ref.Name,
			Version: 1,
			Type:    mt,
			Use:     miscUse(m.Use),
			Time:    m.Time,
			Amount:  ozToKg(m.Amount),
		})
	}

	if st, _ := styleFor(snap, r); st != nil {
		item.Style = &beerXMLStyle{
			Name:       st.Name,
			Version:    1,
			Category:   st.Category,
			Number:     st.Number,
			Letter:     st.Letter,
			StyleGuide: st.Guide,
			Type:       "Ale",
			OGMin:      st.OG.Min,
			OGMax:      st.OG.Max,
			FGMin:      st.FG.Min,
			FGMax:      st.FG.Max,
			IBUMin:     st.IBU.Min,
			IBUMax:     st.IBU.Max,
			ColorMin:   st.Color.Min,
			ColorMax:   st.Color.Max,
		}
	}
	if eq := r.EquipmentCopy; eq != nil {
		item.Equipment = &beerXMLEquipKit{
			Name:      eq.Name,
			Version:   1,
			BatchSize: item.BatchSize,
			BoilSize:  item.BoilSize,
			BoilTime:  eq.BoilTime,
		}
	}

	if m := mashFor(snap, r); m != nil {
		item.Mash = exportMash(m)
	}

	body, err := xml.MarshalIndent(beerXML{Recipes: []beerXMLItem{item}}, "", "  ")
	if err != nil {
		return nil, common.Wrapf(common.ErrInternalError, "encode beerxml: %v", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// mashFor 食譜內嵌的糖化設定有步驟時優先使用，否則查資料庫
func mashFor(snap *catalog.Snapshot, r *record.Recipe) *record.Mash {
	if r.MashCopy != nil && len(r.MashCopy.Steps) > 0 {
		return r.MashCopy
	}
	if r.Mash.Name != "" {
		if lib := catalog.Resolve[record.Mash](snap, r.Mash); lib.OK {
			return lib.Record
		}
	}
	return r.MashCopy
}

func exportMash(m *record.Mash) *beerXMLMash {
	out := &beerXMLMash{
		Name:       m.Name,
		Version:    1,
		GrainTemp:  fahrenheitToCelsius(m.GrainTemp),
		SpargeTemp: fahrenheitToCelsius(m.SpargeTemp),
		PH:         m.PH,
	}
	for _, st := range m.Steps {
		out.Steps = append(out.Steps, beerXMLMashStep{
			Name:         st.Name,
			Version:      1,
			Type:         mashStepType(st.Type),
			InfuseAmount: common.Round(units.FluidOuncesToLiters(st.InfusionFloz), 2),
			StepTemp:     fahrenheitToCelsius(st.Temp),
			StepTime:     st.Time,
			RampTime:     st.RiseTime,
		})
	}
	return out
}

func mashStepType(t record.MashStepType) string {
	if t == record.MashStepType(record.Unknown) {
		return "Infusion"
	}
	return title(string(t))
}

func ozToKg(oz float64) float64 {
	kg, _ := units.ConvertQuantity(oz, units.Ounce, units.Kilogram)
	return common.Round(kg, 4)
}

func fahrenheitToCelsius(f float64) float64 {
	if f == 0 {
		return 0
	}
	return common.Round((f-32)*5/9, 1)
}

func title(s string) string {
	if s == "" || s == record.Unknown {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func hopUse(u record.HopUse) string {
	switch u {
	case record.HopUseDryHop:
		return "Dry Hop"
	case record.HopUseMash:
		return "Mash"
	case record.HopUseFirstWort:
		return "First Wort"
	case record.HopUseWhirlpool:
		return "Aroma"
	default:
		return "Boil"
	}
}

func fermentableType(t record.GrainType) string {
	switch t {
	case record.GrainExtract:
		return "Extract"
	case record.GrainDryExtract:
		return "Dry Extract"
	case record.GrainSugar, record.GrainHoney, record.GrainJuice:
		return "Sugar"
	case record.GrainAdjunct, record.GrainFruit:
		return "Adjunct"
	default:
		return "Grain"
	}
}

func yeastType(t record.YeastType) string {
	switch t {
	case record.YeastLager, record.YeastWine, record.YeastChampagne, record.YeastWheat:
		return title(string(t))
	default:
		return "Ale"
	}
}

func yeastForm(f record.YeastForm) string {
	switch f {
	case record.YeastDry, record.YeastSlant, record.YeastCulture:
		return title(string(f))
	default:
		return "Liquid"
	}
}

func miscType(t record.MiscType) string {
	switch t {
	case record.MiscSpice, record.MiscFining, record.MiscHerb, record.MiscFlavor:
		return title(string(t))
	case record.MiscWaterAgent:
		return "Water Agent"
	default:
		return "Other"
	}
}

func miscUse(u record.MiscUse) string {
	switch u {
	case record.MiscUseMash, record.MiscUsePrimary, record.MiscUseSecondary, record.MiscUseBottling:
		return title(string(u))
	default:
		return "Boil"
	}
}
