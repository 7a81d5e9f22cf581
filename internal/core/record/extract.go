package record

import (
	"beersmith-bridge/internal/core/bsmx"
)

// 缺少欄位時採用的預設值
const (
	DefaultBoilTime       = 60.0
	DefaultEfficiency     = 0.72
	DefaultHopUtilization = 1.0
)

// Items 文件中所有屬於此種類的資料項節點：標籤相符且有直屬名稱欄位
func Items(doc *bsmx.Document, trait Trait) []*bsmx.Node {
	var out []*bsmx.Node
	for _, n := range doc.Find(trait.ItemTag) {
		if _, ok := n.ChildText(trait.NameField); ok {
			out = append(out, n)
		}
	}
	return out
}

// Extract 從文件取出指定種類的資料；個別欄位錯誤只產生警告
func Extract(kind Kind, doc *bsmx.Document) ([]Record, []bsmx.Warning) {
	if kind == KindRecipe {
		recipes, warns := ExtractRecipes(doc, "/")
		out := make([]Record, len(recipes))
		for i, r := range recipes {
			out[i] = r
		}
		return out, warns
	}

	trait := Traits(kind)
	var (
		out   []Record
		warns []bsmx.Warning
	)
	for _, n := range Items(doc, trait) {
		rd := newReader(n, doc.Name, &warns)
		base, ok := readBase(rd, trait.NameField)
		if !ok {
			continue
		}
		rd.label = base.Name

		var rec Record
		switch kind {
		case KindHop:
			rec = readHop(rd, base)
		case KindGrain:
			rec = readGrain(rd, base)
		case KindYeast:
			rec = readYeast(rd, base)
		case KindMisc:
			rec = readMisc(rd, base)
		case KindWater:
			rec = readWater(rd, base)
		case KindStyle:
			rec = readStyle(rd, base)
		case KindEquipment:
			rec = readEquipment(rd, base)
		case KindMash:
			rec = readMash(rd, base)
		default:
			continue
		}
		out = append(out, rec)
	}
	return out, warns
}

// readBase 讀取識別欄位，名稱為空時丟棄並記錄警告
func readBase(rd reader, nameField string) (Base, bool) {
	name := rd.text(nameField)
	if name == "" {
		rd.warn("%s empty, record dropped", nameField)
		return Base{}, false
	}
	return Base{
		ID:     rd.text(IDField),
		Name:   name,
		Source: rd.src,
	}, true
}

func readHop(rd reader, base Base) *Hop {
	base.Notes = rd.text("F_H_NOTES")
	typ, hasType := rd.code("F_H_TYPE")
	form, hasForm := rd.code("F_H_FORM")
	return &Hop{
		Base:      base,
		Alpha:     rd.num("F_H_ALPHA", 0),
		Beta:      rd.num("F_H_BETA", 0),
		HSI:       rd.num("F_H_HSI", 0),
		Origin:    rd.text("F_H_ORIGIN"),
		Type:      decodeCode(hopTypeCodes, typ, hasType),
		Form:      decodeCode(hopFormCodes, form, hasForm),
		Price:     rd.nonNegative("F_H_PRICE"),
		Inventory: rd.nonNegative("F_H_INVENTORY"),
	}
}

func readGrain(rd reader, base Base) *Grain {
	base.Notes = rd.text("F_G_NOTES")
	typ, hasType := rd.code("F_G_TYPE")
	return &Grain{
		Base:           base,
		Color:          rd.num("F_G_COLOR", 0),
		Yield:          rd.num("F_G_YIELD", 0),
		Moisture:       rd.num("F_G_MOISTURE", 0),
		Protein:        rd.num("F_G_PROTEIN", 0),
		DiastaticPower: rd.num("F_G_DIASTATIC_POWER", 0),
		MaxInBatch:     rd.num("F_G_MAX_IN_BATCH", 100),
		Supplier:       rd.text("F_G_SUPPLIER"),
		Origin:         rd.text("F_G_ORIGIN"),
		Type:           decodeCode(grainTypeCodes, typ, hasType),
		Price:          rd.nonNegative("F_G_PRICE"),
		Inventory:      rd.nonNegative("F_G_INVENTORY"),
	}
}

func readYeast(rd reader, base Base) *Yeast {
	base.Notes = rd.text("F_Y_NOTES")
	typ, hasType := rd.code("F_Y_TYPE")
	form, hasForm := rd.code("F_Y_FORM")
	floc, hasFloc := rd.code("F_Y_FLOCCULATION")
	return &Yeast{
		Base:           base,
		Lab:            rd.text("F_Y_LAB"),
		ProductID:      rd.text("F_Y_PRODUCT_ID"),
		Type:           decodeCode(yeastTypeCodes, typ, hasType),
		Form:           decodeCode(yeastFormCodes, form, hasForm),
		Flocculation:   decodeCode(flocCodes, floc, hasFloc),
		MinAttenuation: rd.num("F_Y_MIN_ATTENUATION", 0),
		MaxAttenuation: rd.num("F_Y_MAX_ATTENUATION", 0),
		MinTemp:        rd.num("F_Y_MIN_TEMP", 0),
		MaxTemp:        rd.num("F_Y_MAX_TEMP", 0),
		Tolerance:      rd.num("F_Y_TOLERANCE", 0),
		BestFor:        rd.text("F_Y_BEST_FOR"),
		Price:          rd.nonNegative("F_Y_PRICE"),
		Inventory:      rd.nonNegative("F_Y_INVENTORY"),
	}
}

func readMisc(rd reader, base Base) *Misc {
	base.Notes = rd.text("F_M_NOTES")
	typ, hasType := rd.code("F_M_TYPE")
	use, hasUse := rd.code("F_M_USE")
	return &Misc{
		Base:      base,
		Type:      decodeCode(miscTypeCodes, typ, hasType),
		Use:       decodeCode(miscUseCodes, use, hasUse),
		UseFor:    rd.text("F_M_USE_FOR"),
		Time:      rd.num("F_M_TIME", 0),
		Price:     rd.nonNegative("F_M_PRICE"),
		Inventory: rd.nonNegative("F_M_INVENTORY"),
	}
}

func readWater(rd reader, base Base) *Water {
	base.Notes = rd.text("F_W_NOTES")
	return &Water{
		Base:        base,
		Calcium:     rd.num("F_W_CALCIUM", 0),
		Magnesium:   rd.num("F_W_MAGNESIUM", 0),
		Sodium:      rd.num("F_W_SODIUM", 0),
		Sulfate:     rd.num("F_W_SULFATE", 0),
		Chloride:    rd.num("F_W_CHLORIDE", 0),
		Bicarbonate: rd.num("F_W_BICARB", 0),
		PH:          rd.num("F_W_PH", 7),
	}
}

func readStyle(rd reader, base Base) *Style {
	base.Notes = rd.text("F_S_NOTES")
	return &Style{
		Base:        base,
		Category:    rd.text("F_S_CATEGORY"),
		Guide:       rd.text("F_S_GUIDE"),
		Number:      rd.text("F_S_NUMBER"),
		Letter:      rd.text("F_S_LETTER"),
		OG:          rd.rangeOf("F_S_MIN_OG", "F_S_MAX_OG"),
		FG:          rd.rangeOf("F_S_MIN_FG", "F_S_MAX_FG"),
		IBU:         rd.rangeOf("F_S_MIN_IBU", "F_S_MAX_IBU"),
		Color:       rd.rangeOf("F_S_MIN_COLOR", "F_S_MAX_COLOR"),
		ABV:         rd.rangeOf("F_S_MIN_ABV", "F_S_MAX_ABV"),
		Carb:        rd.rangeOf("F_S_MIN_CARB", "F_S_MAX_CARB"),
		Description: rd.text("F_S_DESCRIPTION"),
		Profile:     rd.text("F_S_PROFILE"),
		Examples:    rd.text("F_S_EXAMPLES"),
	}
}

func readEquipment(rd reader, base Base) *Equipment {
	base.Notes = rd.text("F_E_NOTES")
	return &Equipment{
		Base:           base,
		BatchVolume:    rd.num("F_E_BATCH_VOL", 0),
		BoilVolume:     rd.num("F_E_BOIL_VOL", 0),
		BoilTime:       rd.num("F_E_BOIL_TIME", DefaultBoilTime),
		BoilOff:        rd.num("F_E_BOIL_OFF", 0),
		TrubLoss:       rd.num("F_E_TRUB_LOSS", 0),
		FermenterLoss:  rd.num("F_E_FERMENTER_LOSS", 0),
		Efficiency:     rd.fraction("F_E_EFFICIENCY", DefaultEfficiency),
		HopUtilization: rd.fraction("F_E_HOP_UTIL", DefaultHopUtilization),
	}
}

// readMash 糖化設定與 steps/Data 下的步驟；沒有名稱的步驟保留並標記
func readMash(rd reader, base Base) *Mash {
	base.Notes = rd.text("F_MH_NOTES")
	m := &Mash{
		Base:       base,
		GrainTemp:  rd.num("F_MH_GRAIN_TEMP", 0),
		TunTemp:    rd.num("F_MH_TUN_TEMP", 0),
		SpargeTemp: rd.num("F_MH_SPARGE_TEMP", 0),
		PH:         rd.num("F_MH_PH", 0),
		Steps:      []MashStep{},
	}

	steps := rd.node.Child("steps")
	if steps == nil {
		return m
	}
	data := steps.Child("Data")
	if data == nil {
		return m
	}
	for _, n := range data.Children {
		if n.Tag != "MashStep" {
			continue
		}
		sr := reader{node: n, src: rd.src, label: rd.label, warns: rd.warns}
		name := sr.text("F_MS_NAME")
		if name == "" {
			sr.warn("mash step %d has no name", len(m.Steps)+1)
		}
		typ, hasType := sr.code("F_MS_TYPE")
		m.Steps = append(m.Steps, MashStep{
			Name:         name,
			Type:         decodeCode(mashStepCodes, typ, hasType),
			Temp:         sr.num("F_MS_STEP_TEMP", 0),
			Time:         sr.nonNegative("F_MS_STEP_TIME"),
			RiseTime:     sr.nonNegative("F_MS_RISE_TIME"),
			InfusionFloz: sr.nonNegative("F_MS_INFUSION"),
			InfusionTemp: sr.num("F_MS_INFUSION_TEMP", 0),
		})
	}
	return m
}
