package record

// Record 封閉的資料型別集合，只有本套件的型別可以實作
type Record interface {
	Kind() Kind
	Meta() *Base
	sealed()
}

// Base 所有資料共用的識別欄位
type Base struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Notes  string `json:"notes,omitempty"`
	Source string `json:"source"` // 來源檔名
}

// Meta 取得共用欄位
func (b *Base) Meta() *Base { return b }

// Hop 酒花，價格為每盎司
type Hop struct {
	Base
	Alpha     float64 `json:"alpha"`
	Beta      float64 `json:"beta"`
	HSI       float64 `json:"hsi"`
	Origin    string  `json:"origin,omitempty"`
	Type      HopType `json:"type"`
	Form      HopForm `json:"form"`
	Price     float64 `json:"price"`
	Inventory float64 `json:"inventory"`
}

// Grain 發酵物，價格為每盎司；顏色以 SRM 表示
type Grain struct {
	Base
	Color          float64   `json:"color"`
	Yield          float64   `json:"yield"`
	Moisture       float64   `json:"moisture"`
	Protein        float64   `json:"protein"`
	DiastaticPower float64   `json:"diastatic_power"`
	MaxInBatch     float64   `json:"max_in_batch"`
	Supplier       string    `json:"supplier,omitempty"`
	Origin         string    `json:"origin,omitempty"`
	Type           GrainType `json:"type"`
	Price          float64   `json:"price"`
	Inventory      float64   `json:"inventory"`
}

// Yeast 酵母，價格為每包
type Yeast struct {
	Base
	Lab            string       `json:"lab,omitempty"`
	ProductID      string       `json:"product_id,omitempty"`
	Type           YeastType    `json:"type"`
	Form           YeastForm    `json:"form"`
	Flocculation   Flocculation `json:"flocculation"`
	MinAttenuation float64      `json:"min_attenuation"`
	MaxAttenuation float64      `json:"max_attenuation"`
	MinTemp        float64      `json:"min_temp"`
	MaxTemp        float64      `json:"max_temp"`
	Tolerance      float64      `json:"tolerance"`
	BestFor        string       `json:"best_for,omitempty"`
	Price          float64      `json:"price"`
	Inventory      float64      `json:"inventory"`
}

// Misc 雜項原料，價格為每盎司
type Misc struct {
	Base
	Type      MiscType `json:"type"`
	Use       MiscUse  `json:"use"`
	UseFor    string   `json:"use_for,omitempty"`
	Time      float64  `json:"time"`
	Price     float64  `json:"price"`
	Inventory float64  `json:"inventory"`
}

// Water 水質資料，單位為 ppm
type Water struct {
	Base
	Calcium     float64 `json:"calcium"`
	Magnesium   float64 `json:"magnesium"`
	Sodium      float64 `json:"sodium"`
	Sulfate     float64 `json:"sulfate"`
	Chloride    float64 `json:"chloride"`
	Bicarbonate float64 `json:"bicarbonate"`
	PH          float64 `json:"ph"`
}

// Range 成對的上下限
type Range struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Inverted bool    `json:"inverted,omitempty"` // 來源的 min 大於 max，原樣保留
}

// Contains 值是否落在範圍內
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Defined 範圍是否有設定
func (r Range) Defined() bool {
	return r.Min != 0 || r.Max != 0
}

// Style 啤酒風格
type Style struct {
	Base
	Category    string `json:"category,omitempty"`
	Guide       string `json:"guide,omitempty"`
	Number      string `json:"number,omitempty"`
	Letter      string `json:"letter,omitempty"`
	OG          Range  `json:"og"`
	FG          Range  `json:"fg"`
	IBU         Range  `json:"ibu"`
	Color       Range  `json:"color"`
	ABV         Range  `json:"abv"`
	Carb        Range  `json:"carb"`
	Description string `json:"description,omitempty"`
	Profile     string `json:"profile,omitempty"`
	Examples    string `json:"examples,omitempty"`
}

// Code 風格代碼，例如 21A
func (s *Style) Code() string {
	return s.Number + s.Letter
}

// Equipment 設備設定，體積為液量盎司，比例為 0~1
type Equipment struct {
	Base
	BatchVolume    float64 `json:"batch_volume"`
	BoilVolume     float64 `json:"boil_volume"`
	BoilTime       float64 `json:"boil_time"`
	BoilOff        float64 `json:"boil_off"`
	TrubLoss       float64 `json:"trub_loss"`
	FermenterLoss  float64 `json:"fermenter_loss"`
	Efficiency     float64 `json:"efficiency"`
	HopUtilization float64 `json:"hop_utilization"`
}

// MashStep 糖化步驟；溫度為華氏，時間為分鐘，注水量為液量盎司
type MashStep struct {
	Name         string       `json:"name"`
	Type         MashStepType `json:"type"`
	Temp         float64      `json:"temp"`
	Time         float64      `json:"time"`
	RiseTime     float64      `json:"rise_time"`
	InfusionFloz float64      `json:"infusion_floz"`
	InfusionTemp float64      `json:"infusion_temp"`
}

// Mash 糖化設定，步驟依檔案中的順序
type Mash struct {
	Base
	GrainTemp  float64    `json:"grain_temp"`
	TunTemp    float64    `json:"tun_temp"`
	SpargeTemp float64    `json:"sparge_temp"`
	PH         float64    `json:"ph"`
	Steps      []MashStep `json:"steps"`
}

// TotalTime 所有步驟時間加總（分鐘）
func (m *Mash) TotalTime() float64 {
	total := 0.0
	for _, s := range m.Steps {
		total += s.RiseTime + s.Time
	}
	return total
}

// Ref 對其他資料的弱參照，以名稱為主
type Ref struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// Resolved 弱參照的解析結果；OK 為 false 時 Record 為 nil
type Resolved[T any] struct {
	Ref    Ref  `json:"ref"`
	Record *T   `json:"record,omitempty"`
	OK     bool `json:"resolved"`
}

// GrainLine 食譜中的發酵物
type GrainLine struct {
	Ref      Ref       `json:"ref"`
	AmountOz float64   `json:"amount_oz"`
	Type     GrainType `json:"type"`
	Color    float64   `json:"color"`
	Yield    float64   `json:"yield"`
}

// HopLine 食譜中的酒花
type HopLine struct {
	Ref        Ref     `json:"ref"`
	AmountOz   float64 `json:"amount_oz"`
	Alpha      float64 `json:"alpha"`
	BoilTime   float64 `json:"boil_time"`
	DryHopDays float64 `json:"dry_hop_days"`
	Use        HopUse  `json:"use"`
	Form       HopForm `json:"form"`
}

// YeastLine 食譜中的酵母
type YeastLine struct {
	Ref         Ref       `json:"ref"`
	Amount      float64   `json:"amount"`
	Lab         string    `json:"lab,omitempty"`
	ProductID   string    `json:"product_id,omitempty"`
	Type        YeastType `json:"type"`
	Form        YeastForm `json:"form"`
	Attenuation float64   `json:"attenuation"`
}

// MiscLine 食譜中的雜項
type MiscLine struct {
	Ref    Ref     `json:"ref"`
	Amount float64 `json:"amount"`
	Use    MiscUse `json:"use"`
	Time   float64 `json:"time"`
}

// WaterLine 食譜中的水
type WaterLine struct {
	Ref        Ref     `json:"ref"`
	AmountFloz float64 `json:"amount_floz"`
}

// Recipe 食譜；統計數值直接採用來源值，不重新計算
type Recipe struct {
	Base
	Folder   string  `json:"folder"`
	Brewer   string  `json:"brewer,omitempty"`
	Date     string  `json:"date,omitempty"`
	OG       float64 `json:"og"`
	FG       float64 `json:"fg"`
	IBU      float64 `json:"ibu"`
	Color    float64 `json:"color"`
	ABV      float64 `json:"abv"`
	BoilTime float64 `json:"boil_time"`

	Style         Ref        `json:"style"`
	StyleCopy     *Style     `json:"style_copy,omitempty"` // 食譜內嵌的風格資料
	Equipment     Ref        `json:"equipment"`
	EquipmentCopy *Equipment `json:"equipment_copy,omitempty"`
	Mash          Ref        `json:"mash"`
	MashCopy      *Mash      `json:"mash_copy,omitempty"`

	Grains []GrainLine `json:"grains"`
	Hops   []HopLine   `json:"hops"`
	Yeasts []YeastLine `json:"yeasts"`
	Miscs  []MiscLine  `json:"miscs"`
	Waters []WaterLine `json:"waters"`
}

// BatchVolume 批次體積（液量盎司），取自內嵌設備
func (r *Recipe) BatchVolume() float64 {
	if r.EquipmentCopy == nil {
		return 0
	}
	return r.EquipmentCopy.BatchVolume
}

// RequiredRefs 計算可行性時必須具備的原料：發酵物、酒花、酵母
func (r *Recipe) RequiredRefs() []Ref {
	refs := make([]Ref, 0, len(r.Grains)+len(r.Hops)+len(r.Yeasts))
	for _, g := range r.Grains {
		refs = append(refs, g.Ref)
	}
	for _, h := range r.Hops {
		refs = append(refs, h.Ref)
	}
	for _, y := range r.Yeasts {
		refs = append(refs, y.Ref)
	}
	return refs
}

func (*Hop) Kind() Kind       { return KindHop }
func (*Grain) Kind() Kind     { return KindGrain }
func (*Yeast) Kind() Kind     { return KindYeast }
func (*Misc) Kind() Kind      { return KindMisc }
func (*Water) Kind() Kind     { return KindWater }
func (*Style) Kind() Kind     { return KindStyle }
func (*Equipment) Kind() Kind { return KindEquipment }
func (*Mash) Kind() Kind      { return KindMash }
func (*Recipe) Kind() Kind    { return KindRecipe }

func (*Hop) sealed()       {}
func (*Grain) sealed()     {}
func (*Yeast) sealed()     {}
func (*Misc) sealed()      {}
func (*Water) sealed()     {}
func (*Style) sealed()     {}
func (*Equipment) sealed() {}
func (*Mash) sealed()      {}
func (*Recipe) sealed()    {}
