package record

import (
	"strings"

	"beersmith-bridge/internal/core/units"
	"beersmith-bridge/internal/pkg/common"
)

// Kind 資料種類
type Kind string

const (
	KindHop       Kind = "hop"
	KindGrain     Kind = "grain"
	KindYeast     Kind = "yeast"
	KindMisc      Kind = "misc"
	KindWater     Kind = "water"
	KindStyle     Kind = "style"
	KindEquipment Kind = "equipment"
	KindMash      Kind = "mash"
	KindRecipe    Kind = "recipe"
)

// Kinds 所有種類，依載入順序排列
var Kinds = []Kind{KindHop, KindGrain, KindYeast, KindMisc, KindWater, KindStyle, KindEquipment, KindMash, KindRecipe}

// IngredientKinds 可比對與計價的原料種類
var IngredientKinds = []Kind{KindHop, KindGrain, KindYeast, KindMisc, KindWater}

// FieldType 可修改欄位的值型別
type FieldType int

const (
	FieldText FieldType = iota
	FieldNumber
	FieldPrice     // 依種類的標準價格單位儲存
	FieldInventory // 依種類的標準庫存單位儲存
)

// FieldSpec 可修改欄位
type FieldSpec struct {
	Name string
	Tag  string
	Type FieldType
}

// Numeric 欄位是否為數值
func (f FieldSpec) Numeric() bool {
	return f.Type != FieldText
}

// Trait 每種資料的固定特性，是唯一的對照來源
type Trait struct {
	Kind          Kind
	File          string
	ItemTag       string
	NameField     string
	PriceUnit     units.Unit // 空值表示沒有價格
	InventoryUnit units.Unit
	MultiRoot     bool
	Mutable       []FieldSpec
}

// IDField BeerSmith 的永久識別欄位
const IDField = "_PERMID_"

var traits = map[Kind]Trait{
	KindHop: {
		Kind: KindHop, File: "Hops.bsmx", ItemTag: "Hops", NameField: "F_H_NAME",
		PriceUnit: units.Ounce, InventoryUnit: units.Ounce,
		Mutable: []FieldSpec{
			{"price", "F_H_PRICE", FieldPrice},
			{"inventory", "F_H_INVENTORY", FieldInventory},
			{"alpha", "F_H_ALPHA", FieldNumber},
			{"beta", "F_H_BETA", FieldNumber},
			{"origin", "F_H_ORIGIN", FieldText},
			{"notes", "F_H_NOTES", FieldText},
		},
	},
	KindGrain: {
		Kind: KindGrain, File: "Grain.bsmx", ItemTag: "Grain", NameField: "F_G_NAME",
		PriceUnit: units.Ounce, InventoryUnit: units.Ounce,
		Mutable: []FieldSpec{
			{"price", "F_G_PRICE", FieldPrice},
			{"inventory", "F_G_INVENTORY", FieldInventory},
			{"color", "F_G_COLOR", FieldNumber},
			{"origin", "F_G_ORIGIN", FieldText},
			{"supplier", "F_G_SUPPLIER", FieldText},
			{"notes", "F_G_NOTES", FieldText},
		},
	},
	KindYeast: {
		Kind: KindYeast, File: "Yeast.bsmx", ItemTag: "Yeast", NameField: "F_Y_NAME",
		PriceUnit: units.Package, InventoryUnit: units.Package,
		Mutable: []FieldSpec{
			{"price", "F_Y_PRICE", FieldPrice},
			{"inventory", "F_Y_INVENTORY", FieldInventory},
			{"lab", "F_Y_LAB", FieldText},
			{"product_id", "F_Y_PRODUCT_ID", FieldText},
			{"best_for", "F_Y_BEST_FOR", FieldText},
			{"notes", "F_Y_NOTES", FieldText},
		},
	},
	KindMisc: {
		Kind: KindMisc, File: "Misc.bsmx", ItemTag: "Misc", NameField: "F_M_NAME",
		PriceUnit: units.Ounce, InventoryUnit: units.Ounce,
		Mutable: []FieldSpec{
			{"price", "F_M_PRICE", FieldPrice},
			{"inventory", "F_M_INVENTORY", FieldInventory},
			{"notes", "F_M_NOTES", FieldText},
		},
	},
	KindWater: {
		Kind: KindWater, File: "Water.bsmx", ItemTag: "Water", NameField: "F_W_NAME",
		Mutable: []FieldSpec{
			{"ph", "F_W_PH", FieldNumber},
			{"notes", "F_W_NOTES", FieldText},
		},
	},
	KindStyle: {
		Kind: KindStyle, File: "Style.bsmx", ItemTag: "Style", NameField: "F_S_NAME",
		Mutable: []FieldSpec{
			{"description", "F_S_DESCRIPTION", FieldText},
			{"profile", "F_S_PROFILE", FieldText},
			{"examples", "F_S_EXAMPLES", FieldText},
		},
	},
	KindEquipment: {
		Kind: KindEquipment, File: "Equipment.bsmx", ItemTag: "Equipment", NameField: "F_E_NAME",
		MultiRoot: true,
		Mutable: []FieldSpec{
			{"notes", "F_E_NOTES", FieldText},
		},
	},
	// 糖化設定只供查詢，不開放修改
	KindMash: {
		Kind: KindMash, File: "Mash.bsmx", ItemTag: "MashProfile", NameField: "F_MH_NAME",
	},
	KindRecipe: {
		Kind: KindRecipe, File: "Recipe.bsmx", ItemTag: "Recipe", NameField: "F_R_NAME",
		Mutable: []FieldSpec{
			{"brewer", "F_R_BREWER", FieldText},
			{"notes", "F_R_NOTES", FieldText},
		},
	},
}

// Traits 取得種類特性
func Traits(k Kind) Trait {
	return traits[k]
}

// HasPrice 此種類是否有價格欄位
func (t Trait) HasPrice() bool {
	return t.PriceUnit != ""
}

// Field 取得可修改欄位
func (t Trait) Field(name string) (FieldSpec, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, f := range t.Mutable {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// FieldNames 可修改欄位名稱
func (t Trait) FieldNames() []string {
	names := make([]string, len(t.Mutable))
	for i, f := range t.Mutable {
		names[i] = f.Name
	}
	return names
}

// ParseKind 解析種類，接受單複數與檔名寫法
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hop", "hops":
		return KindHop, nil
	case "grain", "grains", "fermentable", "fermentables":
		return KindGrain, nil
	case "yeast", "yeasts":
		return KindYeast, nil
	case "misc", "miscs", "misc_ingredients":
		return KindMisc, nil
	case "water", "waters":
		return KindWater, nil
	case "style", "styles":
		return KindStyle, nil
	case "equipment", "equipments", "equipment_profiles":
		return KindEquipment, nil
	case "mash", "mashes", "mash_profile", "mash_profiles":
		return KindMash, nil
	case "recipe", "recipes":
		return KindRecipe, nil
	}
	return "", common.Wrapf(common.ErrUnknownKind, "kind %q", s)
}
