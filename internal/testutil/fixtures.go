// Package testutil 提供測試用的 BeerSmith 資料檔
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// HopsBSMX 酒花資料，含實體字元與錯誤數值
const HopsBSMX = `<?xml version="1.0" encoding="UTF-8"?>
<Hops><_PERMID_>0</_PERMID_><Name>Hops</Name><Data>
<Hops><_PERMID_>101</_PERMID_><F_H_NAME>Cascade</F_H_NAME><F_H_ORIGIN>US</F_H_ORIGIN><F_H_ALPHA>5.5000000</F_H_ALPHA><F_H_BETA>6.0000000</F_H_BETA><F_H_TYPE>1</F_H_TYPE><F_H_FORM>0</F_H_FORM><F_H_PRICE>1.2500000</F_H_PRICE><F_H_INVENTORY>16.0000000</F_H_INVENTORY><F_H_NOTES>Floral, citrus</F_H_NOTES></Hops>
<Hops><_PERMID_>102</_PERMID_><F_H_NAME>Centennial</F_H_NAME><F_H_ORIGIN>US</F_H_ORIGIN><F_H_ALPHA>10.0000000</F_H_ALPHA><F_H_TYPE>2</F_H_TYPE><F_H_FORM>0</F_H_FORM><F_H_PRICE>1.5000000</F_H_PRICE><F_H_INVENTORY>8.0000000</F_H_INVENTORY></Hops>
<Hops><_PERMID_>103</_PERMID_><F_H_NAME>Citra</F_H_NAME><F_H_ORIGIN>US</F_H_ORIGIN><F_H_ALPHA>12,5</F_H_ALPHA><F_H_TYPE>2</F_H_TYPE><F_H_FORM>9</F_H_FORM><F_H_PRICE>2.0000000</F_H_PRICE></Hops>
<Hops><_PERMID_>104</_PERMID_><F_H_NAME>Saaz</F_H_NAME><F_H_ORIGIN>Czech Republic</F_H_ORIGIN><F_H_ALPHA>3.5000000</F_H_ALPHA><F_H_TYPE>1</F_H_TYPE><F_H_FORM>0</F_H_FORM><F_H_PRICE>-1.0000000</F_H_PRICE></Hops>
<Hops><_PERMID_>105</_PERMID_><F_H_NAME>Hallertauer Mittelfr&amp;uuml;h</F_H_NAME><F_H_ORIGIN>Germany</F_H_ORIGIN><F_H_ALPHA>4.0000000</F_H_ALPHA><F_H_TYPE>1</F_H_TYPE></Hops>
<Hops><_PERMID_>106</_PERMID_><F_H_NAME></F_H_NAME><F_H_ALPHA>1.0000000</F_H_ALPHA></Hops>
</Data></Hops>
`

// GrainBSMX 發酵物資料
const GrainBSMX = `<Grain><_PERMID_>0</_PERMID_><Name>Grain</Name><Data>
<Grain><_PERMID_>201</_PERMID_><F_G_NAME>Pale Malt (2 Row) US</F_G_NAME><F_G_SUPPLIER>Briess</F_G_SUPPLIER><F_G_ORIGIN>US</F_G_ORIGIN><F_G_TYPE>0</F_G_TYPE><F_G_COLOR>2.0000000</F_G_COLOR><F_G_YIELD>79.0000000</F_G_YIELD><F_G_PRICE>0.0625000</F_G_PRICE><F_G_INVENTORY>320.0000000</F_G_INVENTORY></Grain>
<Grain><_PERMID_>202</_PERMID_><F_G_NAME>Maris Otter (Crisp)</F_G_NAME><F_G_SUPPLIER>Crisp</F_G_SUPPLIER><F_G_ORIGIN>United Kingdom</F_G_ORIGIN><F_G_TYPE>0</F_G_TYPE><F_G_COLOR>3.0000000</F_G_COLOR><F_G_PRICE>0.0700000</F_G_PRICE></Grain>
<Grain><_PERMID_>203</_PERMID_><F_G_NAME>Caramel/Crystal Malt - 60L</F_G_NAME><F_G_SUPPLIER>Briess</F_G_SUPPLIER><F_G_TYPE>0</F_G_TYPE><F_G_COLOR>60.0000000</F_G_COLOR><F_G_PRICE>0.1000000</F_G_PRICE></Grain>
<Grain><_PERMID_>204</_PERMID_><F_G_NAME>Pilsner (2 Row) Ger</F_G_NAME><F_G_ORIGIN>Germany</F_G_ORIGIN><F_G_TYPE>0</F_G_TYPE><F_G_COLOR>2.0000000</F_G_COLOR><F_G_PRICE>0.0650000</F_G_PRICE></Grain>
<Grain><_PERMID_>205</_PERMID_><F_G_NAME>Corn Sugar (Dextrose)</F_G_NAME><F_G_TYPE>2</F_G_TYPE><F_G_COLOR>abc</F_G_COLOR></Grain>
</Data></Grain>
`

// YeastBSMX 酵母資料
const YeastBSMX = `<Yeast><_PERMID_>0</_PERMID_><Name>Yeast</Name><Data>
<Yeast><_PERMID_>301</_PERMID_><F_Y_NAME>Safale American</F_Y_NAME><F_Y_LAB>DCL/Fermentis</F_Y_LAB><F_Y_PRODUCT_ID>US-05</F_Y_PRODUCT_ID><F_Y_TYPE>0</F_Y_TYPE><F_Y_FORM>1</F_Y_FORM><F_Y_FLOCCULATION>1</F_Y_FLOCCULATION><F_Y_MIN_ATTENUATION>73.0000000</F_Y_MIN_ATTENUATION><F_Y_MAX_ATTENUATION>77.0000000</F_Y_MAX_ATTENUATION><F_Y_PRICE>4.5000000</F_Y_PRICE><F_Y_INVENTORY>2.0000000</F_Y_INVENTORY></Yeast>
<Yeast><_PERMID_>302</_PERMID_><F_Y_NAME>American Ale</F_Y_NAME><F_Y_LAB>Wyeast Labs</F_Y_LAB><F_Y_PRODUCT_ID>1056</F_Y_PRODUCT_ID><F_Y_TYPE>0</F_Y_TYPE><F_Y_FORM>0</F_Y_FORM><F_Y_PRICE>8.0000000</F_Y_PRICE></Yeast>
<Yeast><_PERMID_>303</_PERMID_><F_Y_NAME>Saflager Lager</F_Y_NAME><F_Y_LAB>DCL/Fermentis</F_Y_LAB><F_Y_PRODUCT_ID>W-34/70</F_Y_PRODUCT_ID><F_Y_TYPE>1</F_Y_TYPE><F_Y_FORM>1</F_Y_FORM><F_Y_PRICE>5.0000000</F_Y_PRICE></Yeast>
</Data></Yeast>
`

// MiscBSMX 雜項資料
const MiscBSMX = `<Misc><_PERMID_>0</_PERMID_><Name>Misc</Name><Data>
<Misc><_PERMID_>401</_PERMID_><F_M_NAME>Irish Moss</F_M_NAME><F_M_TYPE>1</F_M_TYPE><F_M_USE>0</F_M_USE><F_M_TIME>10.0000000</F_M_TIME><F_M_PRICE>0.5000000</F_M_PRICE></Misc>
<Misc><_PERMID_>402</_PERMID_><F_M_NAME>Whirlfloc Tablet</F_M_NAME><F_M_TYPE>1</F_M_TYPE><F_M_USE>0</F_M_USE><F_M_TIME>15.0000000</F_M_TIME></Misc>
</Data></Misc>
`

// WaterBSMX 水質資料
const WaterBSMX = `<Water><_PERMID_>0</_PERMID_><Name>Water</Name><Data>
<Water><_PERMID_>501</_PERMID_><F_W_NAME>Burton On Trent, UK</F_W_NAME><F_W_CALCIUM>295.0000000</F_W_CALCIUM><F_W_MAGNESIUM>45.0000000</F_W_MAGNESIUM><F_W_SODIUM>55.0000000</F_W_SODIUM><F_W_SULFATE>725.0000000</F_W_SULFATE><F_W_CHLORIDE>25.0000000</F_W_CHLORIDE><F_W_BICARB>300.0000000</F_W_BICARB><F_W_PH>8.0000000</F_W_PH></Water>
<Water><_PERMID_>502</_PERMID_><F_W_NAME>Dublin, Ireland</F_W_NAME><F_W_CALCIUM>118.0000000</F_W_CALCIUM><F_W_SULFATE>54.0000000</F_W_SULFATE><F_W_CHLORIDE>19.0000000</F_W_CHLORIDE><F_W_BICARB>319.0000000</F_W_BICARB></Water>
<Water><_PERMID_>503</_PERMID_><F_W_NAME>Pilsen, Czech Republic</F_W_NAME><F_W_CALCIUM>7.0000000</F_W_CALCIUM><F_W_SULFATE>5.0000000</F_W_SULFATE><F_W_CHLORIDE>5.0000000</F_W_CHLORIDE></Water>
</Data></Water>
`

// StyleBSMX 風格資料，最後一筆的 FG 範圍上下顛倒
const StyleBSMX = `<Style><_PERMID_>0</_PERMID_><Name>Style</Name><Data>
<Style><_PERMID_>601</_PERMID_><F_S_NAME>American IPA</F_S_NAME><F_S_CATEGORY>IPA</F_S_CATEGORY><F_S_GUIDE>BJCP 2015</F_S_GUIDE><F_S_NUMBER>21</F_S_NUMBER><F_S_LETTER>A</F_S_LETTER><F_S_MIN_OG>1.0560000</F_S_MIN_OG><F_S_MAX_OG>1.0700000</F_S_MAX_OG><F_S_MIN_FG>1.0080000</F_S_MIN_FG><F_S_MAX_FG>1.0140000</F_S_MAX_FG><F_S_MIN_IBU>40.0000000</F_S_MIN_IBU><F_S_MAX_IBU>70.0000000</F_S_MAX_IBU><F_S_MIN_COLOR>6.0000000</F_S_MIN_COLOR><F_S_MAX_COLOR>14.0000000</F_S_MAX_COLOR><F_S_MIN_ABV>5.5000000</F_S_MIN_ABV><F_S_MAX_ABV>7.5000000</F_S_MAX_ABV><F_S_DESCRIPTION>A decidedly hoppy and bitter pale ale.</F_S_DESCRIPTION></Style>
<Style><_PERMID_>602</_PERMID_><F_S_NAME>Czech Premium Pale Lager</F_S_NAME><F_S_CATEGORY>Czech Lager</F_S_CATEGORY><F_S_GUIDE>BJCP 2015</F_S_GUIDE><F_S_NUMBER>3</F_S_NUMBER><F_S_LETTER>B</F_S_LETTER><F_S_MIN_OG>1.0440000</F_S_MIN_OG><F_S_MAX_OG>1.0600000</F_S_MAX_OG><F_S_MIN_FG>1.0160000</F_S_MIN_FG><F_S_MAX_FG>1.0130000</F_S_MAX_FG><F_S_MIN_IBU>30.0000000</F_S_MIN_IBU><F_S_MAX_IBU>45.0000000</F_S_MAX_IBU><F_S_MIN_COLOR>3.5000000</F_S_MIN_COLOR><F_S_MAX_COLOR>6.0000000</F_S_MAX_COLOR><F_S_MIN_ABV>4.2000000</F_S_MIN_ABV><F_S_MAX_ABV>5.8000000</F_S_MAX_ABV></Style>
</Data></Style>
`

// EquipmentBSMX 設備資料：正常根元素之後接著兩個額外的根，主體解析後必須靠掃描補回
const EquipmentBSMX = `<Equipment><_PERMID_>0</_PERMID_><Name>Equipment</Name><Data>
<Equipment><_PERMID_>701</_PERMID_><F_E_NAME>Pot (5 Gal/19 L) - Extract</F_E_NAME><F_E_BATCH_VOL>640.0000000</F_E_BATCH_VOL><F_E_BOIL_TIME>60.0000000</F_E_BOIL_TIME><F_E_EFFICIENCY>72.0000000</F_E_EFFICIENCY></Equipment>
</Data></Equipment>
<Equipment><_PERMID_>702</_PERMID_><F_E_NAME>SS Brewtech 10 gal</F_E_NAME><F_E_BATCH_VOL>1280.0000000</F_E_BATCH_VOL><F_E_EFFICIENCY>0.7500000</F_E_EFFICIENCY><F_E_HOP_UTIL>100.0000000</F_E_HOP_UTIL></Equipment>
<Equipment><_PERMID_>703</_PERMID_><F_E_NAME>Grainfather G30</F_E_NAME><F_E_BATCH_VOL>3200</F_E_BATCH_VOL><F_E_EFFICIENCY>80</F_E_EFFICIENCY>
`

// RecipeBSMX 本機食譜，含資料夾
const RecipeBSMX = `<Recipe><_PERMID_>0</_PERMID_><Name>Recipes</Name><Data>
<Table><_PERMID_>10</_PERMID_><Name>IPAs</Name><Data>
<Recipe><_PERMID_>801</_PERMID_><F_R_NAME>West Coast IPA</F_R_NAME><F_R_BREWER>Sam</F_R_BREWER><F_R_DATE>2024-05-01</F_R_DATE><F_R_OG>1.0620000</F_R_OG><F_R_FG>1.0110000</F_R_FG><F_R_IBU>62.0000000</F_R_IBU><F_R_COLOR>7.0000000</F_R_COLOR><F_R_ABV>6.7000000</F_R_ABV><F_R_BOIL_TIME>60.0000000</F_R_BOIL_TIME>
<F_R_STYLE><F_S_NAME>American IPA</F_S_NAME><F_S_MIN_OG>1.0560000</F_S_MIN_OG><F_S_MAX_OG>1.0700000</F_S_MAX_OG></F_R_STYLE>
<F_R_EQUIPMENT><F_E_NAME>Pot (5 Gal/19 L) - Extract</F_E_NAME><F_E_BATCH_VOL>640.0000000</F_E_BATCH_VOL><F_E_EFFICIENCY>72.0000000</F_E_EFFICIENCY></F_R_EQUIPMENT>
<F_R_MASH><F_MH_NAME>Single Infusion, Medium Body</F_MH_NAME><F_MH_GRAIN_TEMP>72.0000000</F_MH_GRAIN_TEMP><steps><Data><MashStep><F_MS_NAME>Mash In</F_MS_NAME><F_MS_TYPE>0</F_MS_TYPE><F_MS_STEP_TEMP>152.0000000</F_MS_STEP_TEMP><F_MS_STEP_TIME>60.0000000</F_MS_STEP_TIME><F_MS_INFUSION>480.0000000</F_MS_INFUSION><F_MS_INFUSION_TEMP>163.4000000</F_MS_INFUSION_TEMP></MashStep></Data></steps></F_R_MASH>
<Ingredients><Data>
<Grain><F_G_NAME>Pale Malt (2 Row) US</F_G_NAME><F_G_AMOUNT>176.0000000</F_G_AMOUNT><F_G_TYPE>0</F_G_TYPE><F_G_COLOR>2.0000000</F_G_COLOR></Grain>
<Grain><F_G_NAME>Caramel/Crystal Malt - 60L</F_G_NAME><F_G_AMOUNT>16.0000000</F_G_AMOUNT><F_G_COLOR>60.0000000</F_G_COLOR></Grain>
<Hops><F_H_NAME>Centennial</F_H_NAME><F_H_AMOUNT>1.0000000</F_H_AMOUNT><F_H_ALPHA>10.0000000</F_H_ALPHA><F_H_BOIL_TIME>60.0000000</F_H_BOIL_TIME><F_H_USE>0</F_H_USE></Hops>
<Hops><F_H_NAME>Cascade</F_H_NAME><F_H_AMOUNT>1.0000000</F_H_AMOUNT><F_H_ALPHA>5.5000000</F_H_ALPHA><F_H_BOIL_TIME>10.0000000</F_H_BOIL_TIME><F_H_USE>0</F_H_USE></Hops>
<Hops><F_H_NAME>Cascade</F_H_NAME><F_H_AMOUNT>2.0000000</F_H_AMOUNT><F_H_DRY_HOP_TIME>5.0000000</F_H_DRY_HOP_TIME><F_H_USE>1</F_H_USE></Hops>
<Yeast><F_Y_NAME>Safale American</F_Y_NAME><F_Y_LAB>DCL/Fermentis</F_Y_LAB><F_Y_PRODUCT_ID>US-05</F_Y_PRODUCT_ID><F_Y_AMOUNT>1.0000000</F_Y_AMOUNT><F_Y_MIN_ATTENUATION>73.0000000</F_Y_MIN_ATTENUATION><F_Y_MAX_ATTENUATION>77.0000000</F_Y_MAX_ATTENUATION></Yeast>
<Misc><F_M_NAME>Irish Moss</F_M_NAME><F_M_AMOUNT>0.2500000</F_M_AMOUNT><F_M_USE>0</F_M_USE><F_M_TIME>10.0000000</F_M_TIME></Misc>
<Water><F_W_NAME>Burton On Trent, UK</F_W_NAME><F_W_AMOUNT>960.0000000</F_W_AMOUNT></Water>
</Data></Ingredients>
</Recipe>
</Data></Table>
<Recipe><_PERMID_>802</_PERMID_><F_R_NAME>Czech Pils</F_R_NAME><F_R_OG>1.0480000</F_R_OG><F_R_FG>1.0120000</F_R_FG><F_R_IBU>38.0000000</F_R_IBU><F_R_COLOR>4.0000000</F_R_COLOR><F_R_ABV>4.7000000</F_R_ABV>
<F_R_STYLE><F_S_NAME>Czech Premium Pale Lager</F_S_NAME></F_R_STYLE>
<Ingredients><Data>
<Grain><F_G_NAME>Pilsner (2 Row) Ger</F_G_NAME><F_G_AMOUNT>160.0000000</F_G_AMOUNT></Grain>
<Hops><F_H_NAME>Saaz</F_H_NAME><F_H_AMOUNT>3.0000000</F_H_AMOUNT><F_H_BOIL_TIME>60.0000000</F_H_BOIL_TIME></Hops>
<Yeast><F_Y_NAME>Saflager Lager</F_Y_NAME><F_Y_AMOUNT>2.0000000</F_Y_AMOUNT></Yeast>
</Data></Ingredients>
</Recipe>
<Recipe><_PERMID_>803</_PERMID_><F_R_NAME>Mystery Ale</F_R_NAME><F_R_FOLDER_NAME>/Experiments/</F_R_FOLDER_NAME>
<Ingredients><Data>
<Grain><F_G_NAME>Unobtainium Malt</F_G_NAME><F_G_AMOUNT>100.0000000</F_G_AMOUNT></Grain>
<Hops><F_H_NAME>Nelson Sauvin</F_H_NAME><F_H_AMOUNT>2.0000000</F_H_AMOUNT></Hops>
<Yeast><F_Y_NAME>Kveik Voss</F_Y_NAME></Yeast>
</Data></Ingredients>
</Recipe>
</Data></Recipe>
`

// CloudBSMX 雲端食譜
const CloudBSMX = `<Cloud><_PERMID_>0</_PERMID_><Name>Cloud</Name><Data>
<Cloud><_PERMID_>901</_PERMID_><F_C_NAME>Cloud Pale Ale</F_C_NAME>
<F_C_RECIPE><_PERMID_>902</_PERMID_><F_R_NAME>Cloud Pale Ale</F_R_NAME><F_R_OG>1.0500000</F_R_OG><F_R_IBU>35.0000000</F_R_IBU>
<Ingredients><Data>
<Grain><F_G_NAME>Maris Otter (Crisp)</F_G_NAME><F_G_AMOUNT>160.0000000</F_G_AMOUNT></Grain>
<Hops><F_H_NAME>Cascade</F_H_NAME><F_H_AMOUNT>2.0000000</F_H_AMOUNT></Hops>
<Yeast><F_Y_NAME>American Ale</F_Y_NAME><F_Y_AMOUNT>1.0000000</F_Y_AMOUNT></Yeast>
</Data></Ingredients>
</F_C_RECIPE>
</Cloud>
</Data></Cloud>
`

// StandaloneRecipeBSMX 食譜資料夾中的單獨檔案
const StandaloneRecipeBSMX = `<Recipe><_PERMID_>950</_PERMID_><F_R_NAME>Saaz Session</F_R_NAME><F_R_OG>1.0400000</F_R_OG>
<Ingredients><Data>
<Grain><F_G_NAME>Pilsner (2 Row) Ger</F_G_NAME><F_G_AMOUNT>120.0000000</F_G_AMOUNT></Grain>
<Hops><F_H_NAME>Saaz</F_H_NAME><F_H_AMOUNT>2.0000000</F_H_AMOUNT></Hops>
</Data></Ingredients>
</Recipe>
`

// MashBSMX 糖化設定：步驟巢狀在 steps/Data 下，其中一步的類型代碼超出範圍
const MashBSMX = `<Mash><_PERMID_>0</_PERMID_><Name>Mash</Name><Data>
<MashProfile><_PERMID_>901</_PERMID_><F_MH_NAME>Single Infusion, Medium Body</F_MH_NAME><F_MH_GRAIN_TEMP>72.0000000</F_MH_GRAIN_TEMP><F_MH_TUN_TEMP>72.0000000</F_MH_TUN_TEMP><F_MH_SPARGE_TEMP>168.0000000</F_MH_SPARGE_TEMP><F_MH_PH>5.4000000</F_MH_PH><F_MH_NOTES>Simple single infusion</F_MH_NOTES>
<steps><_PERMID_>0</_PERMID_><Name>Steps</Name><Data>
<MashStep><F_MS_NAME>Mash In</F_MS_NAME><F_MS_TYPE>0</F_MS_TYPE><F_MS_STEP_TEMP>152.0000000</F_MS_STEP_TEMP><F_MS_STEP_TIME>60.0000000</F_MS_STEP_TIME><F_MS_RISE_TIME>2.0000000</F_MS_RISE_TIME><F_MS_INFUSION>480.0000000</F_MS_INFUSION><F_MS_INFUSION_TEMP>163.4000000</F_MS_INFUSION_TEMP></MashStep>
<MashStep><F_MS_NAME>Mash Out</F_MS_NAME><F_MS_TYPE>2</F_MS_TYPE><F_MS_STEP_TEMP>168.0000000</F_MS_STEP_TEMP><F_MS_STEP_TIME>10.0000000</F_MS_STEP_TIME><F_MS_RISE_TIME>10.0000000</F_MS_RISE_TIME></MashStep>
</Data></steps></MashProfile>
<MashProfile><_PERMID_>902</_PERMID_><F_MH_NAME>Temperature Mash, 2 Step</F_MH_NAME><F_MH_PH>5,2</F_MH_PH>
<steps><Data>
<MashStep><F_MS_NAME>Protein Rest</F_MS_NAME><F_MS_TYPE>7</F_MS_TYPE><F_MS_STEP_TEMP>122.0000000</F_MS_STEP_TEMP><F_MS_STEP_TIME>30.0000000</F_MS_STEP_TIME></MashStep>
<MashStep><F_MS_NAME>Saccharification</F_MS_NAME><F_MS_TYPE>1</F_MS_TYPE><F_MS_STEP_TEMP>154.0000000</F_MS_STEP_TEMP><F_MS_STEP_TIME>45.0000000</F_MS_STEP_TIME></MashStep>
</Data></steps></MashProfile>
</Data></Mash>
`

// Files 資料目錄中的檔名與內容
var Files = map[string]string{
	"Hops.bsmx":      HopsBSMX,
	"Grain.bsmx":     GrainBSMX,
	"Yeast.bsmx":     YeastBSMX,
	"Misc.bsmx":      MiscBSMX,
	"Water.bsmx":     WaterBSMX,
	"Style.bsmx":     StyleBSMX,
	"Equipment.bsmx": EquipmentBSMX,
	"Mash.bsmx":      MashBSMX,
	"Recipe.bsmx":    RecipeBSMX,
	"Cloud.bsmx":     CloudBSMX,
}

// DataDir 在暫存目錄寫入完整的資料檔，回傳資料目錄、食譜目錄與備份目錄
func DataDir(t testing.TB) (dataDir, recipeDir, backupDir string) {
	t.Helper()
	root := t.TempDir()
	dataDir = filepath.Join(root, "data")
	recipeDir = filepath.Join(root, "recipes")
	backupDir = filepath.Join(root, "backups")
	for _, dir := range []string{dataDir, recipeDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	for name, content := range Files {
		WriteFile(t, dataDir, name, content)
	}
	WriteFile(t, recipeDir, "Saaz Session.bsmx", StandaloneRecipeBSMX)
	return dataDir, recipeDir, backupDir
}

// WriteFile 寫入單一檔案
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
