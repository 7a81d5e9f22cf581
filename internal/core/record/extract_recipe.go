package record

import (
	"strings"

	"beersmith-bridge/internal/core/bsmx"
)

// 食譜來源的基礎資料夾
const (
	FolderLocal = "/"
	FolderCloud = "/Cloud/"
	FolderFiles = "/Files/"
)

// ExtractRecipes 遞迴走訪資料夾（Table），取出所有食譜
//
// 一般食譜是含 F_R_NAME 的 Recipe 元素；雲端食譜包在 Cloud/F_C_RECIPE 中。
// 食譜自帶的 F_R_FOLDER_NAME 優先於推算出的資料夾。
func ExtractRecipes(doc *bsmx.Document, baseFolder string) ([]*Recipe, []bsmx.Warning) {
	if baseFolder == "" {
		baseFolder = FolderLocal
	}
	if !strings.HasSuffix(baseFolder, "/") {
		baseFolder += "/"
	}

	var (
		out   []*Recipe
		warns []bsmx.Warning
	)
	var walk func(n *bsmx.Node, folder string)
	walk = func(n *bsmx.Node, folder string) {
		if isRecipeNode(n) {
			if r := readRecipe(newReader(n, doc.Name, &warns), folder); r != nil {
				out = append(out, r)
			}
			return
		}
		if n.Tag == "Table" {
			if name, _ := n.ChildText("Name"); name != "" {
				folder = folder + name + "/"
			}
		}
		for _, c := range n.Children {
			walk(c, folder)
		}
	}
	for _, root := range doc.Roots {
		walk(root, baseFolder)
	}
	return out, warns
}

func isRecipeNode(n *bsmx.Node) bool {
	if n.Tag != "Recipe" && n.Tag != "F_C_RECIPE" {
		return false
	}
	_, ok := n.ChildText("F_R_NAME")
	return ok
}

func readRecipe(rd reader, folder string) *Recipe {
	base, ok := readBase(rd, "F_R_NAME")
	if !ok {
		return nil
	}
	rd.label = base.Name
	base.Notes = rd.text("F_R_NOTES")

	if own := rd.text("F_R_FOLDER_NAME"); own != "" && own != "/" {
		folder = own
	}

	r := &Recipe{
		Base:     base,
		Folder:   folder,
		Brewer:   rd.text("F_R_BREWER"),
		Date:     rd.text("F_R_DATE"),
		OG:       rd.num("F_R_OG", 0),
		FG:       rd.num("F_R_FG", 0),
		IBU:      rd.num("F_R_IBU", 0),
		Color:    rd.num("F_R_COLOR", 0),
		ABV:      rd.num("F_R_ABV", 0),
		BoilTime: rd.num("F_R_BOIL_TIME", DefaultBoilTime),
		Style:    Ref{Kind: KindStyle},
		Equipment: Ref{
			Kind: KindEquipment,
		},
		Mash: Ref{Kind: KindMash},
	}

	if n := rd.node.Child("F_R_STYLE"); n != nil {
		sr := reader{node: n, src: rd.src, label: base.Name + "/style", warns: rd.warns}
		st := readStyle(sr, Base{Name: sr.text("F_S_NAME"), ID: sr.text(IDField), Source: rd.src})
		r.StyleCopy = st
		r.Style.Name = st.Name
		r.Style.ID = st.ID
	}
	if n := rd.node.Child("F_R_EQUIPMENT"); n != nil {
		er := reader{node: n, src: rd.src, label: base.Name + "/equipment", warns: rd.warns}
		eq := readEquipment(er, Base{Name: er.text("F_E_NAME"), ID: er.text(IDField), Source: rd.src})
		r.EquipmentCopy = eq
		r.Equipment.Name = eq.Name
		r.Equipment.ID = eq.ID
	}
	if n := rd.node.Child("F_R_MASH"); n != nil {
		mr := reader{node: n, src: rd.src, label: base.Name + "/mash", warns: rd.warns}
		m := readMash(mr, Base{Name: mr.text("F_MH_NAME"), ID: mr.text(IDField), Source: rd.src})
		r.MashCopy = m
		r.Mash.Name = m.Name
		r.Mash.ID = m.ID
	}

	readLines(rd, r)
	return r
}

// readLines 讀取 Ingredients/Data 下的原料行，沒有名稱的行會被略過
func readLines(rd reader, r *Recipe) {
	ing := rd.node.Child("Ingredients")
	if ing == nil {
		return
	}
	data := ing.Child("Data")
	if data == nil {
		return
	}

	for _, n := range data.Children {
		lr := reader{node: n, src: rd.src, label: rd.label, warns: rd.warns}
		switch n.Tag {
		case "Grain":
			ref, ok := lineRef(lr, KindGrain, "F_G_NAME")
			if !ok {
				continue
			}
			typ, hasType := lr.code("F_G_TYPE")
			r.Grains = append(r.Grains, GrainLine{
				Ref:      ref,
				AmountOz: lr.nonNegative("F_G_AMOUNT"),
				Type:     decodeCode(grainTypeCodes, typ, hasType),
				Color:    lr.num("F_G_COLOR", 0),
				Yield:    lr.num("F_G_YIELD", 0),
			})
		case "Hops":
			ref, ok := lineRef(lr, KindHop, "F_H_NAME")
			if !ok {
				continue
			}
			use, hasUse := lr.code("F_H_USE")
			form, hasForm := lr.code("F_H_FORM")
			r.Hops = append(r.Hops, HopLine{
				Ref:        ref,
				AmountOz:   lr.nonNegative("F_H_AMOUNT"),
				Alpha:      lr.num("F_H_ALPHA", 0),
				BoilTime:   lr.num("F_H_BOIL_TIME", 0),
				DryHopDays: lr.num("F_H_DRY_HOP_TIME", 0),
				Use:        decodeCode(hopUseCodes, use, hasUse),
				Form:       decodeCode(hopFormCodes, form, hasForm),
			})
		case "Yeast":
			ref, ok := lineRef(lr, KindYeast, "F_Y_NAME")
			if !ok {
				continue
			}
			typ, hasType := lr.code("F_Y_TYPE")
			form, hasForm := lr.code("F_Y_FORM")
			minAtt := lr.num("F_Y_MIN_ATTENUATION", 0)
			maxAtt := lr.num("F_Y_MAX_ATTENUATION", 0)
			r.Yeasts = append(r.Yeasts, YeastLine{
				Ref:         ref,
				Amount:      lr.nonNegative("F_Y_AMOUNT"),
				Lab:         lr.text("F_Y_LAB"),
				ProductID:   lr.text("F_Y_PRODUCT_ID"),
				Type:        decodeCode(yeastTypeCodes, typ, hasType),
				Form:        decodeCode(yeastFormCodes, form, hasForm),
				Attenuation: (minAtt + maxAtt) / 2,
			})
		case "Misc":
			ref, ok := lineRef(lr, KindMisc, "F_M_NAME")
			if !ok {
				continue
			}
			use, hasUse := lr.code("F_M_USE")
			r.Miscs = append(r.Miscs, MiscLine{
				Ref:    ref,
				Amount: lr.nonNegative("F_M_AMOUNT"),
				Use:    decodeCode(miscUseCodes, use, hasUse),
				Time:   lr.num("F_M_TIME", 0),
			})
		case "Water":
			ref, ok := lineRef(lr, KindWater, "F_W_NAME")
			if !ok {
				continue
			}
			r.Waters = append(r.Waters, WaterLine{
				Ref:        ref,
				AmountFloz: lr.nonNegative("F_W_AMOUNT"),
			})
		}
	}
}

func lineRef(rd reader, kind Kind, nameField string) (Ref, bool) {
	name := rd.text(nameField)
	if name == "" {
		rd.warn("%s line without %s skipped", kind, nameField)
		return Ref{}, false
	}
	return Ref{Kind: kind, Name: name, ID: rd.text(IDField)}, true
}
