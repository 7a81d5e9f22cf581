package record

import (
	"strings"
	"testing"

	"beersmith-bridge/internal/core/bsmx"
	"beersmith-bridge/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseKind(t *testing.T, kind Kind, content string) ([]Record, []bsmx.Warning) {
	t.Helper()
	trait := Traits(kind)
	opts := bsmx.Options{}
	if trait.MultiRoot {
		opts = bsmx.Options{MultiRootTag: trait.ItemTag, NameField: trait.NameField}
	}
	doc := bsmx.Parse(trait.File, []byte(content), opts)
	return Extract(kind, doc)
}

func warningsContain(warns []bsmx.Warning, sub string) bool {
	for _, w := range warns {
		if strings.Contains(w.Message, sub) {
			return true
		}
	}
	return false
}

func TestExtractHops(t *testing.T) {
	recs, warns := parseKind(t, KindHop, testutil.HopsBSMX)
	require.Len(t, recs, 5)

	cascade := recs[0].(*Hop)
	assert.Equal(t, "Cascade", cascade.Name)
	assert.Equal(t, "101", cascade.ID)
	assert.Equal(t, "Hops.bsmx", cascade.Source)
	assert.Equal(t, 5.5, cascade.Alpha)
	assert.Equal(t, HopAroma, cascade.Type)
	assert.Equal(t, HopPellet, cascade.Form)
	assert.Equal(t, 1.25, cascade.Price)
	assert.Equal(t, "Floral, citrus", cascade.Notes)

	citra := recs[2].(*Hop)
	assert.Equal(t, 12.5, citra.Alpha)
	assert.Equal(t, HopForm(Unknown), citra.Form)

	saaz := recs[3].(*Hop)
	assert.Zero(t, saaz.Price)

	assert.Equal(t, "Hallertauer Mittelfrüh", recs[4].Meta().Name)

	assert.True(t, warningsContain(warns, "coerced"))
	assert.True(t, warningsContain(warns, "clamped"))
	assert.True(t, warningsContain(warns, "record dropped"))
}

func TestExtractGrainDefaultsOnBadNumber(t *testing.T) {
	recs, warns := parseKind(t, KindGrain, testutil.GrainBSMX)
	require.Len(t, recs, 5)

	sugar := recs[4].(*Grain)
	assert.Equal(t, GrainSugar, sugar.Type)
	assert.Zero(t, sugar.Color)
	assert.Equal(t, 100.0, sugar.MaxInBatch)
	assert.True(t, warningsContain(warns, "not numeric"))

	pale := recs[0].(*Grain)
	assert.Equal(t, "Briess", pale.Supplier)
	assert.Equal(t, 0.0625, pale.Price)
	assert.Equal(t, 320.0, pale.Inventory)
}

func TestExtractYeastEnums(t *testing.T) {
	recs, _ := parseKind(t, KindYeast, testutil.YeastBSMX)
	require.Len(t, recs, 3)

	y := recs[0].(*Yeast)
	assert.Equal(t, YeastAle, y.Type)
	assert.Equal(t, YeastDry, y.Form)
	assert.Equal(t, FlocMedium, y.Flocculation)
	assert.Equal(t, "US-05", y.ProductID)

	// 沒有凝絮度欄位
	assert.Equal(t, Flocculation(Unknown), recs[1].(*Yeast).Flocculation)
}

func TestExtractStyleRangeInverted(t *testing.T) {
	recs, warns := parseKind(t, KindStyle, testutil.StyleBSMX)
	require.Len(t, recs, 2)

	ipa := recs[0].(*Style)
	assert.Equal(t, "21A", ipa.Code())
	assert.False(t, ipa.OG.Inverted)
	assert.True(t, ipa.IBU.Contains(62))

	lager := recs[1].(*Style)
	assert.True(t, lager.FG.Inverted)
	assert.Equal(t, 1.016, lager.FG.Min)
	assert.Equal(t, 1.013, lager.FG.Max)
	assert.True(t, warningsContain(warns, "inverted"))
}

func TestExtractEquipmentMultiRoot(t *testing.T) {
	recs, _ := parseKind(t, KindEquipment, testutil.EquipmentBSMX)

	byName := map[string]*Equipment{}
	for _, r := range recs {
		byName[r.Meta().Name] = r.(*Equipment)
	}
	require.Len(t, byName, 3)

	pot := byName["Pot (5 Gal/19 L) - Extract"]
	require.NotNil(t, pot)
	assert.InDelta(t, 0.72, pot.Efficiency, 1e-9)
	assert.Equal(t, DefaultHopUtilization, pot.HopUtilization)

	ss := byName["SS Brewtech 10 gal"]
	require.NotNil(t, ss)
	assert.InDelta(t, 0.75, ss.Efficiency, 1e-9)
	assert.InDelta(t, 1.0, ss.HopUtilization, 1e-9)
	assert.Equal(t, DefaultBoilTime, ss.BoilTime)

	g30 := byName["Grainfather G30"]
	require.NotNil(t, g30)
	assert.Equal(t, 3200.0, g30.BatchVolume)
	assert.InDelta(t, 0.80, g30.Efficiency, 1e-9)
}

func TestExtractEquipmentFractionClamped(t *testing.T) {
	doc := `<Equipment><_PERMID_>0</_PERMID_><Name>Equipment</Name><Data>
<Equipment><_PERMID_>801</_PERMID_><F_E_NAME>Overrated</F_E_NAME><F_E_EFFICIENCY>150</F_E_EFFICIENCY><F_E_HOP_UTIL>-5</F_E_HOP_UTIL></Equipment>
</Data></Equipment>`
	recs, warns := parseKind(t, KindEquipment, doc)
	require.Len(t, recs, 1)

	eq := recs[0].(*Equipment)
	assert.Equal(t, 1.0, eq.Efficiency)
	assert.Equal(t, 0.0, eq.HopUtilization)
	assert.True(t, warningsContain(warns, "above 100% clamped"))
	assert.True(t, warningsContain(warns, "negative fraction"))
}

func TestExtractWater(t *testing.T) {
	recs, _ := parseKind(t, KindWater, testutil.WaterBSMX)
	require.Len(t, recs, 3)

	burton := recs[0].(*Water)
	assert.Equal(t, 725.0, burton.Sulfate)
	assert.Equal(t, 8.0, burton.PH)
	// 缺少 pH 時預設為中性
	assert.Equal(t, 7.0, recs[1].(*Water).PH)
}

func TestExtractMash(t *testing.T) {
	recs, warns := parseKind(t, KindMash, testutil.MashBSMX)
	require.Len(t, recs, 2)

	single := recs[0].(*Mash)
	assert.Equal(t, "901", single.ID)
	assert.Equal(t, "Single Infusion, Medium Body", single.Name)
	assert.Equal(t, "Simple single infusion", single.Notes)
	assert.Equal(t, 168.0, single.SpargeTemp)
	require.Len(t, single.Steps, 2)
	assert.Equal(t, MashStep{
		Name: "Mash In", Type: MashInfusion, Temp: 152, Time: 60, RiseTime: 2,
		InfusionFloz: 480, InfusionTemp: 163.4,
	}, single.Steps[0])
	assert.Equal(t, MashTemperature, single.Steps[1].Type)
	assert.Equal(t, 82.0, single.TotalTime())

	two := recs[1].(*Mash)
	assert.Equal(t, 5.2, two.PH)
	require.Len(t, two.Steps, 2)
	assert.Equal(t, []string{"Protein Rest", "Saccharification"}, []string{two.Steps[0].Name, two.Steps[1].Name})
	assert.Equal(t, MashStepType(Unknown), two.Steps[0].Type)
	assert.Equal(t, MashDecoction, two.Steps[1].Type)
	assert.True(t, warningsContain(warns, "coerced"))
}

func TestExtractRecipes(t *testing.T) {
	doc := bsmx.Parse("Recipe.bsmx", []byte(testutil.RecipeBSMX), bsmx.Options{})
	recipes, _ := ExtractRecipes(doc, FolderLocal)
	require.Len(t, recipes, 3)

	ipa := recipes[0]
	assert.Equal(t, "West Coast IPA", ipa.Name)
	assert.Equal(t, "/IPAs/", ipa.Folder)
	assert.Equal(t, "Sam", ipa.Brewer)
	assert.Equal(t, 1.062, ipa.OG)
	assert.Equal(t, Ref{Kind: KindStyle, Name: "American IPA"}, ipa.Style)
	require.NotNil(t, ipa.StyleCopy)
	assert.Equal(t, 1.056, ipa.StyleCopy.OG.Min)
	require.NotNil(t, ipa.EquipmentCopy)
	assert.Equal(t, 640.0, ipa.BatchVolume())
	assert.InDelta(t, 0.72, ipa.EquipmentCopy.Efficiency, 1e-9)
	assert.Equal(t, Ref{Kind: KindMash, Name: "Single Infusion, Medium Body"}, ipa.Mash)
	require.NotNil(t, ipa.MashCopy)
	require.Len(t, ipa.MashCopy.Steps, 1)
	assert.Equal(t, 152.0, ipa.MashCopy.Steps[0].Temp)

	require.Len(t, ipa.Grains, 2)
	assert.Equal(t, 176.0, ipa.Grains[0].AmountOz)
	require.Len(t, ipa.Hops, 3)
	assert.Equal(t, HopUseDryHop, ipa.Hops[2].Use)
	assert.Equal(t, 5.0, ipa.Hops[2].DryHopDays)
	require.Len(t, ipa.Yeasts, 1)
	assert.Equal(t, 75.0, ipa.Yeasts[0].Attenuation)
	require.Len(t, ipa.Miscs, 1)
	require.Len(t, ipa.Waters, 1)
	assert.Len(t, ipa.RequiredRefs(), 6)

	pils := recipes[1]
	assert.Equal(t, "/", pils.Folder)
	assert.Equal(t, DefaultBoilTime, pils.BoilTime)
	assert.Nil(t, pils.EquipmentCopy)
	assert.Zero(t, pils.BatchVolume())

	assert.Equal(t, "/Experiments/", recipes[2].Folder)
}

func TestExtractCloudRecipes(t *testing.T) {
	doc := bsmx.Parse("Cloud.bsmx", []byte(testutil.CloudBSMX), bsmx.Options{})
	recipes, _ := ExtractRecipes(doc, FolderCloud)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Cloud Pale Ale", recipes[0].Name)
	assert.Equal(t, "902", recipes[0].ID)
	assert.Equal(t, "/Cloud/", recipes[0].Folder)
	assert.Len(t, recipes[0].Hops, 1)
}

func TestExtractRecipeSkipsNamelessLines(t *testing.T) {
	raw := `<Recipe><F_R_NAME>Odd</F_R_NAME><Ingredients><Data>
<Hops><F_H_AMOUNT>1</F_H_AMOUNT></Hops>
<Hops><F_H_NAME>Cascade</F_H_NAME></Hops>
</Data></Ingredients></Recipe>`
	doc := bsmx.Parse("Odd.bsmx", []byte(raw), bsmx.Options{})
	recipes, warns := ExtractRecipes(doc, FolderFiles)
	require.Len(t, recipes, 1)
	assert.Equal(t, "/Files/", recipes[0].Folder)
	assert.Len(t, recipes[0].Hops, 1)
	assert.True(t, warningsContain(warns, "skipped"))
}

func TestCoerceFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		how  int
	}{
		{"5.5000000", 5.5, 0},
		{" 12 ", 12, 0},
		{"12,5", 12.5, 1},
		{"3.2 %", 3.2, 1},
		{"abc", 0, -1},
		{"", 0, -1},
		{"NaN", 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, how := CoerceFloat(tt.in)
			assert.Equal(t, tt.how, how)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestFieldValue(t *testing.T) {
	h := &Hop{Base: Base{Name: "Cascade", Notes: "n"}, Price: 1.5}
	v, ok := FieldValue(h, "price")
	require.True(t, ok)
	assert.Equal(t, 1.5, v)

	v, ok = FieldValue(h, "notes")
	require.True(t, ok)
	assert.Equal(t, "n", v)

	_, ok = FieldValue(h, "name")
	assert.False(t, ok)

	// 允許清單與讀取器必須一致
	samples := map[Kind]Record{
		KindHop: &Hop{}, KindGrain: &Grain{}, KindYeast: &Yeast{}, KindMisc: &Misc{},
		KindWater: &Water{}, KindStyle: &Style{}, KindEquipment: &Equipment{}, KindMash: &Mash{},
		KindRecipe: &Recipe{},
	}
	for kind, rec := range samples {
		for _, f := range Traits(kind).Mutable {
			_, ok := FieldValue(rec, f.Name)
			assert.True(t, ok, "%s.%s", kind, f.Name)
		}
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Fermentables")
	require.NoError(t, err)
	assert.Equal(t, KindGrain, k)

	k, err = ParseKind("mash_profiles")
	require.NoError(t, err)
	assert.Equal(t, KindMash, k)

	_, err = ParseKind("hamburger")
	assert.Error(t, err)
}
