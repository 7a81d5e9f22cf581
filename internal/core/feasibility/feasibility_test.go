package feasibility

import (
	"fmt"
	"testing"

	"beersmith-bridge/internal/core/match"
	"beersmith-bridge/internal/core/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hop(name string) record.HopLine {
	return record.HopLine{Ref: record.Ref{Kind: record.KindHop, Name: name}}
}

func grain(name string) record.GrainLine {
	return record.GrainLine{Ref: record.Ref{Kind: record.KindGrain, Name: name}}
}

func yeast(name string) record.YeastLine {
	return record.YeastLine{Ref: record.Ref{Kind: record.KindYeast, Name: name}}
}

func newScorer() *Scorer {
	return NewScorer(match.New(0, 0), 0, 0)
}

// letters 只含字母的名稱，彼此不同
func letters(i int) string {
	return "variety" + string(rune('a'+i/26)) + string(rune('a'+i%26))
}

// digits 只含數字的名稱，與字母名稱完全不相似
func digits(i int) string {
	return fmt.Sprintf("%07d", 1000000+i*7919)
}

func coverageRecipe(matched, total int) (*record.Recipe, []string) {
	r := &record.Recipe{Base: record.Base{Name: fmt.Sprintf("R%d-%d", matched, total)}}
	var avail []string
	for i := 0; i < total; i++ {
		if i < matched {
			r.Hops = append(r.Hops, hop(letters(i)))
			avail = append(avail, letters(i))
			continue
		}
		r.Hops = append(r.Hops, hop(digits(i)))
	}
	return r, avail
}

func TestCoverageThresholdBoundary(t *testing.T) {
	s := newScorer()

	half, avail := coverageRecipe(50, 100)
	out := s.Suggest(Available{record.KindHop: avail}, []*record.Recipe{half})
	require.Len(t, out, 1)
	assert.Equal(t, 0.5, out[0].Coverage)
	assert.Len(t, out[0].Missing, 50)

	below, avail := coverageRecipe(49, 100)
	out = s.Suggest(Available{record.KindHop: avail}, []*record.Recipe{below})
	assert.Empty(t, out)
}

func TestNeverSuggestWithoutAvailability(t *testing.T) {
	s := newScorer()
	r := &record.Recipe{
		Base:   record.Base{Name: "Pale"},
		Grains: []record.GrainLine{grain("Pale Malt (2 Row) US")},
		Hops:   []record.HopLine{hop("Cascade")},
	}
	assert.Empty(t, s.Suggest(Available{}, []*record.Recipe{r}))

	// 只有雜項的食譜沒有必要原料
	misc := &record.Recipe{
		Base:  record.Base{Name: "Gruit"},
		Miscs: []record.MiscLine{{Ref: record.Ref{Kind: record.KindMisc, Name: "Yarrow"}}},
	}
	assert.Empty(t, s.Suggest(Available{record.KindMisc: {"Yarrow"}}, []*record.Recipe{misc}))
}

func TestSuggestRankingAndDuplicates(t *testing.T) {
	full := &record.Recipe{
		Base:   record.Base{Name: "West Coast IPA"},
		Grains: []record.GrainLine{grain("Pale Malt (2 Row) US")},
		Hops:   []record.HopLine{hop("Cascade"), hop("Cascade"), hop("Centennial")},
		Yeasts: []record.YeastLine{yeast("Safale American")},
	}
	partial := &record.Recipe{
		Base:   record.Base{Name: "Czech Pils"},
		Grains: []record.GrainLine{grain("Pilsner (2 Row) Ger")},
		Hops:   []record.HopLine{hop("Saaz")},
		Yeasts: []record.YeastLine{yeast("Saflager Lager")},
	}
	threeOfFour := &record.Recipe{
		Base:   record.Base{Name: "Amber"},
		Grains: []record.GrainLine{grain("Pale Malt (2 Row) US"), grain("Caramel/Crystal Malt - 60L")},
		Hops:   []record.HopLine{hop("Cascade")},
		Yeasts: []record.YeastLine{yeast("Safale American")},
	}
	available := Available{
		record.KindGrain: {"pale malt 2 row us", "Pilsner (2 Row) Ger"},
		record.KindHop:   {"Cascade Hops 2023", "Centennial", "Saaz Pellets"},
		record.KindYeast: {"Safale American"},
	}

	out := newScorer().Suggest(available, []*record.Recipe{partial, threeOfFour, full})
	require.Len(t, out, 3)
	assert.Equal(t, "West Coast IPA", out[0].Name)
	assert.Equal(t, 1.0, out[0].Coverage)
	assert.Len(t, out[0].Matched, 4)
	assert.Empty(t, out[0].Missing)

	assert.Equal(t, "Amber", out[1].Name)
	assert.Equal(t, 0.75, out[1].Coverage)
	assert.Equal(t, []string{"Caramel/Crystal Malt - 60L"}, out[1].Missing)

	assert.Equal(t, "Czech Pils", out[2].Name)
	assert.InDelta(t, 2.0/3.0, out[2].Coverage, 1e-9)
	assert.Equal(t, []string{"Saflager Lager"}, out[2].Missing)
}

func TestRankingTieBreaksOnMissingThenName(t *testing.T) {
	a := &record.Recipe{Base: record.Base{Name: "B"}, Hops: []record.HopLine{hop("Cascade"), hop("1234567")}}
	b := &record.Recipe{Base: record.Base{Name: "A"}, Hops: []record.HopLine{hop("Cascade"), hop("7654321")}}
	c := &record.Recipe{Base: record.Base{Name: "C"}, Hops: []record.HopLine{hop("Cascade"), hop("Centennial"), hop("1111111"), hop("2222222")}}
	out := NewScorer(match.New(0, 0), 0, 0).Suggest(Available{record.KindHop: {"Cascade", "Centennial"}}, []*record.Recipe{a, b, c})
	require.Len(t, out, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{out[0].Name, out[1].Name, out[2].Name})
}
