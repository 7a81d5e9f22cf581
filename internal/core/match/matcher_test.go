package match

import (
	"testing"

	"beersmith-bridge/internal/core/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hopPool() []*Candidate {
	return []*Candidate{
		NewCandidate("Cascade", record.KindHop, "101", "US"),
		NewCandidate("Centennial", record.KindHop, "102", "US"),
		NewCandidate("Citra", record.KindHop, "103", "US"),
		NewCandidate("Saaz", record.KindHop, "104", "Czech Republic"),
		NewCandidate("Hallertauer Mittelfrüh", record.KindHop, "105", "Germany"),
		NewCandidate("Nelson Sauvin", record.KindHop, "106", "New Zealand"),
		NewCandidate("Pale Malt (2 Row) US", record.KindGrain, "201", "Briess"),
		NewCandidate("Caramel/Crystal Malt - 60L", record.KindGrain, "203", "Briess"),
		NewCandidate("Safale American", record.KindYeast, "301", "DCL/Fermentis", "US-05"),
	}
}

func TestFoldAndNormalize(t *testing.T) {
	assert.Equal(t, "hallertauer mittelfruh", Fold("  Hallertauer   Mittelfrüh "))
	assert.Equal(t, "cascade", NormalizeName("Cascade Hops 2023"))
	assert.Equal(t, "pale malt us", NormalizeName("Pale Malt (2 Row) US"))
	assert.Equal(t, "citra", NormalizeName("Citra Pellets"))
	assert.Equal(t, []string{"pale", "2", "row", "us"}, Tokens("Pale Malt (2 Row) US"))
	assert.Equal(t, []string{"cascade"}, Tokens("Cascade Hop Pellets 2024"))
}

func TestMatchExact(t *testing.T) {
	m := New(0, 0)
	res := m.Match("cascade", hopPool(), record.KindHop)
	require.Len(t, res, 1)
	assert.Equal(t, "Cascade", res[0].Name)
	assert.Equal(t, 1.0, res[0].Confidence)
	assert.Equal(t, "exact", res[0].Strategy)

	// 去除變音符號後相同
	res = m.Match("hallertauer mittelfruh", hopPool(), record.KindHop)
	require.NotEmpty(t, res)
	assert.Equal(t, "Hallertauer Mittelfrüh", res[0].Name)
	assert.Equal(t, 1.0, res[0].Confidence)
}

func TestMatchTokenContainment(t *testing.T) {
	m := New(0, 0)
	res := m.Match("Cascade Hops 2023", hopPool(), "")
	require.Len(t, res, 1)
	assert.Equal(t, "Cascade", res[0].Name)
	assert.Equal(t, "tokens", res[0].Strategy)
	assert.InDelta(t, 0.99, res[0].Confidence, 1e-9)
	assert.Equal(t, BandHigh, res[0].Band)

	res = m.Match("crystal 60l", hopPool(), record.KindGrain)
	require.Len(t, res, 1)
	assert.Equal(t, "Caramel/Crystal Malt - 60L", res[0].Name)
	assert.InDelta(t, 0.70+0.29*2.0/3.0, res[0].Confidence, 1e-3)

	// 只出現在輔助字（產品編號）
	res = m.Match("US-05", hopPool(), record.KindYeast)
	require.Len(t, res, 1)
	assert.Equal(t, "Safale American", res[0].Name)
	assert.Equal(t, BandMedium, res[0].Band)
}

func TestMatchMisspelling(t *testing.T) {
	m := New(0, 0)
	res := m.Match("Casscade", hopPool(), record.KindHop)
	require.NotEmpty(t, res)
	assert.Equal(t, "Cascade", res[0].Name)
	assert.Equal(t, "similarity", res[0].Strategy)
	assert.Equal(t, BandHigh, res[0].Band)
}

func TestMatchKeywordFallbackIsLow(t *testing.T) {
	m := New(0, 0)
	res := m.Match("Sauvin Nelson NZ Whole Cone Fresh", hopPool(), record.KindHop)
	require.NotEmpty(t, res)
	assert.Equal(t, "Nelson Sauvin", res[0].Name)
	assert.Equal(t, "keyword", res[0].Strategy)
	assert.Equal(t, BandLow, res[0].Band)
	// 五個字詞中有兩個命中
	assert.InDelta(t, 0.46, res[0].Confidence, 1e-9)
}

func TestMatchNothing(t *testing.T) {
	m := New(0, 0)
	assert.Empty(t, m.Match("zz", hopPool(), record.KindHop))
	assert.Empty(t, m.Match("   ", hopPool(), ""))
}

func TestMatchTopNAndTies(t *testing.T) {
	pool := []*Candidate{
		NewCandidate("Citra B", record.KindHop, ""),
		NewCandidate("Citra A", record.KindHop, ""),
		NewCandidate("Citra Long Name", record.KindHop, ""),
		NewCandidate("Citra Cryo", record.KindHop, ""),
	}
	m := New(0, 0)
	res := m.Match("citra", pool, record.KindHop)
	require.Len(t, res, 3)
	assert.Equal(t, []string{"Citra A", "Citra B", "Citra Cryo"}, []string{res[0].Name, res[1].Name, res[2].Name})
}

func TestMatchMonotonicInThreshold(t *testing.T) {
	m := New(0, 10)
	pool := append(hopPool(),
		NewCandidate("Cascade NZ", record.KindHop, ""),
		NewCandidate("Cascadx", record.KindHop, ""),
		NewCandidate("Cascadf", record.KindHop, ""),
	)
	for _, q := range []string{"cascade", "casscade", "cascade nz", "citra", "sauvin", "centenial", "caskade"} {
		prev := len(m.MatchThreshold(q, pool, record.KindHop, 0.05))
		for th := 0.1; th <= 1.0; th += 0.05 {
			n := len(m.MatchThreshold(q, pool, record.KindHop, th))
			assert.LessOrEqual(t, n, prev, "query %q threshold %.2f", q, th)
			prev = n
		}
	}
}

func TestWinningLayerDoesNotFallThrough(t *testing.T) {
	m := New(0, 3)
	pool := []*Candidate{NewCandidate("Cascade Select Blend Mix", record.KindHop, "")}

	res := m.MatchThreshold("Cascade", pool, record.KindHop, 0.6)
	require.Len(t, res, 1)
	assert.Equal(t, "tokens", res[0].Strategy)

	// 第一個有結果的層低於門檻時不改用後面的層
	assert.Empty(t, m.MatchThreshold("Cascade", pool, record.KindHop, 0.8))
}

func TestExactOutranksEverything(t *testing.T) {
	pool := []*Candidate{
		NewCandidate("Saaz", record.KindHop, ""),
		NewCandidate("Saaz (US)", record.KindHop, ""),
		NewCandidate("Saazer", record.KindHop, ""),
	}
	res := New(0.1, 10).Match("SAAZ", pool, record.KindHop)
	require.Len(t, res, 1)
	assert.Equal(t, "Saaz", res[0].Name)
}

func TestMatchBatch(t *testing.T) {
	m := New(0, 0)
	out := m.MatchBatch([]string{"Cascade", "Citra", "Unobtainium"}, hopPool(), record.KindHop, 0)
	require.Len(t, out, 3)
	assert.Equal(t, "Cascade", out["Cascade"][0].Name)
	assert.Equal(t, "Citra", out["Citra"][0].Name)
	assert.Empty(t, out["Unobtainium"])
}

func TestSubstitutes(t *testing.T) {
	assert.Equal(t, []string{"sterling", "ultra", "tettnang"}, KnownHopSubstitutes("Saaz"))
	assert.Equal(t, []string{"liberty", "mt. hood", "crystal"}, KnownHopSubstitutes("Hallertauer Mittelfrüh"))
	assert.Equal(t, []string{"fuggle", "progress", "styrian goldings"}, KnownHopSubstitutes("East Kent Goldings"))
	assert.Empty(t, KnownHopSubstitutes("Unknown Variety"))

	m := New(0, 0)
	subs := m.SuggestSubstitutes("cascade", hopPool())
	assert.Equal(t, "Cascade", subs.Hop)
	require.Len(t, subs.Known, 3)
	assert.Equal(t, "centennial", subs.Known[0].Name)
	assert.True(t, subs.Known[0].Available)
	assert.Equal(t, "Centennial", subs.Known[0].Match.Name)
	assert.False(t, subs.Known[1].Available)
	for _, s := range subs.Similar {
		assert.NotEqual(t, "Cascade", s.Name)
	}
}

func TestBandOf(t *testing.T) {
	assert.Equal(t, BandHigh, BandOf(0.8))
	assert.Equal(t, BandMedium, BandOf(0.79))
	assert.Equal(t, BandMedium, BandOf(0.6))
	assert.Equal(t, BandLow, BandOf(0.59))
}
