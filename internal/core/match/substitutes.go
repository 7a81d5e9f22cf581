package match

import (
	"sort"
	"strings"

	"beersmith-bridge/internal/core/record"
	"beersmith-bridge/internal/pkg/common"
)

const (
	similarFloor = 0.4
	maxSimilar   = 5
)

// hopSubstitutes 常見的酒花替代品
var hopSubstitutes = map[string][]string{
	"cascade":            {"centennial", "amarillo", "simcoe"},
	"centennial":         {"cascade", "chinook", "columbus"},
	"citra":              {"galaxy", "mosaic", "simcoe"},
	"mosaic":             {"citra", "galaxy", "amarillo"},
	"simcoe":             {"amarillo", "summit", "warrior"},
	"amarillo":           {"cascade", "centennial", "citra"},
	"chinook":            {"columbus", "centennial", "nugget"},
	"columbus":           {"chinook", "centennial", "tomahawk"},
	"galaxy":             {"citra", "mosaic", "nelson sauvin"},
	"hallertau":          {"liberty", "mt. hood", "crystal"},
	"saaz":               {"sterling", "ultra", "tettnang"},
	"fuggle":             {"willamette", "styrian goldings", "east kent goldings"},
	"east kent goldings": {"fuggle", "progress", "styrian goldings"},
	"magnum":             {"horizon", "german magnum", "warrior"},
	"warrior":            {"magnum", "millennium", "nugget"},
}

// KnownHopSubstitutes 查表取得替代品；名稱包含品種名即可，例如 "Hallertauer Mittelfrüh"
func KnownHopSubstitutes(name string) []string {
	folded := Fold(name)
	if folded == "" {
		return nil
	}
	keys := make([]string, 0, len(hopSubstitutes))
	for k := range hopSubstitutes {
		keys = append(keys, k)
	}
	// 較長的品種名優先，避免 "east kent goldings" 被較短的鍵搶先
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		if strings.Contains(folded, k) || strings.Contains(k, folded) {
			return hopSubstitutes[k]
		}
	}
	return nil
}

// Substitute 替代品及其在資料庫中的對應
type Substitute struct {
	Name      string  `json:"name"`
	Available bool    `json:"available"` // 資料庫中有對應的酒花
	Match     *Result `json:"match,omitempty"`
}

// Substitutes 替代建議：先查表，再補上名稱相似的其他酒花
type Substitutes struct {
	Hop     string       `json:"hop"`
	Known   []Substitute `json:"known"`
	Similar []Result     `json:"similar"`
}

// SuggestSubstitutes 依查表結果與資料庫中的相似名稱提供替代品
func (m *Matcher) SuggestSubstitutes(name string, pool []*Candidate) Substitutes {
	out := Substitutes{Hop: name}
	original := name
	if best, ok := m.Best(name, pool, record.KindHop); ok && best.Confidence >= 0.9 {
		original = best.Name
		out.Hop = best.Name
	}

	for _, sub := range KnownHopSubstitutes(original) {
		s := Substitute{Name: sub}
		if res, ok := m.Best(sub, pool, record.KindHop); ok && res.Band != BandLow {
			r := res
			s.Available = true
			s.Match = &r
		}
		out.Known = append(out.Known, s)
	}

	q := newQuery(original)
	var similar []Result
	for _, c := range pool {
		if c.Kind != record.KindHop || c.Name == original {
			continue
		}
		best, via := 0.0, ""
		for _, layer := range m.layers[1:] {
			if score, ok := layer.fn(q, c); ok && score > best {
				best, via = score, layer.name
			}
		}
		if best < similarFloor {
			continue
		}
		conf := common.Round(best, 3)
		similar = append(similar, Result{
			Query: name, Name: c.Name, Kind: c.Kind, ID: c.ID,
			Confidence: conf, Band: BandOf(conf), Strategy: via,
		})
	}
	out.Similar = (&Matcher{Limit: maxSimilar}).top(similar)
	return out
}
