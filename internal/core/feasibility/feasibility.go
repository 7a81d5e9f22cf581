// Package feasibility 依現有原料評估可釀造的食譜
package feasibility

import (
	"sort"

	"beersmith-bridge/internal/core/match"
	"beersmith-bridge/internal/core/record"
)

// 預設值
const (
	DefaultMatchThreshold = 0.6
	DefaultMinCoverage    = 0.5
)

// Available 依種類分組的現有原料名稱
type Available map[record.Kind][]string

// Line 一個必要原料的比對結果
type Line struct {
	Kind       record.Kind `json:"kind"`
	Name       string      `json:"name"`
	MatchedTo  string      `json:"matched_to,omitempty"`
	Confidence float64     `json:"confidence,omitempty"`
}

// Suggestion 可行的食譜
type Suggestion struct {
	Recipe   *record.Recipe `json:"-"`
	Name     string         `json:"recipe"`
	Folder   string         `json:"folder"`
	Coverage float64        `json:"coverage"`
	Matched  []Line         `json:"matched"`
	Missing  []string       `json:"missing"`
}

// Scorer 可行性評估
type Scorer struct {
	matcher     *match.Matcher
	threshold   float64
	minCoverage float64
}

// NewScorer 建立評估器；非正值採用預設
func NewScorer(m *match.Matcher, threshold, minCoverage float64) *Scorer {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	if minCoverage <= 0 {
		minCoverage = DefaultMinCoverage
	}
	return &Scorer{matcher: m, threshold: threshold, minCoverage: minCoverage}
}

// Suggest 評估所有食譜，覆蓋率低於下限的直接排除
//
// 必要原料為發酵物、酒花與酵母；同一原料重複出現只計一次。
func (s *Scorer) Suggest(available Available, recipes []*record.Recipe) []Suggestion {
	pools := make(map[record.Kind][]*match.Candidate, len(available))
	for kind, names := range available {
		pools[kind] = match.Labels(kind, names)
	}

	var out []Suggestion
	for _, r := range recipes {
		if sg, ok := s.Score(r, pools); ok {
			out = append(out, sg)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Coverage != b.Coverage {
			return a.Coverage > b.Coverage
		}
		if len(a.Missing) != len(b.Missing) {
			return len(a.Missing) < len(b.Missing)
		}
		return a.Name < b.Name
	})
	return out
}

// Score 評估單一食譜；沒有必要原料或完全沒有命中的食譜不會入選
func (s *Scorer) Score(r *record.Recipe, pools map[record.Kind][]*match.Candidate) (Suggestion, bool) {
	required := uniqueRefs(r.RequiredRefs())
	if len(required) == 0 {
		return Suggestion{}, false
	}

	sg := Suggestion{Recipe: r, Name: r.Name, Folder: r.Folder, Matched: []Line{}, Missing: []string{}}
	for _, ref := range required {
		res := s.matcher.MatchThreshold(ref.Name, pools[ref.Kind], ref.Kind, s.threshold)
		if len(res) > 0 && res[0].Confidence >= s.threshold {
			best := res[0]
			sg.Matched = append(sg.Matched, Line{
				Kind: ref.Kind, Name: ref.Name, MatchedTo: best.Name, Confidence: best.Confidence,
			})
			continue
		}
		sg.Missing = append(sg.Missing, ref.Name)
	}

	if len(sg.Matched) == 0 {
		return Suggestion{}, false
	}
	sg.Coverage = float64(len(sg.Matched)) / float64(len(required))
	if sg.Coverage < s.minCoverage {
		return Suggestion{}, false
	}
	return sg, true
}

// uniqueRefs 依種類與不分大小寫的名稱去除重複
func uniqueRefs(refs []record.Ref) []record.Ref {
	seen := make(map[string]bool, len(refs))
	out := refs[:0:0]
	for _, ref := range refs {
		key := string(ref.Kind) + "\x00" + match.Fold(ref.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ref)
	}
	return out
}
