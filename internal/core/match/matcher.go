// Package match 將自由輸入的原料名稱對應到 BeerSmith 的標準名稱
package match

import (
	"sort"
	"unicode/utf8"

	"beersmith-bridge/internal/core/record"
	"beersmith-bridge/internal/pkg/common"

	mapset "github.com/deckarep/golang-set/v2"
)

// 預設值
const (
	DefaultThreshold = 0.6
	DefaultLimit     = 3
)

// Band 信心等級
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// BandOf 依信心分數分級：0.8 以上為高，0.6 以上為中
func BandOf(confidence float64) Band {
	switch {
	case confidence >= 0.8:
		return BandHigh
	case confidence >= 0.6:
		return BandMedium
	default:
		return BandLow
	}
}

// Candidate 可被比對的名稱，建立時預先計算正規化結果
type Candidate struct {
	Name     string
	Kind     record.Kind
	ID       string
	Keywords []string

	folded   string
	norm     string
	ordered  []string
	tokens   mapset.Set[string]
	keywords mapset.Set[string]
}

// NewCandidate 建立候選；keywords 為產地、供應商、酵母廠等輔助字
func NewCandidate(name string, kind record.Kind, id string, keywords ...string) *Candidate {
	c := &Candidate{
		Name:     name,
		Kind:     kind,
		ID:       id,
		Keywords: keywords,
		folded:   Fold(name),
		norm:     NormalizeName(name),
		ordered:  Tokens(name),
	}
	c.tokens = mapset.NewThreadUnsafeSet(c.ordered...)
	c.keywords = mapset.NewThreadUnsafeSet[string]()
	for _, k := range keywords {
		c.keywords.Append(Tokens(k)...)
	}
	return c
}

// CandidatesFrom 由資料建立候選池
func CandidatesFrom(recs []record.Record) []*Candidate {
	out := make([]*Candidate, 0, len(recs))
	for _, r := range recs {
		base := r.Meta()
		var kw []string
		switch v := r.(type) {
		case *record.Hop:
			kw = []string{v.Origin}
		case *record.Grain:
			kw = []string{v.Origin, v.Supplier}
		case *record.Yeast:
			kw = []string{v.Lab, v.ProductID}
		case *record.Style:
			kw = []string{v.Category, v.Code()}
		}
		out = append(out, NewCandidate(base.Name, r.Kind(), base.ID, kw...))
	}
	return out
}

// Labels 由純文字名稱建立候選池，用於比對使用者提供的庫存清單
func Labels(kind record.Kind, names []string) []*Candidate {
	out := make([]*Candidate, 0, len(names))
	for _, n := range names {
		out = append(out, NewCandidate(n, kind, ""))
	}
	return out
}

// Result 單一比對結果
type Result struct {
	Query      string      `json:"query"`
	Name       string      `json:"name"`
	Kind       record.Kind `json:"kind"`
	ID         string      `json:"id,omitempty"`
	Confidence float64     `json:"confidence"`
	Band       Band        `json:"band"`
	Strategy   string      `json:"strategy"`
}

// Matcher 依固定順序套用比對策略
type Matcher struct {
	Threshold float64
	Limit     int
	layers    []strategy
}

// New 建立比對器；threshold 或 limit 非正值時採用預設
func New(threshold float64, limit int) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Matcher{Threshold: threshold, Limit: limit, layers: defaultStrategies()}
}

// Match 使用比對器的門檻值
func (m *Matcher) Match(q string, pool []*Candidate, kind record.Kind) []Result {
	return m.MatchThreshold(q, pool, kind, m.Threshold)
}

// MatchThreshold 依序嘗試各層策略，第一個有結果的層即為答案，不與較低層混合
//
// 每層的入選條件與門檻無關，門檻只過濾勝出層的結果，因此提高門檻不會增加結果數。
// 最後一層的關鍵字比對一律標記為低信心，不受門檻過濾。
func (m *Matcher) MatchThreshold(q string, pool []*Candidate, kind record.Kind, threshold float64) []Result {
	query := newQuery(q)
	if query.folded == "" {
		return nil
	}
	filtered := pool
	if kind != "" {
		filtered = make([]*Candidate, 0, len(pool))
		for _, c := range pool {
			if c.Kind == kind {
				filtered = append(filtered, c)
			}
		}
	}

	for i, layer := range m.layers {
		var hits []Result
		for _, c := range filtered {
			score, ok := layer.fn(query, c)
			if !ok {
				continue
			}
			conf := common.Round(score, 3)
			hits = append(hits, Result{
				Query:      q,
				Name:       c.Name,
				Kind:       c.Kind,
				ID:         c.ID,
				Confidence: conf,
				Band:       BandOf(conf),
				Strategy:   layer.name,
			})
		}
		if len(hits) == 0 {
			continue
		}
		if i < len(m.layers)-1 {
			hits = aboveThreshold(hits, threshold)
		}
		return m.top(hits)
	}
	return nil
}

// Best 最佳結果
func (m *Matcher) Best(q string, pool []*Candidate, kind record.Kind) (Result, bool) {
	res := m.Match(q, pool, kind)
	if len(res) == 0 {
		return Result{}, false
	}
	return res[0], true
}

// MatchBatch 逐一比對多個名稱
func (m *Matcher) MatchBatch(queries []string, pool []*Candidate, kind record.Kind, threshold float64) map[string][]Result {
	if threshold <= 0 {
		threshold = m.Threshold
	}
	out := make(map[string][]Result, len(queries))
	for _, q := range queries {
		out[q] = m.MatchThreshold(q, pool, kind, threshold)
	}
	return out
}

func aboveThreshold(hits []Result, threshold float64) []Result {
	out := hits[:0]
	for _, h := range hits {
		if h.Confidence >= threshold {
			out = append(out, h)
		}
	}
	return out
}

// top 依信心遞減排序，同分時名稱較短者優先，再依字典序
func (m *Matcher) top(hits []Result) []Result {
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		la, lb := utf8.RuneCountInString(a.Name), utf8.RuneCountInString(b.Name)
		if la != lb {
			return la < lb
		}
		return a.Name < b.Name
	})
	if len(hits) > m.Limit {
		hits = hits[:m.Limit]
	}
	return hits
}
