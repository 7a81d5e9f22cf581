package match

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	mapset "github.com/deckarep/golang-set/v2"
)

// SimilarityFloor 相似度層的入選下限
const SimilarityFloor = 0.5

// minKeywordRunes 關鍵字層只採用至少三個字元的字詞
const minKeywordRunes = 3

// query 預先處理過的查詢字串
type query struct {
	folded  string
	norm    string
	ordered []string
	tokens  mapset.Set[string]
}

func newQuery(s string) query {
	q := query{
		folded:  Fold(s),
		norm:    NormalizeName(s),
		ordered: Tokens(s),
	}
	q.tokens = mapset.NewThreadUnsafeSet(q.ordered...)
	return q
}

// strategyFunc 所有比對策略共用的簽章，回傳信心分數與是否入選
type strategyFunc func(q query, c *Candidate) (float64, bool)

type strategy struct {
	name string
	fn   strategyFunc
}

func defaultStrategies() []strategy {
	return []strategy{
		{"exact", exactMatch},
		{"tokens", tokenContainment},
		{"similarity", similarity},
		{"keyword", keywordFallback},
	}
}

// exactMatch 不分大小寫與變音符號的完整名稱相同
func exactMatch(q query, c *Candidate) (float64, bool) {
	if q.folded == c.folded {
		return 1.0, true
	}
	return 0, false
}

// tokenContainment 查詢的每個有意義字詞都出現在候選的名稱或輔助字中
func tokenContainment(q query, c *Candidate) (float64, bool) {
	if q.tokens.Cardinality() == 0 || c.tokens.Cardinality() == 0 {
		return 0, false
	}
	for _, t := range q.ordered {
		if !c.tokens.Contains(t) && !c.keywords.Contains(t) {
			return 0, false
		}
	}
	overlap := float64(q.tokens.Intersect(c.tokens).Cardinality()) / float64(c.tokens.Cardinality())
	return 0.70 + 0.29*overlap, true
}

// similarity 編輯距離比例，同時比較候選名稱中與查詢等長的連續字詞
func similarity(q query, c *Candidate) (float64, bool) {
	if q.norm == "" || c.norm == "" {
		return 0, false
	}
	best := ratio(q.norm, c.norm)

	if n := len(q.ordered); n > 0 && n < len(c.ordered) {
		joined := strings.Join(q.ordered, " ")
		for i := 0; i+n <= len(c.ordered); i++ {
			if r := ratio(joined, strings.Join(c.ordered[i:i+n], " ")); r > best {
				best = r
			}
		}
	}
	if best < SimilarityFloor {
		return 0, false
	}
	return best, true
}

// keywordFallback 字詞互相包含，例如品種名嵌在較長的候選名稱中
func keywordFallback(q query, c *Candidate) (float64, bool) {
	var significant []string
	for _, t := range q.ordered {
		if utf8.RuneCountInString(t) >= minKeywordRunes {
			significant = append(significant, t)
		}
	}
	if len(significant) == 0 {
		return 0, false
	}

	hits := 0
	for _, t := range significant {
		if strings.Contains(c.norm, t) || containsAnyToken(t, c.ordered) {
			hits++
		}
	}
	if hits == 0 {
		return 0, false
	}
	overlap := float64(hits) / float64(len(significant))
	return 0.40 + 0.15*overlap, true
}

// containsAnyToken 查詢字詞是否包含任一候選字詞
func containsAnyToken(t string, tokens []string) bool {
	for _, ct := range tokens {
		if utf8.RuneCountInString(ct) >= minKeywordRunes && strings.Contains(t, ct) {
			return true
		}
	}
	return false
}

// ratio 1 - 距離 / 較長字串長度
func ratio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
