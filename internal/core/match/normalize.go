package match

import (
	"regexp"
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	yearPattern   = regexp.MustCompile(`\b20\d{2}\b`)
	parenPattern  = regexp.MustCompile(`\([^)]*\)`)
	suffixPattern = regexp.MustCompile(`\s+(hops?|malt|grain|yeast|pellets?|leaf)$`)
)

// stopwords 對比對沒有幫助的釀造通用字
var stopwords = mapset.NewSet(
	"malt", "malted", "hops", "hop", "yeast", "grain", "extract", "liquid", "dry", "pellets", "pellet", "leaf",
)

// Fold 去除變音符號、轉小寫並壓縮空白
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// NormalizeName 比對用的名稱：去掉年份、括號內容、標點與結尾的通用字
func NormalizeName(s string) string {
	s = Fold(s)
	s = parenPattern.ReplaceAllString(s, " ")
	s = yearPattern.ReplaceAllString(s, " ")
	s = strings.Join(splitWords(s), " ")
	for {
		trimmed := suffixPattern.ReplaceAllString(s, "")
		if trimmed == s {
			break
		}
		s = trimmed
	}
	return s
}

// Tokens 有意義的字詞，依出現順序且不重複
func Tokens(s string) []string {
	s = yearPattern.ReplaceAllString(Fold(s), " ")
	seen := mapset.NewThreadUnsafeSet[string]()
	var out []string
	for _, w := range splitWords(s) {
		if stopwords.Contains(w) || seen.Contains(w) {
			continue
		}
		seen.Add(w)
		out = append(out, w)
	}
	return out
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
