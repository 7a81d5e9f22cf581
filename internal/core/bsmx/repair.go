package bsmx

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// builtinEntities XML 內建實體，保持原樣
var builtinEntities = map[string]bool{
	"lt":   true,
	"gt":   true,
	"amp":  true,
	"quot": true,
	"apos": true,
}

// namedEntities BeerSmith 匯出檔中常見、XML 不認得的具名實體
var namedEntities = map[string]string{
	// 標點與排版
	"ldquo": "“", "rdquo": "”", "lsquo": "‘", "rsquo": "’",
	"sbquo": "‚", "bdquo": "„", "laquo": "«", "raquo": "»",
	"lsaquo": "‹", "rsaquo": "›", "ndash": "–", "mdash": "—",
	"hellip": "…", "bull": "•", "middot": "·", "prime": "′",
	"Prime": "″", "dagger": "†", "Dagger": "‡", "permil": "‰",
	"nbsp": "\u00a0", "ensp": "\u2002", "emsp": "\u2003", "thinsp": "\u2009",
	"shy": "\u00ad", "iexcl": "¡", "iquest": "¿", "brvbar": "¦",
	"sect": "§", "para": "¶", "uml": "¨", "macr": "¯",
	"acute": "´", "cedil": "¸", "circ": "ˆ", "tilde": "˜",
	"ordf": "ª", "ordm": "º", "not": "¬",

	// 符號
	"trade": "™", "copy": "©", "reg": "®", "deg": "°",
	"plusmn": "±", "times": "×", "divide": "÷", "micro": "µ",
	"cent": "¢", "pound": "£", "euro": "€", "yen": "¥",
	"curren": "¤", "frac14": "¼", "frac12": "½", "frac34": "¾",
	"sup1": "¹", "sup2": "²", "sup3": "³", "fnof": "ƒ",
	"larr": "←", "rarr": "→", "uarr": "↑", "darr": "↓",
	"harr": "↔", "le": "≤", "ge": "≥", "ne": "≠",
	"asymp": "≈", "infin": "∞", "minus": "−", "frasl": "⁄",

	// Latin-1 大寫
	"Agrave": "À", "Aacute": "Á", "Acirc": "Â", "Atilde": "Ã",
	"Auml": "Ä", "Aring": "Å", "AElig": "Æ", "Ccedil": "Ç",
	"Egrave": "È", "Eacute": "É", "Ecirc": "Ê", "Euml": "Ë",
	"Igrave": "Ì", "Iacute": "Í", "Icirc": "Î", "Iuml": "Ï",
	"ETH": "Ð", "Ntilde": "Ñ", "Ograve": "Ò", "Oacute": "Ó",
	"Ocirc": "Ô", "Otilde": "Õ", "Ouml": "Ö", "Oslash": "Ø",
	"Ugrave": "Ù", "Uacute": "Ú", "Ucirc": "Û", "Uuml": "Ü",
	"Yacute": "Ý", "THORN": "Þ", "OElig": "Œ", "Scaron": "Š",
	"Yuml": "Ÿ",

	// Latin-1 小寫
	"szlig": "ß", "agrave": "à", "aacute": "á", "acirc": "â",
	"atilde": "ã", "auml": "ä", "aring": "å", "aelig": "æ",
	"ccedil": "ç", "egrave": "è", "eacute": "é", "ecirc": "ê",
	"euml": "ë", "igrave": "ì", "iacute": "í", "icirc": "î",
	"iuml": "ï", "eth": "ð", "ntilde": "ñ", "ograve": "ò",
	"oacute": "ó", "ocirc": "ô", "otilde": "õ", "ouml": "ö",
	"oslash": "ø", "ugrave": "ù", "uacute": "ú", "ucirc": "û",
	"uuml": "ü", "yacute": "ý", "thorn": "þ", "yuml": "ÿ",
	"oelig": "œ", "scaron": "š",
}

const maxEntityName = 12

// Repair 將原始位元組整理成可供容錯解析的文字
//
// 處理順序：移除 BOM、無效 UTF-8 以 Windows-1252 解讀、移除非法控制字元、
// 最後處理實體引用。重複執行結果不變。
func Repair(raw []byte) string {
	if len(raw) >= 3 && raw[0] == 0xEF && raw[1] == 0xBB && raw[2] == 0xBF {
		raw = raw[3:]
	}
	return repairEntities(decodeChars(raw))
}

// RepairString Repair 的字串版本
func RepairString(s string) string {
	return Repair([]byte(s))
}

// decodeChars 解碼字元並丟棄 XML 不允許的字元
func decodeChars(raw []byte) string {
	var sb strings.Builder
	sb.Grow(len(raw))
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size <= 1 {
			r = charmap.Windows1252.DecodeByte(raw[i])
			size = 1
		}
		i += size
		if r == '\uFEFF' || !isXMLChar(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// isXMLChar XML 1.0 允許的字元
func isXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r < 0x20:
		return false
	case r >= 0xD800 && r <= 0xDFFF:
		return false
	case r == 0xFFFE || r == 0xFFFF:
		return false
	case r > utf8.MaxRune:
		return false
	}
	return true
}

// repairEntities 逐一處理 & 開頭的引用
func repairEntities(s string) string {
	if strings.IndexByte(s, '&') < 0 {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '&' {
			j := strings.IndexByte(s[i:], '&')
			if j < 0 {
				sb.WriteString(s[i:])
				break
			}
			sb.WriteString(s[i : i+j])
			i += j
			continue
		}

		name, next, ok := readRef(s, i)
		if !ok {
			// 單獨的 & 轉義為 &amp;
			sb.WriteString("&amp;")
			i++
			continue
		}

		// 剝除多層 amp; 包裝，直到內層不是可解析的引用
		for name == "amp" {
			inner, after, ok := readRef(s, next-1)
			if !ok || !resolvable(inner) {
				break
			}
			name, next = inner, after
		}

		sb.WriteString(resolveRef(name))
		i = next
	}
	return sb.String()
}

// readRef 讀取 s[at] 開始的 "&name;"；at 處必須是 '&' 或前一個引用結尾的 ';'
//
// 對於 amp 層的偵測，at 指向上一個 ';'，此時把它視為新的 '&'。
func readRef(s string, at int) (name string, next int, ok bool) {
	start := at + 1
	end := start
	for end < len(s) && end-start <= maxEntityName {
		c := s[end]
		if c == ';' {
			break
		}
		if !isRefChar(c) {
			return "", 0, false
		}
		end++
	}
	if end >= len(s) || s[end] != ';' || end == start {
		return "", 0, false
	}
	return s[start:end], end + 1, true
}

func isRefChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '#'
}

// resolvable 引用是否為已知實體（內建、數字或對照表）
func resolvable(name string) bool {
	if builtinEntities[name] {
		return true
	}
	if _, ok := namedEntities[name]; ok {
		return true
	}
	_, ok := parseNumericRef(name)
	return ok
}

// resolveRef 將引用轉為輸出文字
func resolveRef(name string) string {
	if builtinEntities[name] {
		return "&" + name + ";"
	}
	if lit, ok := namedEntities[name]; ok {
		return lit
	}
	if strings.HasPrefix(name, "#") {
		r, ok := parseNumericRef(name)
		if !ok {
			return "&" + name + ";"
		}
		switch {
		case r == '<' || r == '>' || r == '&' || r == '"' || r == '\'':
			return "&" + name + ";"
		case r == '\t' || r == '\n' || r == '\r':
			// 解析器會把字面 CR 正規化成 LF，保留引用才能讀回原字元
			return "&" + name + ";"
		case r == '\uFEFF' || !isXMLChar(r):
			return ""
		default:
			return string(r)
		}
	}
	// 未知實體原樣保留
	return "&" + name + ";"
}

// parseNumericRef 解析 "#123" 或 "#x7B"
func parseNumericRef(name string) (rune, bool) {
	if len(name) < 2 || name[0] != '#' {
		return 0, false
	}
	digits, base := name[1:], 10
	if digits[0] == 'x' || digits[0] == 'X' {
		digits, base = digits[1:], 16
	}
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}
