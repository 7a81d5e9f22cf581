package bsmx

import (
	"strings"
)

// Block 原始文字中以某標籤開頭的片段
type Block struct {
	Offset int
	Text   string
	Closed bool // 是否找到對應的結束標籤
}

// ScanBlocks 掃描文字中所有 <tag> 區塊
//
// 區塊結束於下一個 </tag>；若下一個同名開始標籤更早出現或找不到結束標籤，
// 則截斷於該處並補上結束標籤。
func ScanBlocks(text, tag string) []Block {
	open := "<" + tag
	closeTag := "</" + tag + ">"

	var blocks []Block
	for pos := 0; pos < len(text); {
		idx := indexOpenTag(text, open, pos)
		if idx < 0 {
			break
		}
		bodyStart := idx + len(open)
		nextOpen := indexOpenTag(text, open, bodyStart)
		end := strings.Index(text[bodyStart:], closeTag)
		if end >= 0 {
			end += bodyStart
		}

		switch {
		case end >= 0 && (nextOpen < 0 || end < nextOpen):
			stop := end + len(closeTag)
			blocks = append(blocks, Block{Offset: idx, Text: text[idx:stop], Closed: true})
		case nextOpen >= 0:
			blocks = append(blocks, Block{Offset: idx, Text: text[idx:nextOpen] + closeTag})
		default:
			blocks = append(blocks, Block{Offset: idx, Text: text[idx:] + closeTag})
		}
		pos = bodyStart
	}
	return blocks
}

// indexOpenTag 尋找開始標籤，排除同前綴的其他標籤（如 <EquipmentList>）
func indexOpenTag(text, open string, from int) int {
	for from < len(text) {
		i := strings.Index(text[from:], open)
		if i < 0 {
			return -1
		}
		i += from
		after := i + len(open)
		if after < len(text) {
			switch text[after] {
			case '>', '/', ' ', '\t', '\n', '\r':
				return i
			}
		}
		from = after
	}
	return -1
}

// rescan 對多根文件逐區塊獨立解析，補回結構解析遺漏的資料項
func rescan(source, text, tag, nameField string, roots []*Node) ([]*Node, []Warning) {
	covered := make(map[int]bool)
	for _, r := range roots {
		for _, n := range r.Find(tag) {
			covered[n.Offset] = true
		}
	}

	var (
		extra []*Node
		warns []Warning
	)
	for _, b := range ScanBlocks(text, tag) {
		if covered[b.Offset] {
			continue
		}

		p := &parser{source: source}
		p.run(b.Text)
		parsed := p.finish()
		if len(parsed) == 0 {
			warns = append(warns, Warning{Source: source, Offset: b.Offset, Message: "unparseable <" + tag + "> block dropped"})
			continue
		}

		root := parsed[0]
		if root.Tag != tag {
			continue
		}
		if nameField != "" {
			if name, ok := root.ChildText(nameField); !ok || name == "" {
				// 容器區塊，不是資料項
				continue
			}
		}
		root.shift(b.Offset)
		covered[root.Offset] = true
		extra = append(extra, root)
		if !b.Closed {
			warns = append(warns, Warning{Source: source, Offset: b.Offset, Message: "recovered unterminated <" + tag + "> block"})
		}
	}
	return extra, warns
}
