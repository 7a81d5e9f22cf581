package mutation

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"beersmith-bridge/internal/core/bsmx"
)

// FieldEdit 對單一欄位元素的修改，Text 為未跳脫的值
type FieldEdit struct {
	Tag  string
	Text string
}

// block 原始內容中一組成對的開始與結束標籤
type block struct {
	start, innerStart, innerEnd, end int
}

func (b block) size() int { return b.end - b.start }

var (
	patternMu sync.Mutex
	patterns  = map[string]*regexp.Regexp{}
)

// compile 快取每個標籤的樣式
func compile(key, expr string) *regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()
	if re, ok := patterns[key]; ok {
		return re
	}
	re := regexp.MustCompile(expr)
	patterns[key] = re
	return re
}

// tagPattern 開始、結束與自我關閉標籤
func tagPattern(tag string) *regexp.Regexp {
	q := regexp.QuoteMeta(tag)
	return compile("tag:"+tag, `<(/?)`+q+`(?:\s[^<>]*?)?\s*(/?)>`)
}

// fieldPattern 欄位元素，群組 1 為內容；自我關閉時群組 1 不存在
func fieldPattern(tag string) *regexp.Regexp {
	q := regexp.QuoteMeta(tag)
	return compile("field:"+tag, `<`+q+`(?:\s[^<>]*?)?\s*(?:/>|>([\s\S]*?)</`+q+`\s*>)`)
}

// blocks 以堆疊配對巢狀的同名標籤；沒有結束標籤的區塊略過
func blocks(raw []byte, tag string) []block {
	var (
		stack []block
		out   []block
	)
	for _, m := range tagPattern(tag).FindAllSubmatchIndex(raw, -1) {
		closing := m[3] > m[2]
		selfClosing := m[5] > m[4]
		switch {
		case selfClosing:
			continue
		case !closing:
			stack = append(stack, block{start: m[0], innerStart: m[1]})
		default:
			if len(stack) == 0 {
				continue
			}
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			b.innerEnd, b.end = m[0], m[1]
			out = append(out, b)
		}
	}
	return out
}

// locate 找出名稱相符的最小區塊；外層容器也會含有子項的名稱，所以取最小者
func locate(raw []byte, tags []string, nameField, name string) (block, bool) {
	var (
		best  block
		found bool
	)
	want := strings.TrimSpace(name)
	for _, tag := range tags {
		for _, b := range blocks(raw, tag) {
			m := fieldPattern(nameField).FindSubmatch(raw[b.innerStart:b.innerEnd])
			if m == nil {
				continue
			}
			got := bsmx.DecodeText(string(m[1]))
			if got != want && !strings.EqualFold(got, want) {
				continue
			}
			if !found || b.size() < best.size() {
				best, found = b, true
			}
		}
	}
	return best, found
}

// applyEdits 只替換目標區塊中的欄位元素，其餘位元組保持原樣；欄位不存在時加在區塊結尾
func applyEdits(raw []byte, tags []string, nameField, name string, edits []FieldEdit) ([]byte, error) {
	b, ok := locate(raw, tags, nameField, name)
	if !ok {
		return nil, fmt.Errorf("no complete <%s> block named %q", strings.Join(tags, "|"), name)
	}

	inner := append([]byte(nil), raw[b.innerStart:b.innerEnd]...)
	for _, e := range edits {
		inner = setField(inner, e)
	}

	out := make([]byte, 0, len(raw)-(b.innerEnd-b.innerStart)+len(inner))
	out = append(out, raw[:b.innerStart]...)
	out = append(out, inner...)
	out = append(out, raw[b.innerEnd:]...)
	return out, nil
}

func setField(inner []byte, e FieldEdit) []byte {
	elem := element(e)
	loc := fieldPattern(e.Tag).FindIndex(inner)
	if loc == nil {
		return append(inner, elem...)
	}
	out := make([]byte, 0, len(inner)+len(elem))
	out = append(out, inner[:loc[0]]...)
	out = append(out, elem...)
	return append(out, inner[loc[1]:]...)
}

// readBack 文字寫入後重新載入會讀到的值；使用者輸入的實體引用與資料檔採相同規則解析
func readBack(text string) string {
	return bsmx.DecodeText(string(escape(text)))
}

func escape(text string) []byte {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(text))
	return buf.Bytes()
}

func element(e FieldEdit) []byte {
	var buf bytes.Buffer
	buf.WriteString("<" + e.Tag + ">")
	buf.Write(escape(e.Text))
	buf.WriteString("</" + e.Tag + ">")
	return buf.Bytes()
}
