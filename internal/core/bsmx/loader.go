package bsmx

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"beersmith-bridge/internal/pkg/common"

	"go.uber.org/zap"
)

// Warning 非致命的解析警告
type Warning struct {
	Source  string `json:"source"`
	Offset  int    `json:"offset"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s@%d: %s", w.Source, w.Offset, w.Message)
}

// Document 單一 .bsmx 檔的解析結果
type Document struct {
	Name     string
	Path     string
	Text     string // 修復後的文字，節點位置以此為準
	Roots    []*Node
	Warnings []Warning
}

// Options 載入選項
type Options struct {
	// MultiRootTag 非空時，額外以原始文字掃描所有該標籤的區塊
	MultiRootTag string
	// NameField 與 MultiRootTag 搭配，判斷區塊是否為資料項
	NameField string
}

// Load 讀取並解析檔案；只有檔案無法讀取時回傳錯誤
func Load(path string, opts Options) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	doc := Parse(filepath.Base(path), raw, opts)
	doc.Path = path
	return doc, nil
}

// Parse 修復並容錯解析原始內容，永不失敗
func Parse(name string, raw []byte, opts Options) *Document {
	text := Repair(raw)
	doc := &Document{Name: name, Text: text}

	p := &parser{source: name}
	p.run(text)
	doc.Roots = p.finish()
	doc.Warnings = p.warnings

	if opts.MultiRootTag != "" {
		rescanned, warns := rescan(name, text, opts.MultiRootTag, opts.NameField, doc.Roots)
		doc.Roots = append(doc.Roots, rescanned...)
		doc.Warnings = append(doc.Warnings, warns...)
	}

	if len(doc.Warnings) > 0 {
		common.LogWarn("資料檔解析有警告",
			zap.String("file", name),
			zap.Int("warnings", len(doc.Warnings)),
			zap.Int("roots", len(doc.Roots)),
		)
	}
	return doc
}

// Find 所有根節點中符合標籤的元素
func (d *Document) Find(tag string) []*Node {
	var out []*Node
	for _, r := range d.Roots {
		out = append(out, r.Find(tag)...)
	}
	return out
}

// parser 以自身堆疊維護元素巢狀，不依賴 encoding/xml 的配對檢查
type parser struct {
	source   string
	textLen  int
	stack    []*Node
	roots    []*Node
	warnings []Warning
}

func (p *parser) warn(offset int, format string, args ...interface{}) {
	p.warnings = append(p.warnings, Warning{
		Source:  p.source,
		Offset:  offset,
		Message: fmt.Sprintf(format, args...),
	})
}

func (p *parser) top() *Node {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

// run 解析全文；語法錯誤時從下一個 '<' 重新同步
func (p *parser) run(text string) {
	p.textLen = len(text)
	base := 0
	for base < len(text) {
		dec := xml.NewDecoder(strings.NewReader(text[base:]))
		dec.Strict = false
		dec.Entity = xml.HTMLEntity

		resync := -1
		for {
			start := base + int(dec.InputOffset())
			tok, err := dec.RawToken()
			if err == io.EOF {
				return
			}
			if err != nil {
				p.warn(start, "syntax error: %v", err)
				if start+1 >= len(text) {
					return
				}
				idx := strings.IndexByte(text[start+1:], '<')
				if idx >= 0 {
					resync = start + 1 + idx
				}
				break
			}

			switch t := tok.(type) {
			case xml.StartElement:
				p.open(t.Name.Local, start)
			case xml.EndElement:
				p.close(t.Name.Local, start, base+int(dec.InputOffset()))
			case xml.CharData:
				if n := p.top(); n != nil {
					n.text.Write(t)
				}
			}
		}

		if resync < 0 {
			return
		}
		base = resync
	}
}

func (p *parser) open(tag string, offset int) {
	n := &Node{Tag: tag, Offset: offset, Parent: p.top()}
	if n.Parent == nil {
		p.roots = append(p.roots, n)
	} else {
		n.Parent.Children = append(n.Parent.Children, n)
	}
	p.stack = append(p.stack, n)
}

// close 關閉最近的同名元素，中間未關閉的元素一併自動關閉
func (p *parser) close(tag string, offset, end int) {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].Tag != tag {
			continue
		}
		for j := len(p.stack) - 1; j > i; j-- {
			n := p.stack[j]
			n.End = offset
			n.Complete = true
			p.warn(n.Offset, "element <%s> implicitly closed by </%s>", n.Tag, tag)
		}
		n := p.stack[i]
		n.End = end
		n.Complete = true
		p.stack = p.stack[:i]
		return
	}
	p.warn(offset, "stray end tag </%s> ignored", tag)
}

// finish 收尾未關閉的元素，並丟棄不完整的後續根節點
func (p *parser) finish() []*Node {
	for i := len(p.stack) - 1; i >= 0; i-- {
		n := p.stack[i]
		n.End = p.textLen
		if i == 0 {
			p.warn(n.Offset, "truncated: <%s> not closed before end of input", n.Tag)
		}
	}
	p.stack = nil

	kept := make([]*Node, 0, len(p.roots))
	for i, r := range p.roots {
		if !r.Complete && i > 0 {
			p.warn(r.Offset, "dropped incomplete root <%s>", r.Tag)
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
