package bsmx

import (
	"strings"
)

// Node 解析後的 XML 元素
type Node struct {
	Tag      string
	Children []*Node
	Parent   *Node
	Offset   int  // 起始標籤 '<' 在修復後文字中的位元組位置
	End      int  // 結束位置（含結束標籤）
	Complete bool // 是否遇到對應的結束標籤

	text strings.Builder
}

// Text 元素直屬文字（已去除前後空白）
func (n *Node) Text() string {
	return strings.TrimSpace(n.text.String())
}

// Child 取得第一個符合標籤的直屬子元素
func (n *Node) Child(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildText 直屬子元素的文字，第二個回傳值表示元素是否存在
func (n *Node) ChildText(tag string) (string, bool) {
	c := n.Child(tag)
	if c == nil {
		return "", false
	}
	return c.Text(), true
}

// ChildrenByTag 所有符合標籤的直屬子元素
func (n *Node) ChildrenByTag(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// Walk 前序走訪，fn 回傳 false 時不再深入該節點的子樹
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find 子樹內（含自身）所有符合標籤的元素
func (n *Node) Find(tag string) []*Node {
	var out []*Node
	n.Walk(func(x *Node) bool {
		if x.Tag == tag {
			out = append(out, x)
		}
		return true
	})
	return out
}

// Path 由根到此節點的標籤路徑
func (n *Node) Path() string {
	var parts []string
	for x := n; x != nil; x = x.Parent {
		parts = append(parts, x.Tag)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// shift 將整棵子樹的位置平移
func (n *Node) shift(delta int) {
	n.Walk(func(x *Node) bool {
		x.Offset += delta
		x.End += delta
		return true
	})
}
