package bsmx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepair(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"named entity", "Caf&eacute; Cr&egrave;me", "Café Crème"},
		{"typographic", "&ldquo;Hi&rdquo; &ndash; ok&hellip;", "“Hi” – ok…"},
		{"double escaped", "&amp;ldquo;Hi&amp;rdquo;", "“Hi”"},
		{"stacked amp", "Fish &amp;amp;amp; Chips", "Fish &amp; Chips"},
		{"builtins kept", "&lt;&gt;&amp;&quot;&apos;", "&lt;&gt;&amp;&quot;&apos;"},
		{"escaped builtin collapses", "&amp;lt;b&amp;gt;", "&lt;b&gt;"},
		{"numeric literal", "&#233;t&#xE9;", "été"},
		{"numeric special kept", "a &#60; b", "a &#60; b"},
		{"numeric illegal dropped", "x&#1;y", "xy"},
		{"unknown kept", "&bogus; stays", "&bogus; stays"},
		{"bare ampersand", "AT & T", "AT &amp; T"},
		{"amp before text", "R&amp;D", "R&amp;D"},
		{"control chars", "a\x01b\tc\x0bd", "ab\tcd"},
		{"bom", "\xEF\xBB\xBF<a/>", "<a/>"},
		{"windows-1252 byte", "Brewer\x92s", "Brewer’s"},
		{"latin-1 byte", "Caf\xe9", "Café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RepairString(tt.in))
		})
	}
}

func TestRepairIdempotent(t *testing.T) {
	inputs := []string{
		"Caf&eacute; &amp;amp;ldquo;x&amp;rdquo;",
		"AT & T &bogus; &#60; &#1; &#xZZ;",
		"\xEF\xBB\xBFBrewer\x92s \x01 notes &amp; more",
		"<Hops><F_H_NAME>Hallertauer Mittelfr&uuml;h</F_H_NAME></Hops>",
		"&amp;",
		"&&&;;",
		"<a>x&#65279;y</a>",
		"line one&#xD;&#xA;line two&#9;end",
	}
	for _, in := range inputs {
		once := RepairString(in)
		assert.Equal(t, once, RepairString(once), "input %q", in)
	}
}

func TestRepairCharacterReferences(t *testing.T) {
	assert.Equal(t, "<a>xy</a>", RepairString("<a>x&#65279;y</a>"))
	assert.Equal(t, "a&#xD;&#xA;b&#9;c", RepairString("a&#xD;&#xA;b&#9;c"))
	assert.Equal(t, "a\r\nb", DecodeText("a&#xD;&#xA;b"))
}

func TestDecodeText(t *testing.T) {
	assert.Equal(t, "Mittelfrüh & Co", DecodeText(" Mittelfr&uuml;h &amp; Co "))
	assert.Equal(t, "a < b", DecodeText("a &lt; b"))
	assert.Equal(t, "“quoted”", DecodeText("&amp;ldquo;quoted&amp;rdquo;"))
}
