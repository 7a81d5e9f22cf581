package bsmx

import (
	"encoding/xml"
	"io"
	"strings"
)

// DecodeText 將元素內的原始文字轉為字元資料，用於比對原始檔中的欄位值
func DecodeText(raw string) string {
	dec := xml.NewDecoder(strings.NewReader("<v>" + RepairString(raw) + "</v>"))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity

	var sb strings.Builder
	for {
		tok, err := dec.RawToken()
		if err == io.EOF || err != nil {
			break
		}
		if cd, ok := tok.(xml.CharData); ok {
			sb.Write(cd)
		}
	}
	return strings.TrimSpace(sb.String())
}
