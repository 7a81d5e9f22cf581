package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// ParseJSON 解析快取中的 JSON 字串
func ParseJSON(data string, v interface{}) error {
	return decodeOne(strings.NewReader(data), v)
}

// ParseJSONBytes 解析外部服務回傳的 JSON；數字保留為 json.Number
func ParseJSONBytes(data []byte, v interface{}) error {
	return decodeOne(bytes.NewReader(data), v)
}

// decodeOne 只接受單一 JSON 值，後面接著其他資料視為錯誤
func decodeOne(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

// ToJSON 序列化為單行 JSON 字串
func ToJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToIndentedJSON 序列化為縮排 JSON，用於寫入備份清單
func ToIndentedJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
