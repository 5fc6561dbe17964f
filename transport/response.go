package transport

import (
	"bytes"
	"encoding/json"
	"strings"
)

// JSON 将响应体解码到 dest
//
// 空响应体不做任何处理；字面量 null 会被 encoding/json 按语义处理
// （dest 保持零值）。解码失败返回 *ParseError，原始字节仍可通过
// Body 字段访问，不会因为负载畸形而丢失数据。
func (r *Response) JSON(dest any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, dest); err != nil {
		return &ParseError{Cause: err}
	}
	return nil
}

// IsJSON 判断响应的 Content-Type 是否为 JSON
func (r *Response) IsJSON() bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
