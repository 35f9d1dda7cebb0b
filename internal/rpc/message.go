package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Version はJSON-RPCのバージョン
const Version = "2.0"

// Request はJSON-RPC 2.0リクエスト
type Request struct {
	Jsonrpc string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// Response はJSON-RPC 2.0レスポンス（購読通知もこの形で受け取る）
type Response struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// matches はレスポンスIDがリクエストIDと一致するかを返す
func (r *Response) matches(id uint64) bool {
	raw := bytes.TrimSpace(r.ID)
	if len(raw) == 0 {
		return false
	}
	want := strconv.FormatUint(id, 10)
	if string(raw) == want {
		return true
	}
	// 文字列IDで返すノードもある
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s == want
	}
	return false
}

// Error はJSON-RPC 2.0のエラーオブジェクト
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("JSON-RPC error %d: %s (%s)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}

// 標準エラーコード
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)
