package offchain

import (
	"errors"
	"fmt"
	"strings"

	"ocw-reader/internal/rpc"
)

// ConnectionError は接続またはハンドシェイクの失敗
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s failed: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// RequestError は読み出し要求の失敗
type RequestError struct {
	Method string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Method, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsUnsafeRejected はノードがunsafe RPCとして呼び出しを拒否したかを返す
func IsUnsafeRejected(err error) bool {
	var rpcErr *rpc.Error
	if !errors.As(err, &rpcErr) {
		return false
	}
	return rpcErr.Code == rpc.CodeMethodNotFound && strings.Contains(rpcErr.Message, "unsafe")
}
