package offchain

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"ocw-reader/internal/logger"
	"ocw-reader/internal/metrics"
	"ocw-reader/internal/rpc"
)

// ノードのRPCメソッド
const (
	MethodRPCMethods      = "rpc_methods"
	MethodSystemChain     = "system_chain"
	MethodLocalStorageGet = "offchain_localStorageGet"
)

// Ensure RPCDialer implements Dialer
var _ Dialer = (*RPCDialer)(nil)

// RPCDialer はWebSocket JSON-RPCでノードに接続する
type RPCDialer struct {
	Origin  string
	Metrics *metrics.Metrics
}

// NewRPCDialer は新しいRPCDialerを作成する
func NewRPCDialer(origin string, m *metrics.Metrics) *RPCDialer {
	return &RPCDialer{
		Origin:  origin,
		Metrics: m,
	}
}

// Connect は接続し、ノードが応答可能になるまで待つ
func (d *RPCDialer) Connect(ctx context.Context, endpoint string) (Session, error) {
	client, err := rpc.Dial(ctx, endpoint, rpc.Config{
		Origin:  d.Origin,
		Metrics: d.Metrics,
	})
	if err != nil {
		return nil, &ConnectionError{Endpoint: endpoint, Err: err}
	}

	s := &rpcSession{client: client}
	if err := s.handshake(ctx); err != nil {
		_ = client.Close()
		return nil, &ConnectionError{Endpoint: endpoint, Err: err}
	}
	return s, nil
}

// rpcSession はrpc.Client上のSession
type rpcSession struct {
	client *rpc.Client
}

type methodList struct {
	Version int      `json:"version"`
	Methods []string `json:"methods"`
}

// handshake はノードのメソッド一覧とチェーン名を取得する
func (s *rpcSession) handshake(ctx context.Context) error {
	var methods methodList
	if err := s.client.Call(ctx, &methods, MethodRPCMethods); err != nil {
		return fmt.Errorf("handshake %s: %w", MethodRPCMethods, err)
	}
	if !slices.Contains(methods.Methods, MethodLocalStorageGet) {
		logger.Warn("offchain", "Node does not advertise %s; the read will likely be rejected", MethodLocalStorageGet)
	}

	var chain string
	if err := s.client.Call(ctx, &chain, MethodSystemChain); err != nil {
		return fmt.Errorf("handshake %s: %w", MethodSystemChain, err)
	}

	logger.Info("offchain", "Connected to %s (chain: %s)", s.client.Endpoint(), chain)
	return nil
}

// ReadStorage はキーに対応する値を読み出す
func (s *rpcSession) ReadStorage(ctx context.Context, kind StorageKind, key Key) (Value, error) {
	var raw *string
	if err := s.client.Call(ctx, &raw, MethodLocalStorageGet, string(kind), key.String()); err != nil {
		return Value{}, &RequestError{Method: MethodLocalStorageGet, Err: err}
	}

	if raw == nil {
		return Absent(), nil
	}

	data, err := decodeHex(strings.TrimSpace(*raw))
	if err != nil {
		return Value{}, &RequestError{
			Method: MethodLocalStorageGet,
			Err:    fmt.Errorf("malformed value %q: %w", *raw, err),
		}
	}
	return Present(data), nil
}

// Close は接続を閉じる
func (s *rpcSession) Close() error {
	return s.client.Close()
}
