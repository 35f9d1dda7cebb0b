package nodetest

import (
	"encoding/hex"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"

	"ocw-reader/internal/logger"

	"golang.org/x/net/websocket"
)

// メソッド名
const (
	MethodRPCMethods      = "rpc_methods"
	MethodSystemChain     = "system_chain"
	MethodLocalStorageGet = "offchain_localStorageGet"
)

// Config はテスト用ノードの設定
type Config struct {
	Chain         string // system_chainの応答
	RejectUnsafe  bool   // offchain_*をunsafeとして拒否する
	HideOffchain  bool   // rpc_methodsにoffchain_*を載せない
	Notifications bool   // 各レスポンスの前に購読通知を送る
	DropOnRead    bool   // offchain_localStorageGetで接続を切る
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		Chain: "Development",
	}
}

// Server はWebSocket JSON-RPCを話すテスト用ノード
type Server struct {
	config  Config
	storage *Storage

	mu    sync.Mutex
	calls []string

	ts *httptest.Server
}

// NewServer はサーバーを起動する
func NewServer(config Config) *Server {
	s := &Server{
		config:  config,
		storage: NewStorage(),
	}
	s.ts = httptest.NewServer(websocket.Handler(s.handleWebSocket))
	logger.Debug("nodetest", "Fake node listening on %s", s.URL())
	return s
}

// URL はws://形式のエンドポイントを返す
func (s *Server) URL() string {
	return "ws" + strings.TrimPrefix(s.ts.URL, "http")
}

// Storage はノードのストレージを返す
func (s *Server) Storage() *Storage {
	return s.storage
}

// Calls は受け付けたメソッド名を順に返す
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]string, len(s.calls))
	copy(result, s.calls)
	return result
}

// CallCount は指定メソッドの呼び出し回数を返す
func (s *Server) CallCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, m := range s.calls {
		if m == method {
			n++
		}
	}
	return n
}

// Close はサーバーを停止する
func (s *Server) Close() {
	s.ts.CloseClientConnections()
	s.ts.Close()
}

type request struct {
	Jsonrpc string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

type response struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type notification struct {
	Jsonrpc string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// WebSocket handling
func (s *Server) handleWebSocket(ws *websocket.Conn) {
	defer func() { _ = ws.Close() }()

	for {
		var req request
		if err := websocket.JSON.Receive(ws, &req); err != nil {
			return
		}

		s.mu.Lock()
		s.calls = append(s.calls, req.Method)
		s.mu.Unlock()

		if s.config.Notifications {
			_ = websocket.JSON.Send(ws, notification{
				Jsonrpc: "2.0",
				Method:  "chain_newHead",
				Params:  map[string]any{"subscription": "sub-1", "result": map[string]string{"number": "0x0d"}},
			})
		}

		if req.Method == MethodLocalStorageGet && s.config.DropOnRead {
			return
		}

		resp := s.dispatch(req)
		if err := websocket.JSON.Send(ws, resp); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(req request) response {
	resp := response{Jsonrpc: "2.0", ID: req.ID}

	switch req.Method {
	case MethodRPCMethods:
		methods := []string{MethodRPCMethods, MethodSystemChain}
		if !s.config.HideOffchain {
			methods = append(methods, MethodLocalStorageGet)
		}
		resp.Result = mustMarshal(map[string]any{"version": 1, "methods": methods})

	case MethodSystemChain:
		resp.Result = mustMarshal(s.config.Chain)

	case MethodLocalStorageGet:
		if s.config.RejectUnsafe {
			resp.Error = &rpcError{Code: -32601, Message: "RPC call is unsafe to be called externally"}
			return resp
		}
		value, found, rerr := s.localStorageGet(req.Params)
		if rerr != nil {
			resp.Error = rerr
			return resp
		}
		if !found {
			resp.Result = json.RawMessage("null")
			return resp
		}
		resp.Result = mustMarshal("0x" + hex.EncodeToString(value))

	default:
		resp.Error = &rpcError{Code: -32601, Message: "Method not found"}
	}

	return resp
}

func (s *Server) localStorageGet(params []json.RawMessage) ([]byte, bool, *rpcError) {
	if len(params) != 2 {
		return nil, false, invalidParams("expected [kind, key]")
	}

	var kind, key string
	if err := json.Unmarshal(params[0], &kind); err != nil || !validKind(kind) {
		return nil, false, invalidParams("unknown storage kind")
	}
	if err := json.Unmarshal(params[1], &key); err != nil {
		return nil, false, invalidParams("key must be a hex string")
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(key, "0x"))
	if err != nil {
		return nil, false, invalidParams("key must be a hex string")
	}

	value, ok := s.storage.Get(kind, raw)
	return value, ok, nil
}

func invalidParams(msg string) *rpcError {
	return &rpcError{Code: -32602, Message: "Invalid params: " + msg}
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
