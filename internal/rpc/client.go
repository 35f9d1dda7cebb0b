package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"ocw-reader/internal/logger"
	"ocw-reader/internal/metrics"

	"golang.org/x/net/websocket"
)

// DefaultOrigin はハンドシェイク時に送るOriginヘッダ
const DefaultOrigin = "http://localhost"

// ErrClosed はClose済みのクライアントで呼び出した場合のエラー
var ErrClosed = errors.New("rpc: client is closed")

// Config はClientの設定
type Config struct {
	Origin  string           // Originヘッダ（空でDefaultOrigin）
	Metrics *metrics.Metrics // 呼び出しの記録先（nilで新規作成）
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		Origin: DefaultOrigin,
	}
}

// Client はWebSocket上のJSON-RPC 2.0クライアント
type Client struct {
	endpoint string
	ws       *websocket.Conn
	metrics  *metrics.Metrics

	mu     sync.Mutex // 呼び出しを直列化する
	nextID atomic.Uint64
	closed atomic.Bool
}

// Dial はエンドポイントに接続する
func Dial(ctx context.Context, endpoint string, config Config) (*Client, error) {
	origin := config.Origin
	if origin == "" {
		origin = DefaultOrigin
	}

	wsConfig, err := websocket.NewConfig(endpoint, origin)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	ws, err := wsConfig.DialContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", endpoint, err)
	}

	m := config.Metrics
	if m == nil {
		m = metrics.New()
	}

	logger.Debug("rpc", "Connected to %s", endpoint)

	return &Client{
		endpoint: endpoint,
		ws:       ws,
		metrics:  m,
	}, nil
}

// Endpoint は接続先を返す
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Metrics は呼び出しメトリクスを返す
func (c *Client) Metrics() *metrics.Metrics {
	return c.metrics
}

// Call はメソッドを呼び出し、結果をresultにデコードする。
// resultがnilの場合、結果は捨てられる。
func (c *Client) Call(ctx context.Context, result any, method string, params ...any) error {
	if c.closed.Load() {
		return ErrClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	err := c.roundTrip(ctx, result, method, params)
	if err != nil {
		c.metrics.RecordFailure(method, time.Since(start))
		return err
	}
	c.metrics.RecordSuccess(method, time.Since(start))
	return nil
}

// roundTrip はリクエストを送り、同じIDのレスポンスを待つ
func (c *Client) roundTrip(ctx context.Context, result any, method string, params []any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if params == nil {
		params = []any{}
	}

	stop := c.watch(ctx)
	defer stop()

	id := c.nextID.Add(1)
	req := Request{
		Jsonrpc: Version,
		ID:      id,
		Method:  method,
		Params:  params,
	}

	logger.Debug("rpc", "-> %s (id=%d)", method, id)

	if err := websocket.JSON.Send(c.ws, req); err != nil {
		return c.transportError(ctx, "send", err)
	}

	for {
		var resp Response
		if err := websocket.JSON.Receive(c.ws, &resp); err != nil {
			return c.transportError(ctx, "receive", err)
		}

		if !resp.matches(id) {
			// 購読通知や別IDのレスポンスは読み飛ばす
			logger.Debug("rpc", "Skipping unrelated message (method=%q)", resp.Method)
			continue
		}

		logger.Debug("rpc", "<- %s (id=%d)", method, id)

		if resp.Error != nil {
			return resp.Error
		}
		if len(resp.Result) == 0 {
			return fmt.Errorf("response to %s has neither result nor error", method)
		}
		if result == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
		return nil
	}
}

// watch はコンテキストの期限とキャンセルをソケットの期限に反映する
func (c *Client) watch(ctx context.Context) func() {
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.ws.SetDeadline(deadline)
	}

	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-ctx.Done():
			// 読み込み待ちを即座に解除する
			_ = c.ws.SetDeadline(time.Now())
		case <-done:
		}
	}()

	return func() {
		close(done)
		<-exited
		_ = c.ws.SetDeadline(time.Time{})
	}
}

func (c *Client) transportError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}
	if c.closed.Load() {
		return ErrClosed
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Close は接続を閉じる
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil // Already closed
	}
	logger.Debug("rpc", "Closing connection to %s", c.endpoint)
	return c.ws.Close()
}
