package offchain

import (
	"context"
	"fmt"
	"io"
	"time"

	"ocw-reader/internal/logger"
)

// 既定値
const (
	DefaultEndpoint = "ws://127.0.0.1:9944"
	DefaultKey      = "0x6e6f64652d74656d706c6174653a3a73746f726167653a3a0d000000"
)

// ResultPrefix は標準出力の行頭ラベル
const ResultPrefix = "result: "

// Dialer はノードへの接続を確立する
type Dialer interface {
	Connect(ctx context.Context, endpoint string) (Session, error)
}

// Session は確立済みの接続
type Session interface {
	ReadStorage(ctx context.Context, kind StorageKind, key Key) (Value, error)
	Close() error
}

// Config はReaderの設定
type Config struct {
	Endpoint string        // 接続先（ws:// または wss://）
	Kind     StorageKind   // ストレージ種別
	Key      Key           // 読み出すキー
	Format   Format        // 出力形式
	Origin   string        // WebSocketのOriginヘッダ
	Timeout  time.Duration // 全体のタイムアウト（0で無制限）
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		Endpoint: DefaultEndpoint,
		Kind:     KindPersistent,
		Key:      MustParseKey(DefaultKey),
		Format:   FormatHex,
		Timeout:  0, // 無制限
	}
}

// Reader はノードのオフチェーンストレージから1つの値を読み出す
type Reader struct {
	dialer Dialer
	config Config
	out    io.Writer
}

// NewReader は新しいReaderを作成する
func NewReader(dialer Dialer, config Config, out io.Writer) *Reader {
	return &Reader{
		dialer: dialer,
		config: config,
		out:    out,
	}
}

// Read は接続して値を1つ読み出し、接続を閉じる
func (r *Reader) Read(ctx context.Context) (Value, error) {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	session, err := r.dialer.Connect(ctx, r.config.Endpoint)
	if err != nil {
		return Value{}, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Debug("offchain", "Close failed: %v", err)
		}
	}()

	logger.Debug("offchain", "Reading %s key %s", r.config.Kind, r.config.Key)

	value, err := session.ReadStorage(ctx, r.config.Kind, r.config.Key)
	if err != nil {
		if IsUnsafeRejected(err) {
			logger.Warn("offchain", "Node rejected the call as unsafe; start it with --rpc-methods=unsafe")
		}
		return Value{}, err
	}

	if value.IsPresent() {
		logger.Debug("offchain", "Value found (%d bytes)", len(value.Bytes()))
	} else {
		logger.Debug("offchain", "No value stored for key")
	}
	return value, nil
}

// Run は値を読み出し、結果を1行出力する。失敗時は何も出力しない。
func (r *Reader) Run(ctx context.Context) error {
	value, err := r.Read(ctx)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(r.out, "%s%s\n", ResultPrefix, FormatValue(value, r.config.Format)); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
