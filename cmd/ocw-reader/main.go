// Package main is the entry point for ocw-reader.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ocw-reader/internal/config"
	"ocw-reader/internal/logger"
	"ocw-reader/internal/metrics"
	"ocw-reader/internal/offchain"
)

var (
	version = "dev"
)

// usageError はフラグ指定の誤り（終了コード2）
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Warn("", "中断シグナルを受信、終了中...")
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Error("", "%v", err)
		os.Exit(exitCode(err))
	}
}

// exitCode はエラーに対応する終了コードを返す
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ue *usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

// run はフラグを解釈し、値を1つ読み出して出力する
func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("ocw-reader", flag.ContinueOnError)

	// フラグ定義
	var (
		configFile  = fs.String("config", "", "設定ファイルパス (YAML/JSON/TOML)")
		endpoint    = fs.String("endpoint", "", "ノードのWebSocketエンドポイント (既定: "+offchain.DefaultEndpoint+")")
		key         = fs.String("key", "", "読み出すストレージキー (16進)")
		kind        = fs.String("kind", "", "ストレージ種別 (PERSISTENT, LOCAL)")
		format      = fs.String("format", "", "出力形式 (hex, text)")
		origin      = fs.String("origin", "", "WebSocketのOriginヘッダ")
		timeout     = fs.Duration("timeout", 0, "全体のタイムアウト (例: 10s, 0で無制限)")
		logLevel    = fs.String("log-level", "", "ログレベル (debug, info, warn, error)")
		showVersion = fs.Bool("version", false, "バージョンを表示")
	)

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `ocw-reader - read one value from a node's off-chain local storage

Usage:
  ocw-reader [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), `
Examples:
  # 既定のノードとキーを読む
  ocw-reader

  # キーを指定
  ocw-reader --key 0xdead

  # 設定ファイルから実行
  ocw-reader --config reader.yaml

  # LOCAL領域を文字列として表示
  ocw-reader --kind LOCAL --format text
`)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return &usageError{err: err}
	}

	// バージョン表示
	if *showVersion {
		fmt.Fprintf(stdout, "ocw-reader version %s\n", version)
		return nil
	}

	readerConfig, level, err := buildReaderConfig(flagValues{
		configFile: *configFile,
		endpoint:   *endpoint,
		key:        *key,
		kind:       *kind,
		format:     *format,
		origin:     *origin,
		timeout:    *timeout,
		logLevel:   *logLevel,
	})
	if err != nil {
		return fmt.Errorf("設定エラー: %w", err)
	}
	logger.SetLevel(level)

	m := metrics.New()
	dialer := offchain.NewRPCDialer(readerConfig.Origin, m)
	reader := offchain.NewReader(dialer, readerConfig, stdout)

	err = reader.Run(ctx)

	snap := m.Snapshot()
	logger.Debug("", "RPC calls: %d (failed: %d), avg latency: %v, max latency: %v",
		snap.TotalCalls, snap.FailedCalls, snap.AverageLatency, snap.MaxLatency)

	return err
}

// flagValues はコマンドラインで指定された値
type flagValues struct {
	configFile string
	endpoint   string
	key        string
	kind       string
	format     string
	origin     string
	timeout    time.Duration
	logLevel   string
}

// buildReaderConfig は設定ファイルとフラグから設定を構築する
func buildReaderConfig(fv flagValues) (offchain.Config, logger.Level, error) {
	fileConfig := &config.FileConfig{}

	// 1. 設定ファイルから読み込み
	if fv.configFile != "" {
		loaded, err := config.LoadFile(fv.configFile)
		if err != nil {
			return offchain.Config{}, logger.LevelInfo, fmt.Errorf("設定ファイル読み込みエラー: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return offchain.Config{}, logger.LevelInfo, fmt.Errorf("設定検証エラー: %w", err)
		}
		fileConfig = loaded
	}

	// 2. フラグでオーバーライド
	if fv.endpoint != "" {
		fileConfig.Node.Endpoint = fv.endpoint
	}
	if fv.origin != "" {
		fileConfig.Node.Origin = fv.origin
	}
	if fv.timeout > 0 {
		fileConfig.Node.Timeout = fv.timeout.String()
	}
	if fv.key != "" {
		fileConfig.Storage.Key = fv.key
	}
	if fv.kind != "" {
		fileConfig.Storage.Kind = fv.kind
	}
	if fv.format != "" {
		fileConfig.Output.Format = fv.format
	}
	if fv.logLevel != "" {
		fileConfig.Log.Level = fv.logLevel
	}

	if err := fileConfig.Validate(); err != nil {
		return offchain.Config{}, logger.LevelInfo, err
	}

	readerConfig, err := fileConfig.ToReaderConfig()
	if err != nil {
		return offchain.Config{}, logger.LevelInfo, err
	}

	level, err := fileConfig.LogLevel()
	if err != nil {
		return offchain.Config{}, logger.LevelInfo, err
	}

	return readerConfig, level, nil
}
