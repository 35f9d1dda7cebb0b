package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ocw-reader/internal/logger"
	"ocw-reader/internal/offchain"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileConfig は設定ファイルの構造
type FileConfig struct {
	Node    NodeConfig    `yaml:"node" json:"node" toml:"node"`
	Storage StorageConfig `yaml:"storage" json:"storage" toml:"storage"`
	Output  OutputConfig  `yaml:"output" json:"output" toml:"output"`
	Log     LogConfig     `yaml:"log" json:"log" toml:"log"`
}

// NodeConfig は接続先ノードの設定
type NodeConfig struct {
	Endpoint string `yaml:"endpoint" json:"endpoint" toml:"endpoint"`
	Origin   string `yaml:"origin" json:"origin" toml:"origin"`
	Timeout  string `yaml:"timeout" json:"timeout" toml:"timeout"`
}

// StorageConfig は読み出し対象の設定
type StorageConfig struct {
	Kind string `yaml:"kind" json:"kind" toml:"kind"`
	Key  string `yaml:"key" json:"key" toml:"key"`
}

// OutputConfig は出力の設定
type OutputConfig struct {
	Format string `yaml:"format" json:"format" toml:"format"`
}

// LogConfig はログの設定
type LogConfig struct {
	Level string `yaml:"level" json:"level" toml:"level"`
}

// LoadFile は設定ファイルを読み込む
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config FileConfig
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &config); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return &config, nil
}

// Validate は設定を検証する
func (f *FileConfig) Validate() error {
	if f.Node.Endpoint != "" {
		if err := ValidateEndpoint(f.Node.Endpoint); err != nil {
			return err
		}
	}

	if f.Node.Timeout != "" {
		d, err := time.ParseDuration(f.Node.Timeout)
		if err != nil {
			return fmt.Errorf("node.timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("node.timeout must be non-negative")
		}
	}

	if _, err := offchain.ParseStorageKind(f.Storage.Kind); err != nil {
		return fmt.Errorf("storage.kind: %w", err)
	}

	if f.Storage.Key != "" {
		if _, err := offchain.ParseKey(f.Storage.Key); err != nil {
			return fmt.Errorf("storage.key: %w", err)
		}
	}

	if _, err := offchain.ParseFormat(f.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}

	if _, err := logger.ParseLevel(f.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

// ValidateEndpoint はエンドポイントがWebSocketのURLかどうかを検証する
func ValidateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("endpoint must use ws:// or wss://, got %q", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint has no host: %q", endpoint)
	}
	return nil
}

// ToReaderConfig はFileConfigをoffchain.Configに変換する
func (f *FileConfig) ToReaderConfig() (offchain.Config, error) {
	// デフォルト値の設定
	config := offchain.DefaultConfig()

	if f.Node.Endpoint != "" {
		config.Endpoint = f.Node.Endpoint
	}
	if f.Node.Origin != "" {
		config.Origin = f.Node.Origin
	}
	if f.Node.Timeout != "" {
		d, err := time.ParseDuration(f.Node.Timeout)
		if err != nil {
			return config, fmt.Errorf("invalid timeout: %w", err)
		}
		config.Timeout = d
	}

	if f.Storage.Kind != "" {
		kind, err := offchain.ParseStorageKind(f.Storage.Kind)
		if err != nil {
			return config, err
		}
		config.Kind = kind
	}
	if f.Storage.Key != "" {
		key, err := offchain.ParseKey(f.Storage.Key)
		if err != nil {
			return config, err
		}
		config.Key = key
	}

	if f.Output.Format != "" {
		format, err := offchain.ParseFormat(f.Output.Format)
		if err != nil {
			return config, err
		}
		config.Format = format
	}

	return config, nil
}

// LogLevel はログレベルを返す（未指定ならInfo）
func (f *FileConfig) LogLevel() (logger.Level, error) {
	return logger.ParseLevel(f.Log.Level)
}
