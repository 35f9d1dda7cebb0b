package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ocw-reader/internal/logger"
	"ocw-reader/internal/offchain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFileYAML(t *testing.T) {
	path := writeTemp(t, "config.yaml", `
node:
  endpoint: ws://10.0.0.5:9944
  origin: http://example.com
  timeout: 30s
storage:
  kind: LOCAL
  key: "0xdead"
output:
  format: text
log:
  level: debug
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "ws://10.0.0.5:9944", cfg.Node.Endpoint)
	assert.Equal(t, "http://example.com", cfg.Node.Origin)
	assert.Equal(t, "30s", cfg.Node.Timeout)
	assert.Equal(t, "LOCAL", cfg.Storage.Kind)
	assert.Equal(t, "0xdead", cfg.Storage.Key)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFileJSON(t *testing.T) {
	path := writeTemp(t, "config.json", `{
  "node": {"endpoint": "wss://rpc.example.org"},
  "storage": {"key": "0xbeef"}
}`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "wss://rpc.example.org", cfg.Node.Endpoint)
	assert.Equal(t, "0xbeef", cfg.Storage.Key)
	assert.Empty(t, cfg.Storage.Kind)
}

func TestLoadFileTOML(t *testing.T) {
	path := writeTemp(t, "config.toml", `
[node]
endpoint = "ws://127.0.0.1:9945"

[storage]
kind = "PERSISTENT"
key = "0x01"

[log]
level = "warn"
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "ws://127.0.0.1:9945", cfg.Node.Endpoint)
	assert.Equal(t, "0x01", cfg.Storage.Key)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := LoadFile("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadFileUnsupportedFormat(t *testing.T) {
	path := writeTemp(t, "config.txt", "test")

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileInvalidYAML(t *testing.T) {
	path := writeTemp(t, "config.yaml", "node: [unclosed")

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestToReaderConfigDefaults(t *testing.T) {
	cfg := &FileConfig{}

	rc, err := cfg.ToReaderConfig()
	require.NoError(t, err)

	assert.Equal(t, offchain.DefaultConfig(), rc)
	assert.Equal(t, offchain.DefaultEndpoint, rc.Endpoint)
	assert.Equal(t, offchain.DefaultKey, rc.Key.String())
	assert.Equal(t, offchain.KindPersistent, rc.Kind)
	assert.Zero(t, rc.Timeout)
}

func TestToReaderConfigOverrides(t *testing.T) {
	cfg := &FileConfig{
		Node:    NodeConfig{Endpoint: "ws://node:9944", Origin: "http://o", Timeout: "5s"},
		Storage: StorageConfig{Kind: "local", Key: "0xdead"},
		Output:  OutputConfig{Format: "text"},
	}

	rc, err := cfg.ToReaderConfig()
	require.NoError(t, err)

	assert.Equal(t, "ws://node:9944", rc.Endpoint)
	assert.Equal(t, "http://o", rc.Origin)
	assert.Equal(t, 5*time.Second, rc.Timeout)
	assert.Equal(t, offchain.KindLocal, rc.Kind)
	assert.Equal(t, offchain.Key{0xde, 0xad}, rc.Key)
	assert.Equal(t, offchain.FormatText, rc.Format)
}

func TestToReaderConfigInvalid(t *testing.T) {
	tests := []FileConfig{
		{Node: NodeConfig{Timeout: "soon"}},
		{Storage: StorageConfig{Kind: "session"}},
		{Storage: StorageConfig{Key: "0xzz"}},
		{Output: OutputConfig{Format: "base64"}},
	}

	for i, cfg := range tests {
		_, err := cfg.ToReaderConfig()
		assert.Error(t, err, "case %d", i)
	}
}

func TestValidate(t *testing.T) {
	valid := &FileConfig{
		Node:    NodeConfig{Endpoint: "wss://rpc.example.org:443", Timeout: "1m"},
		Storage: StorageConfig{Kind: "PERSISTENT", Key: "0x00"},
		Output:  OutputConfig{Format: "hex"},
		Log:     LogConfig{Level: "error"},
	}
	assert.NoError(t, valid.Validate())
	assert.NoError(t, (&FileConfig{}).Validate(), "empty config is valid")

	invalid := []FileConfig{
		{Node: NodeConfig{Endpoint: "http://127.0.0.1:9933"}},
		{Node: NodeConfig{Endpoint: "ws://"}},
		{Node: NodeConfig{Timeout: "-1s"}},
		{Node: NodeConfig{Timeout: "never"}},
		{Storage: StorageConfig{Kind: "session"}},
		{Storage: StorageConfig{Key: "abc"}},
		{Output: OutputConfig{Format: "yaml"}},
		{Log: LogConfig{Level: "trace"}},
	}
	for i, cfg := range invalid {
		assert.Error(t, cfg.Validate(), "case %d", i)
	}
}

func TestLogLevel(t *testing.T) {
	cfg := &FileConfig{Log: LogConfig{Level: "debug"}}

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, logger.LevelDebug, level)

	level, err = (&FileConfig{}).LogLevel()
	require.NoError(t, err)
	assert.Equal(t, logger.LevelInfo, level)
}
