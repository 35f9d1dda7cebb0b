package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ocw-reader/internal/logger"
	"ocw-reader/internal/nodetest"
	"ocw-reader/internal/offchain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startNode(t *testing.T) *nodetest.Server {
	t.Helper()
	srv := nodetest.NewServer(nodetest.DefaultConfig())
	t.Cleanup(srv.Close)
	srv.Storage().Set(nodetest.KindPersistent, []byte{0xde, 0xad}, []byte{0x01})
	return srv
}

func TestRunExistingKey(t *testing.T) {
	srv := startNode(t)
	out := &bytes.Buffer{}

	err := run(context.Background(), []string{"-endpoint", srv.URL(), "-key", "0xdead"}, out)

	require.NoError(t, err)
	assert.Equal(t, "result: 0x01\n", out.String())
	assert.Equal(t, 0, exitCode(err))
}

func TestRunMissingKey(t *testing.T) {
	srv := startNode(t)
	out := &bytes.Buffer{}

	err := run(context.Background(), []string{"-endpoint", srv.URL(), "-key", "0xbeef"}, out)

	require.NoError(t, err)
	assert.Equal(t, "result: null\n", out.String())
}

func TestRunIdempotent(t *testing.T) {
	srv := startNode(t)
	args := []string{"-endpoint", srv.URL(), "-key", "0xdead"}

	first := &bytes.Buffer{}
	second := &bytes.Buffer{}
	require.NoError(t, run(context.Background(), args, first))
	require.NoError(t, run(context.Background(), args, second))

	assert.Equal(t, first.String(), second.String())
}

func TestRunEndpointDown(t *testing.T) {
	srv := nodetest.NewServer(nodetest.DefaultConfig())
	url := srv.URL()
	srv.Close()
	out := &bytes.Buffer{}

	err := run(context.Background(), []string{"-endpoint", url, "-key", "0xdead"}, out)

	require.Error(t, err)
	var connErr *offchain.ConnectionError
	assert.True(t, errors.As(err, &connErr), "expected *ConnectionError, got %T", err)
	assert.Equal(t, 1, exitCode(err))
	assert.False(t, strings.HasPrefix(out.String(), "result:"))
	assert.Empty(t, out.String())
}

func TestRunConfigFileWithFlagOverride(t *testing.T) {
	srv := startNode(t)
	srv.Storage().Set(nodetest.KindLocal, []byte{0xbe, 0xef}, []byte("0760"))

	path := filepath.Join(t.TempDir(), "reader.yaml")
	content := "node:\n  endpoint: " + srv.URL() + "\nstorage:\n  kind: LOCAL\n  key: \"0xdead\"\noutput:\n  format: text\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	out := &bytes.Buffer{}
	err := run(context.Background(), []string{"-config", path, "-key", "0xbeef"}, out)

	require.NoError(t, err)
	assert.Equal(t, "result: \"0760\"\n", out.String())
}

func TestRunTimeoutFlag(t *testing.T) {
	srv := startNode(t)
	out := &bytes.Buffer{}

	err := run(context.Background(), []string{"-endpoint", srv.URL(), "-key", "0xdead", "-timeout", "5s"}, out)

	require.NoError(t, err)
	assert.Equal(t, "result: 0x01\n", out.String())
}

func TestRunCanceledContext(t *testing.T) {
	srv := startNode(t)
	out := &bytes.Buffer{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run(ctx, []string{"-endpoint", srv.URL()}, out)

	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
	assert.Empty(t, out.String())
}

func TestRunVersion(t *testing.T) {
	out := &bytes.Buffer{}

	require.NoError(t, run(context.Background(), []string{"-version"}, out))
	assert.Equal(t, "ocw-reader version dev\n", out.String())
}

func TestRunBadFlag(t *testing.T) {
	err := run(context.Background(), []string{"-no-such-flag"}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestRunHelp(t *testing.T) {
	err := run(context.Background(), []string{"-h"}, &bytes.Buffer{})

	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestRunInvalidSettings(t *testing.T) {
	tests := [][]string{
		{"-endpoint", "http://127.0.0.1:9933"},
		{"-key", "0xabc"},
		{"-kind", "session"},
		{"-format", "base64"},
		{"-log-level", "trace"},
		{"-config", "/nonexistent/reader.yaml"},
	}

	for _, args := range tests {
		out := &bytes.Buffer{}
		err := run(context.Background(), args, out)
		assert.Error(t, err, "%v", args)
		assert.Equal(t, 1, exitCode(err), "%v", args)
		assert.Empty(t, out.String(), "%v", args)
	}
}

func TestBuildReaderConfigDefaults(t *testing.T) {
	rc, level, err := buildReaderConfig(flagValues{})

	require.NoError(t, err)
	assert.Equal(t, offchain.DefaultConfig(), rc)
	assert.Equal(t, logger.LevelInfo, level)
}

func TestBuildReaderConfigFlags(t *testing.T) {
	rc, level, err := buildReaderConfig(flagValues{
		endpoint: "wss://rpc.example.org",
		key:      "0x01",
		kind:     "LOCAL",
		format:   "text",
		origin:   "http://example.org",
		timeout:  3 * time.Second,
		logLevel: "debug",
	})

	require.NoError(t, err)
	assert.Equal(t, "wss://rpc.example.org", rc.Endpoint)
	assert.Equal(t, offchain.Key{0x01}, rc.Key)
	assert.Equal(t, offchain.KindLocal, rc.Kind)
	assert.Equal(t, offchain.FormatText, rc.Format)
	assert.Equal(t, "http://example.org", rc.Origin)
	assert.Equal(t, 3*time.Second, rc.Timeout)
	assert.Equal(t, logger.LevelDebug, level)
}
