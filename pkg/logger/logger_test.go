package logger

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hyperboard/conf"
	"os"
	"path/filepath"
	"testing"
)

func TestInitLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	InitLogger(&conf.LogConfig{Level: "debug", FileName: path, MaxSize: 1}, "hyperboard-test")

	Info("board fetched", Pair("records", 20))
	Debugf("strategy %s hit", "embedded-state")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "board fetched")
	assert.Contains(t, string(data), `"records":20`)
	assert.Contains(t, string(data), "strategy embedded-state hit")
	assert.Contains(t, string(data), `"app":"hyperboard-test"`)
}

func TestInitLogger_LevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	InitLogger(&conf.LogConfig{Level: "warn", FileName: path}, "hyperboard-test")

	Info("hidden")
	Warnf("visible %d", 1)
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible 1")
}
