package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-biorhythm/internal/config"
)

func TestNewLogger(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("cache directory is redirected through XDG_CACHE_HOME")
	}
	cache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cache)

	var console bytes.Buffer
	logger, closeLog := newLogger(&console, false)
	logger.Debug("hidden")
	logger.Info(config.MsgAppStarting, config.LogKeyComponent, config.CompMain)
	closeLog()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(console.Bytes(), &entry), "exactly one JSON line")
	assert.Equal(t, config.MsgAppStarting, entry["msg"])
	assert.Equal(t, config.CompMain, entry[config.LogKeyComponent])

	data, err := os.ReadFile(filepath.Join(cache, config.AppID, config.LogFileName))
	require.NoError(t, err)
	assert.Equal(t, console.String(), string(data))
}

func TestNewLogger_FileOnly(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("cache directory is redirected through XDG_CACHE_HOME")
	}
	cache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cache)

	logger, closeLog := newLogger(nil, true)
	logger.Debug("visible")
	closeLog()

	data, err := os.ReadFile(filepath.Join(cache, config.AppID, config.LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"visible"`)
	assert.Contains(t, string(data), `"source"`, "debug adds source locations")
}
