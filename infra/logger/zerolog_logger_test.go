package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	var buf bytes.Buffer
	l := NewZerologLogger("test", Options{Out: &buf})
	l.Debugf("debug %d", 1)
	l.Infow("info", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
	assert.Contains(t, buf.String(), "warn")
}

func TestZerologLoggerJSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLogger("ledger", Options{Format: "json", Out: &buf})
	l.Infow("run completed", map[string]any{"run_id": "abc"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ledger", line["component"])
	assert.Equal(t, "abc", line["run_id"])
	assert.Equal(t, "run completed", line["message"])
}

func TestConfigure(t *testing.T) {
	defer func() {
		require.NoError(t, Configure(Options{}))
	}()
	var buf bytes.Buffer
	require.NoError(t, Configure(Options{Level: "warn", Format: "json", Out: &buf}))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	New("svc").Infof("hidden")
	New("svc").Warnf("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	assert.Error(t, Configure(Options{Level: "loud"}))
	assert.Error(t, Configure(Options{Format: "xml"}))
}
