package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	defer Sync()
	Info("Testing")
	Debug("Testing")
	Warn("Testing")
	Error("Testing")
}

func TestSetLoggerCapturesFields(t *testing.T) {
	prev := L()
	defer SetLogger(prev)

	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))

	Debug("filter group classified", String("field", "quantity"), Bool("expensive", true))

	entries := logs.FilterMessage("filter group classified").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "quantity", entries[0].ContextMap()["field"])
	assert.Equal(t, true, entries[0].ContextMap()["expensive"])
}

func TestSetLoggerNil(t *testing.T) {
	prev := L()
	defer SetLogger(prev)

	SetLogger(nil)
	assert.NotNil(t, L())
	Info("dropped")
}

func TestSetLevel(t *testing.T) {
	defer func() { _ = SetLevel("info") }()

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, zapcore.DebugLevel, level.Level())
	require.NoError(t, SetLevel(""))
	assert.Equal(t, zapcore.DebugLevel, level.Level())
	assert.Error(t, SetLevel("loud"))
}
