package logger

import (
	"testing"

	"chatz/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZeroValueIsNoop(t *testing.T) {
	var l Logger
	assert.NotPanics(t, func() {
		l.Info("hello", "k", 1)
		l.Error("boom", "n", 2)
		l.With("a", "b").Warn("child")
	})
	assert.NoError(t, l.Sync())
}

func TestNewLogger_Levels(t *testing.T) {
	cfg := config.Default()
	cfg.LoggerMode.Level = "warn"
	l, err := NewLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, l)

	cfg.LoggerMode.Level = "not-a-level"
	_, err = NewLogger(cfg)
	assert.Error(t, err)
}

func TestFromZap_WritesKeyValues(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core))

	l.With("channel_id", uint64(7)).Info("message sent", "message_id", uint64(3))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "message sent", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, uint64(7), fields["channel_id"])
	assert.Equal(t, uint64(3), fields["message_id"])
}
