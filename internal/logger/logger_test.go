package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactSecrets(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.Info("key saved", "provider", "openai", "api_key", "sk-live-123", "session_token", "abc")

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "openai", fields["provider"])
	assert.Equal(t, "[REDACTED]", fields["api_key"])
	assert.Equal(t, "[REDACTED]", fields["session_token"])
}

func TestRedactOddArgs(t *testing.T) {
	out := redact([]interface{}{"secret", "x", "dangling"})
	assert.Equal(t, []interface{}{"secret", "[REDACTED]", "dangling"}, out)
}

func TestNew_InvalidLevelFallsBack(t *testing.T) {
	l, err := New("development", "nonsense")
	assert.NoError(t, err)
	assert.NotNil(t, l)
}
