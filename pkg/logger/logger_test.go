package logger

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reset clears the global logger state so each test can run Setup again.
func reset(t *testing.T) {
	t.Helper()
	Sync()
	once = sync.Once{}
	globalZapLogger = nil
	globalLogrLogger = nil
	logFile = nil
	setupErr = nil
	t.Cleanup(func() {
		Sync()
		once = sync.Once{}
		globalZapLogger = nil
		globalLogrLogger = nil
		setupErr = nil
	})
}

func TestGetReturnsSameInstance(t *testing.T) {
	reset(t)
	l1 := Get(0)
	l2 := Get(-1)
	require.NotNil(t, l1)
	assert.Same(t, l1, l2)
}

func TestSetupWritesToFile(t *testing.T) {
	reset(t)
	path := filepath.Join(t.TempDir(), "statelens.log")

	l, err := Setup(Options{Level: -1, File: path})
	require.NoError(t, err)
	l.V(1).Info("edit committed", PathKey, "$.b.c")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"edit committed"`)
	assert.Contains(t, string(data), `"path":"$.b.c"`)
	assert.Contains(t, string(data), `"version":`)
}

func TestSetupFileErrorFallsBackToNoop(t *testing.T) {
	reset(t)
	l, err := Setup(Options{File: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open log file")
	assert.Same(t, &defaultNoopLogger, l)
	assert.Same(t, &defaultNoopLogger, FromContext(context.Background()))
}

func TestWithLogger(t *testing.T) {
	reset(t)
	l := Get(0)
	ctx := WithLogger(context.Background(), l)
	assert.Same(t, l, ctx.Value(loggerContextKey{}))
	assert.Equal(t, ctx, WithLogger(ctx, l), "same logger keeps the context")

	other := logr.Discard()
	replaced := WithLogger(ctx, &other)
	assert.Same(t, &other, FromContext(replaced))
}

func TestFromContextFallbacks(t *testing.T) {
	reset(t)
	assert.Same(t, &defaultNoopLogger, FromContext(context.Background()))

	l := Get(0)
	assert.Same(t, l, FromContext(context.Background()))
}

func TestSyncWithoutLogger(t *testing.T) {
	reset(t)
	assert.NotPanics(t, Sync)
}

func TestGetNoopLogger(t *testing.T) {
	l := GetNoopLogger()
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Info("discarded") })
}

func TestWithValues(t *testing.T) {
	base := logr.Discard()
	got := WithValues(&base, "key", "value")
	require.NotNil(t, got)
	assert.NotSame(t, &base, got)
	assert.NotSame(t, &base, WithValues(&base))

	var nilLogger *logr.Logger
	assert.Panics(t, func() { _ = WithValues(nilLogger, "k", "v") })
}
