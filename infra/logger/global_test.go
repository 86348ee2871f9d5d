package logger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resetGlobal() {
	SetGlobalLogger(nil)
	once = sync.Once{}
}

func TestInitGlobalLogger(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	InitGlobalLogger(nil)

	l := GetGlobalLogger()
	assert.NotNil(t, l)
	assert.Equal(t, "gosquare", l.service)
	assert.False(t, l.enableOpenSearch)
}

func TestGetGlobalLogger_Fallback(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	l := GetGlobalLogger()
	assert.NotNil(t, l)
	assert.Equal(t, LevelInfo, l.minLevel)
	assert.Same(t, l, GetGlobalLogger())
}

func TestGlobalLoggerConvenienceFunctions(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	l, buf := newBufferLogger(LevelDebug)
	SetGlobalLogger(l)

	Debug("debug message")
	Info("info message")
	Warn("warn message", LogContext{Provider: "square"})
	Error("error message", nil)

	assert.Len(t, decodeLines(t, buf), 4)
}

func TestWithProvider(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	cl := WithProvider("square")
	assert.Equal(t, "square", cl.context.Provider)
}
