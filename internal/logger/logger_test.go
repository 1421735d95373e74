package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterLogger_Debug(t *testing.T) {
	tests := []struct {
		name      string
		envValue  string
		force     bool
		expectLog bool
	}{
		{name: "logs when PLANTDASH_DEBUG is set", envValue: "1", expectLog: true},
		{name: "logs when PLANTDASH_DEBUG is any value", envValue: "true", expectLog: true},
		{name: "logs when forced", force: true, expectLog: true},
		{name: "silent otherwise", expectLog: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(DebugEnv, tt.envValue)
			} else {
				os.Unsetenv(DebugEnv)
			}
			SetDebug(tt.force)
			defer SetDebug(false)

			var buf bytes.Buffer
			l := NewWriterLogger("test", &buf)
			l.Debug("test message %s", "arg")

			if tt.expectLog {
				assert.Contains(t, buf.String(), "test message arg")
				assert.Contains(t, buf.String(), "DEBUG")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestWriterLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(Logger)
		level string
		msg   string
	}{
		{name: "info", log: func(l Logger) { l.Info("info message %d", 42) }, level: "INFO", msg: "info message 42"},
		{name: "warn", log: func(l Logger) { l.Warn("unresolved widget %q", "w1") }, level: "WARN", msg: `unresolved widget "w1"`},
		{name: "error", log: func(l Logger) { l.Error("tick failed") }, level: "ERROR", msg: "tick failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewWriterLogger("sim", &buf))

			out := buf.String()
			assert.Contains(t, out, tt.level)
			assert.Contains(t, out, "sim")
			assert.Contains(t, out, tt.msg)
		})
	}
}

func TestWriterLogger_FormatStrings(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("fmt", &buf)

	l.Info("int: %d, string: %s, float: %.2f", 42, "hello", 3.14159)

	out := buf.String()
	assert.Contains(t, out, "int: 42")
	assert.Contains(t, out, "string: hello")
	assert.Contains(t, out, "float: 3.14")
}

func TestNoopLogger(t *testing.T) {
	l := Noop()
	assert.NotPanics(t, func() {
		l.Debug("debug")
		l.Info("info")
		l.Warn("warn")
		l.Error("error")
	})
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %s", "msg")
	l.Info("info %s", "msg")
	l.Warn("warn %s", "msg")
	l.Error("error %s", "msg")

	require.Len(t, l.Messages, 4)
	assert.Equal(t, LogMessage{Level: "debug", Message: "debug msg"}, l.Messages[0])
	assert.Equal(t, LogMessage{Level: "info", Message: "info msg"}, l.Messages[1])
	assert.Equal(t, LogMessage{Level: "warn", Message: "warn msg"}, l.Messages[2])
	assert.Equal(t, LogMessage{Level: "error", Message: "error msg"}, l.Messages[3])
}

func TestBufferLogger_HasLevelAndCount(t *testing.T) {
	l := NewBufferLogger()

	assert.False(t, l.HasLevel("warn"))

	l.Warn("a")
	l.Warn("b")
	l.Info("c")

	assert.True(t, l.HasLevel("warn"))
	assert.Equal(t, 2, l.Count("warn"))
	assert.Equal(t, 1, l.Count("info"))
	assert.Equal(t, 0, l.Count("error"))
}

func TestBufferLogger_Clear(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("test1")
	l.Info("test2")
	require.Len(t, l.Messages, 2)

	l.Clear()
	assert.Empty(t, l.Messages)
}

func TestDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	assert.NotNil(t, Default())

	buf := NewBufferLogger()
	SetDefault(buf)
	assert.Equal(t, buf, Default())
}

func TestLoggerInterface(t *testing.T) {
	var _ Logger = NewEnvLogger("")
	var _ Logger = Noop()
	var _ Logger = NewBufferLogger()
}
