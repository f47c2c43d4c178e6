package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name   string
		want   Level
		wantOK bool
	}{
		{name: "debug", want: LevelDebug, wantOK: true},
		{name: " DEBUG ", want: LevelDebug, wantOK: true},
		{name: "", want: LevelInfo, wantOK: true},
		{name: "warning", want: LevelWarn, wantOK: true},
		{name: "error", want: LevelError, wantOK: true},
		{name: "verbose", want: LevelInfo, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := ParseLevel(tt.name)
			assert.Equal(t, tt.want, level)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestLoggerFiltersAndRoutes(t *testing.T) {
	var out, errOut bytes.Buffer
	l := New(&out, &errOut)

	l.Debug("hidden %d", 1)
	l.Info("joined %s", "alice")
	l.Warn("slow client")
	l.Error("boom")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "INFO: joined alice")
	assert.Contains(t, out.String(), "WARN: slow client")
	assert.Contains(t, out.String(), "logger_test.go")
	assert.Contains(t, errOut.String(), "ERROR: boom")
	assert.NotContains(t, out.String(), "boom")

	out.Reset()
	l.SetLevel(LevelDebug)
	l.Debug("visible")
	assert.Contains(t, out.String(), "DEBUG: visible")

	out.Reset()
	l.SetLevel(LevelError)
	l.Warn("quiet")
	assert.Empty(t, out.String())
}
