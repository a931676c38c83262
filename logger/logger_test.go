// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	SetHandler(TextHandler(&buf))
	defer SetHandler(newDefaultHandler())

	prev := Level.Get()
	defer Level.Set(prev)
	Level.Set(slog.LevelInfo)

	l := New().With(slog.String("component", "test"))

	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	l.Warning("warned")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "level=warn")
	assert.Contains(t, out, "component=test")
}

func TestLogger_Mute(t *testing.T) {
	var buf bytes.Buffer
	SetHandler(TextHandler(&buf))
	defer SetHandler(newDefaultHandler())

	l := New()
	l.Mute()
	l.Error("muted")
	assert.Empty(t, buf.String())

	l.Unmute()
	l.Error("unmuted")
	assert.Contains(t, buf.String(), "unmuted")
}

func TestLogger_NilIsUsable(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Infof("nil logger %s", "ok") })
	assert.NotNil(t, l.With(slog.String("k", "v")))
}

func TestLevel_SetByName(t *testing.T) {
	prev := Level.Get()
	defer Level.Set(prev)

	tests := map[string]slog.Level{
		"error":   slog.LevelError,
		"warning": slog.LevelWarn,
		"notice":  levelNotice,
		"info":    slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"alert":   levelDisable,
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			Level.SetByName(name)
			assert.Equal(t, want, Level.Get())
		})
	}
}
