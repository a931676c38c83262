// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
)

var (
	isTerm    = isatty.IsTerminal(os.Stderr.Fd())
	isJournal = isStderrConnectedToJournal()
)

var defaultHandler atomic.Pointer[slog.Handler]

func init() {
	h := newDefaultHandler()
	defaultHandler.Store(&h)
}

func newDefaultHandler() slog.Handler {
	if isTerm {
		return newTerminalHandler()
	}
	return newTextHandler()
}

// SetHandler replaces the handler used by loggers created after the call.
// Tests use it to capture output.
func SetHandler(h slog.Handler) {
	defaultHandler.Store(&h)
}

// Logger is a thin leveled wrapper around slog.Logger.
// Components embed *Logger and call the printf-style methods directly.
type Logger struct {
	muted atomic.Bool
	sl    *slog.Logger
}

// New creates a Logger that writes through the default handler.
func New() *Logger {
	return &Logger{sl: slog.New(*defaultHandler.Load())}
}

// With returns a child Logger that adds attrs to every record.
func (l *Logger) With(args ...any) *Logger {
	if l.isNil() {
		return &Logger{sl: New().sl.With(args...)}
	}
	ll := &Logger{sl: l.sl.With(args...)}
	ll.muted.Store(l.muted.Load())
	return ll
}

func (l *Logger) Error(a ...any)                   { l.log(slog.LevelError, fmt.Sprint(a...)) }
func (l *Logger) Warning(a ...any)                 { l.log(slog.LevelWarn, fmt.Sprint(a...)) }
func (l *Logger) Notice(a ...any)                  { l.log(levelNotice, fmt.Sprint(a...)) }
func (l *Logger) Info(a ...any)                    { l.log(slog.LevelInfo, fmt.Sprint(a...)) }
func (l *Logger) Debug(a ...any)                   { l.log(slog.LevelDebug, fmt.Sprint(a...)) }
func (l *Logger) Errorf(format string, a ...any)   { l.log(slog.LevelError, fmt.Sprintf(format, a...)) }
func (l *Logger) Warningf(format string, a ...any) { l.log(slog.LevelWarn, fmt.Sprintf(format, a...)) }
func (l *Logger) Noticef(format string, a ...any)  { l.log(levelNotice, fmt.Sprintf(format, a...)) }
func (l *Logger) Infof(format string, a ...any)    { l.log(slog.LevelInfo, fmt.Sprintf(format, a...)) }
func (l *Logger) Debugf(format string, a ...any)   { l.log(slog.LevelDebug, fmt.Sprintf(format, a...)) }

func (l *Logger) Mute()   { l.muted.Store(true) }
func (l *Logger) Unmute() { l.muted.Store(false) }

func (l *Logger) log(level slog.Level, msg string) {
	if !Level.Enabled(level) || (!l.isNil() && l.muted.Load()) {
		return
	}

	// https://pkg.go.dev/log/slog#example-package-Wrapping
	var pcs [1]uintptr
	// skip Callers, log and the exported method
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	_ = l.handler().Handle(context.Background(), r)
}

func (l *Logger) handler() slog.Handler {
	if l.isNil() {
		return *defaultHandler.Load()
	}
	return l.sl.Handler()
}

func (l *Logger) isNil() bool { return l == nil || l.sl == nil }
