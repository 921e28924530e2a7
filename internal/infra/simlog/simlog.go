// Package simlog implements the default domain.Logger. It wraps the
// standard library "log" package with a bracketed component prefix, the
// same shape the teacher's daemon uses ("[daemon] ...", see
// internal/daemon/daemon.go in the reference tree) — this codebase has no
// third-party logging dependency of its own, so neither does this package.
package simlog

import (
	"fmt"
	"log"
	"strings"
)

// Logger wraps the standard library logger with a component tag.
type Logger struct {
	component string
	std       *log.Logger
}

// New returns a Logger tagged with the given component name, e.g.
// simlog.New("engine") logs as "[engine] ...".
func New(component string) *Logger {
	return &Logger{component: component, std: log.Default()}
}

func (l *Logger) Info(msg string, kv ...any)  { l.emit("INFO", msg, kv...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.emit("WARN", msg, kv...) }
func (l *Logger) Error(msg string, kv ...any) { l.emit("ERROR", msg, kv...) }
func (l *Logger) Debug(msg string, kv ...any) { l.emit("DEBUG", msg, kv...) }

func (l *Logger) emit(level, msg string, kv ...any) {
	l.std.Printf("[%s] %s: %s%s", l.component, level, msg, formatKV(kv))
}

func formatKV(kv []any) string {
	if len(kv) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(kv); i += 2 {
		b.WriteString(" ")
		if i+1 < len(kv) {
			b.WriteString(fmt.Sprintf("%v=%v", kv[i], kv[i+1]))
		} else {
			b.WriteString(fmt.Sprintf("%v", kv[i]))
		}
	}
	return b.String()
}
