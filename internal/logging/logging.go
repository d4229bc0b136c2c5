// Package logging wraps the standard library log.Logger with stage-tagged
// prefixes, following the teacher's plain log.Printf/log.Fatalf style rather than
// pulling in a structured-logging library.
package logging

import (
	"io"
	"log"
	"os"
)

// Logger writes stage-tagged lines through an embedded *log.Logger.
type Logger struct {
	*log.Logger
	w io.Writer
}

// New returns a Logger writing to w, prefixing every line with "[stage] ".
func New(w io.Writer, stage string) *Logger {
	return &Logger{Logger: log.New(w, "["+stage+"] ", log.LstdFlags), w: w}
}

// Default returns a Logger writing to os.Stderr for stage, matching the teacher's
// cmd/*/main.go convention of logging to stderr with no extra configuration.
func Default(stage string) *Logger {
	return New(os.Stderr, stage)
}

// Stage returns a new Logger for a different stage on the same underlying writer,
// used as the orchestrator moves from one pipeline stage to the next.
func (l *Logger) Stage(stage string) *Logger {
	return New(l.w, stage)
}
