// Copyright 2026 The picokern Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides a minimal leveled logging facility for the kernel.
//
// The kernel runs a single logical flow at a time, so there is no
// contention on the log target in practice; the mutex below exists only to
// keep the package safe for use from tests that drive several kernels.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Level is the log level.
type Level uint32

const (
	// Warning indicates that output should always be emitted.
	Warning Level = iota

	// Info indicates that output should normally be emitted.
	Info

	// Debug indicates that output should not normally be emitted.
	Debug
)

func (l Level) String() string {
	switch l {
	case Warning:
		return "Warning"
	case Info:
		return "Info"
	case Debug:
		return "Debug"
	default:
		return fmt.Sprintf("Invalid level: %d", l)
	}
}

// Emitter is the final destination for log lines.
type Emitter interface {
	// Emit emits the given log statement. Emit is responsible for
	// rendering format and args into a line, including level and
	// timestamp decoration.
	Emit(level Level, timestamp time.Time, format string, v ...any)
}

// Writer writes an emitted line to an io.Writer, counting lines dropped on
// write failure so that gaps in the log are visible.
type Writer struct {
	// Next is the write destination.
	Next io.Writer

	// mu protects fields below.
	mu sync.Mutex

	// errors counts failed writes since the last successful one.
	errors int
}

// Write writes out the given bytes, dropping the line on failure.
func (l *Writer) Write(data []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.errors > 0 {
		// Report any dropped lines before continuing.
		if _, err := fmt.Fprintf(l.Next, "\n*** Dropped %d log messages ***\n", l.errors); err != nil {
			l.errors++
			return 0, err
		}
		l.errors = 0
	}

	n, err := l.Next.Write(data)
	if err != nil {
		l.errors++
	}
	return n, err
}

// Emit emits the message as a plain line.
func (l *Writer) Emit(level Level, timestamp time.Time, format string, args ...any) {
	fmt.Fprintf(l, format+"\n", args...)
}

// TextEmitter decorates each line with the level letter and a timestamp, in
// the style of the classic kernel console.
type TextEmitter struct {
	*Writer
}

// Emit implements Emitter.Emit.
func (e TextEmitter) Emit(level Level, timestamp time.Time, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	fmt.Fprintf(e.Writer, "%c%s] %s\n", level.String()[0], timestamp.Format("0102 15:04:05.000000"), line)
}

// MultiEmitter fans an emitted line out to all members.
type MultiEmitter []Emitter

// Emit implements Emitter.Emit.
func (m *MultiEmitter) Emit(level Level, timestamp time.Time, format string, v ...any) {
	for _, e := range *m {
		e.Emit(level, timestamp, format, v...)
	}
}

// Logger is a logging target bound to a level.
type Logger struct {
	level atomic.Uint32
	e     atomic.Pointer[Emitter]
}

// IsLogging returns whether the given level would be emitted.
func (l *Logger) IsLogging(level Level) bool {
	return uint32(level) <= l.level.Load()
}

// Logf emits at the given level.
func (l *Logger) Logf(level Level, format string, v ...any) {
	if !l.IsLogging(level) {
		return
	}
	(*l.e.Load()).Emit(level, time.Now(), format, v...)
}

// Debugf emits at the Debug level.
func (l *Logger) Debugf(format string, v ...any) {
	l.Logf(Debug, format, v...)
}

// Infof emits at the Info level.
func (l *Logger) Infof(format string, v ...any) {
	l.Logf(Info, format, v...)
}

// Warningf emits at the Warning level.
func (l *Logger) Warningf(format string, v ...any) {
	l.Logf(Warning, format, v...)
}

var log Logger

func init() {
	SetLevel(Info)
	SetTarget(TextEmitter{&Writer{Next: os.Stderr}})
}

// Log returns the process log.
func Log() *Logger {
	return &log
}

// SetLevel sets the log level for the process log.
func SetLevel(level Level) {
	log.level.Store(uint32(level))
}

// SetTarget sets the log target for the process log.
func SetTarget(e Emitter) {
	log.e.Store(&e)
}

// Debugf logs to the process log.
func Debugf(format string, v ...any) {
	log.Debugf(format, v...)
}

// Infof logs to the process log.
func Infof(format string, v ...any) {
	log.Infof(format, v...)
}

// Warningf logs to the process log.
func Warningf(format string, v ...any) {
	log.Warningf(format, v...)
}

// IsLogging returns whether the process log emits the given level.
func IsLogging(level Level) bool {
	return log.IsLogging(level)
}
