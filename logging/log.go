// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

var (
	// DefaultLogger is the default logger and is used by the engine, the parser and the server.
	DefaultLogger Logger = New(os.Stderr, LevelInfo)
)

const (
	// LevelAll enables all logs.
	LevelAll = iota
	// LevelDebug logs are usually disabled in production.
	LevelDebug
	// LevelInfo is the default logging priority.
	LevelInfo
	// LevelWarn .
	LevelWarn
	// LevelError .
	LevelError
	// LevelNone disables all logs.
	LevelNone
)

var levelNames = map[string]int{
	"all":   LevelAll,
	"debug": LevelDebug,
	"info":  LevelInfo,
	"warn":  LevelWarn,
	"error": LevelError,
	"none":  LevelNone,
}

// ParseLevel converts a level name such as "debug" or "WARN" to its value.
func ParseLevel(name string) (int, error) {
	lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return LevelInfo, fmt.Errorf("invalid log level: %q", name)
	}
	return lvl, nil
}

// Logger defines log interface.
type Logger interface {
	SetLevel(lvl int)
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// SetLogger sets default logger.
func SetLogger(l Logger) {
	DefaultLogger = l
}

// SetLevel sets default logger's priority.
func SetLevel(lvl int) {
	switch lvl {
	case LevelAll, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelNone:
		DefaultLogger.SetLevel(lvl)
	default:
		log.Printf("invalid log level: %v", lvl)
	}
}

// logger implements Logger on top of a *log.Logger.
type logger struct {
	mux   sync.RWMutex
	level int
	out   *log.Logger
}

// New creates a Logger writing to w.
func New(w io.Writer, lvl int) Logger {
	l := &logger{level: LevelInfo, out: log.New(w, "", log.LstdFlags)}
	l.SetLevel(lvl)
	return l
}

// SetLevel sets logs priority.
func (l *logger) SetLevel(lvl int) {
	switch lvl {
	case LevelAll, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelNone:
		l.mux.Lock()
		l.level = lvl
		l.mux.Unlock()
	default:
		log.Printf("invalid log level: %v", lvl)
	}
}

func (l *logger) enabled(lvl int) bool {
	l.mux.RLock()
	defer l.mux.RUnlock()
	return lvl >= l.level
}

func (l *logger) output(tag, format string, v ...interface{}) {
	_ = l.out.Output(3, tag+fmt.Sprintf(format, v...))
}

// Debug logs a message at LevelDebug.
func (l *logger) Debug(format string, v ...interface{}) {
	if l.enabled(LevelDebug) {
		l.output("[DBG] ", format, v...)
	}
}

// Info logs a message at LevelInfo.
func (l *logger) Info(format string, v ...interface{}) {
	if l.enabled(LevelInfo) {
		l.output("[INF] ", format, v...)
	}
}

// Warn logs a message at LevelWarn.
func (l *logger) Warn(format string, v ...interface{}) {
	if l.enabled(LevelWarn) {
		l.output("[WRN] ", format, v...)
	}
}

// Error logs a message at LevelError.
func (l *logger) Error(format string, v ...interface{}) {
	if l.enabled(LevelError) {
		l.output("[ERR] ", format, v...)
	}
}

// Debug uses DefaultLogger to log a message at LevelDebug.
func Debug(format string, v ...interface{}) {
	if DefaultLogger != nil {
		DefaultLogger.Debug(format, v...)
	}
}

// Info uses DefaultLogger to log a message at LevelInfo.
func Info(format string, v ...interface{}) {
	if DefaultLogger != nil {
		DefaultLogger.Info(format, v...)
	}
}

// Warn uses DefaultLogger to log a message at LevelWarn.
func Warn(format string, v ...interface{}) {
	if DefaultLogger != nil {
		DefaultLogger.Warn(format, v...)
	}
}

// Error uses DefaultLogger to log a message at LevelError.
func Error(format string, v ...interface{}) {
	if DefaultLogger != nil {
		DefaultLogger.Error(format, v...)
	}
}
