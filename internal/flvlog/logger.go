/*
NAME
  logger.go

DESCRIPTION
  logger.go defines the Logger interface this repository's core and CLI
  log through, shaped after ausocean/utils/logging.Logger as consumed
  throughout the source tool's cmd/ programs (looper, rv, speaker) and
  revid package. It is reimplemented here, rather than imported, so the
  flv/amf core stays free of the wider AusOcean device/netsender
  dependency surface that package pulls in.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package flvlog provides a small leveled-logging interface and a JSON
// line implementation backed by an io.Writer, intended to be paired with
// a lumberjack.Logger for size-based rotation in long-running CLI use.
package flvlog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Log levels, ordered from most to least verbose.
const (
	Debug int8 = iota
	Info
	Warning
	Error
	Fatal
)

// levelNames maps a level constant to its display name.
var levelNames = map[int8]string{
	Debug:   "debug",
	Info:    "info",
	Warning: "warning",
	Error:   "error",
	Fatal:   "fatal",
}

// Logger is the leveled logging interface used throughout this
// repository's core and CLI.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warning(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
	SetLevel(lvl int8)
	Log(lvl int8, msg string, args ...interface{})
}

// JSONLogger writes one JSON object per line to an underlying io.Writer,
// suppressing any record below its current level. It is safe for
// concurrent use.
type JSONLogger struct {
	mu    sync.Mutex
	w     io.Writer
	level int8
}

// record is the wire shape of a single JSON log line.
type record struct {
	Time  string                 `json:"time"`
	Level string                 `json:"level"`
	Msg   string                 `json:"msg"`
	Args  map[string]interface{} `json:"args,omitempty"`
}

// NewJSONLogger returns a JSONLogger writing to w at the given minimum
// level. Pass a *lumberjack.Logger as w for size-based rotation.
func NewJSONLogger(w io.Writer, level int8) *JSONLogger {
	return &JSONLogger{w: w, level: level}
}

// NewStderrLogger returns a JSONLogger writing to os.Stderr, for use when
// no rotating log file is configured.
func NewStderrLogger(level int8) *JSONLogger {
	return NewJSONLogger(os.Stderr, level)
}

func (l *JSONLogger) Debug(msg string, args ...interface{})   { l.Log(Debug, msg, args...) }
func (l *JSONLogger) Info(msg string, args ...interface{})    { l.Log(Info, msg, args...) }
func (l *JSONLogger) Warning(msg string, args ...interface{}) { l.Log(Warning, msg, args...) }
func (l *JSONLogger) Error(msg string, args ...interface{})   { l.Log(Error, msg, args...) }

// Fatal logs at the Fatal level and then terminates the process, mirroring
// the source tool's l.Fatal(...)-on-setup-failure convention in its cmd/
// programs.
func (l *JSONLogger) Fatal(msg string, args ...interface{}) {
	l.Log(Fatal, msg, args...)
	os.Exit(1)
}

// SetLevel changes the minimum level records are emitted at.
func (l *JSONLogger) SetLevel(lvl int8) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = lvl
}

// Log emits a single record if lvl is at or above the logger's current
// level. args are interpreted as alternating key/value pairs, matching
// the variadic convention used throughout the source tool's cmd/
// programs (l.Info("msg", "key", value, ...)).
func (l *JSONLogger) Log(lvl int8, msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lvl < l.level {
		return
	}

	rec := record{
		Time:  time.Now().UTC().Format(time.RFC3339Nano),
		Level: levelNames[lvl],
		Msg:   msg,
	}
	if len(args) > 0 {
		rec.Args = make(map[string]interface{}, len(args)/2)
		for i := 0; i+1 < len(args); i += 2 {
			key := fmt.Sprintf("%v", args[i])
			rec.Args[key] = args[i+1]
		}
	}

	b, err := json.Marshal(rec)
	if err != nil {
		fmt.Fprintf(l.w, `{"level":"error","msg":"could not marshal log record: %s"}`+"\n", err)
		return
	}
	l.w.Write(append(b, '\n'))
}
