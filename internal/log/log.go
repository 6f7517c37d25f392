// Copyright 2026 The linkedrows Authors
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

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	Debug = "DEBUG"
	Info  = "INFO"
	Warn  = "WARN"
	Error = "ERROR"
)

// NewLogger dispatches to NewStdLogger or NewStructuredLogger based on
// format ("standard" or "json"); everything else in the export engine logs
// through the returned Logger rather than picking a format for itself.
func NewLogger(format, level string, out, err io.Writer) (Logger, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewStructuredLogger(out, err, level)
	case "standard":
		return NewStdLogger(out, err, level)
	default:
		return nil, fmt.Errorf("logging format invalid: %s", format)
	}
}

// SeverityToLevel maps one of the Debug/Info/Warn/Error constants onto its
// slog.Level, case-insensitively.
func SeverityToLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(s) {
	case Debug:
		return slog.LevelDebug, nil
	case Info:
		return slog.LevelInfo, nil
	case Warn:
		return slog.LevelWarn, nil
	case Error:
		return slog.LevelError, nil
	default:
		return slog.Level(-5), fmt.Errorf("invalid log level")
	}
}

func severityToLevelVar(logLevel string) (*slog.LevelVar, error) {
	lvl, err := SeverityToLevel(logLevel)
	if err != nil {
		return nil, err
	}
	v := new(slog.LevelVar)
	v.Set(lvl)
	return v, nil
}

func levelToSeverity(s string) (string, error) {
	switch s {
	case slog.LevelDebug.String():
		return Debug, nil
	case slog.LevelInfo.String():
		return Info, nil
	case slog.LevelWarn.String():
		return Warn, nil
	case slog.LevelError.String():
		return Error, nil
	default:
		return "", fmt.Errorf("invalid slog level")
	}
}

// StdLogger writes one line per record in the ValueTextHandler format,
// routing WARN and above to err and everything else to out.
type StdLogger struct {
	outLogger *slog.Logger
	errLogger *slog.Logger
}

// NewStdLogger builds a StdLogger that drops records below logLevel and
// sends WARN and above to err, everything else to out.
func NewStdLogger(out, err io.Writer, logLevel string) (Logger, error) {
	programLevel, lerr := severityToLevelVar(logLevel)
	if lerr != nil {
		return nil, lerr
	}
	opts := &slog.HandlerOptions{Level: programLevel}

	return &StdLogger{
		outLogger: slog.New(NewValueTextHandler(out, opts)),
		errLogger: slog.New(NewValueTextHandler(err, opts)),
	}, nil
}

func (sl *StdLogger) DebugContext(ctx context.Context, msg string, keysAndValues ...any) {
	sl.outLogger.DebugContext(ctx, msg, keysAndValues...)
}

func (sl *StdLogger) InfoContext(ctx context.Context, msg string, keysAndValues ...any) {
	sl.outLogger.InfoContext(ctx, msg, keysAndValues...)
}

func (sl *StdLogger) WarnContext(ctx context.Context, msg string, keysAndValues ...any) {
	sl.errLogger.WarnContext(ctx, msg, keysAndValues...)
}

func (sl *StdLogger) ErrorContext(ctx context.Context, msg string, keysAndValues ...any) {
	sl.errLogger.ErrorContext(ctx, msg, keysAndValues...)
}

// SlogLogger exposes a single *slog.Logger that fans records out to
// outLogger or errLogger by level, for collaborators that want raw slog
// rather than the Logger interface.
func (sl *StdLogger) SlogLogger() *slog.Logger {
	return slog.New(&SplitHandler{OutHandler: sl.outLogger.Handler(), ErrHandler: sl.errLogger.Handler()})
}

// StructuredLogger emits JSON records shaped like a Cloud Logging
// LogEntry, so export runs in a container can be ingested without a
// side-car log shipper doing format translation.
type StructuredLogger struct {
	outLogger *slog.Logger
	errLogger *slog.Logger
}

// NewStructuredLogger builds a StructuredLogger that drops records below
// logLevel and sends WARN and above to err, everything else to out.
func NewStructuredLogger(out, err io.Writer, logLevel string) (Logger, error) {
	programLevel, lerr := severityToLevelVar(logLevel)
	if lerr != nil {
		return nil, lerr
	}
	opts := &slog.HandlerOptions{
		AddSource:   true,
		Level:       programLevel,
		ReplaceAttr: structuredReplaceAttr,
	}

	return &StructuredLogger{
		outLogger: slog.New(handlerWithSpanContext(slog.NewJSONHandler(out, opts))),
		errLogger: slog.New(handlerWithSpanContext(slog.NewJSONHandler(err, opts))),
	}, nil
}

// structuredReplaceAttr renames slog's built-in keys onto the field names
// https://cloud.google.com/logging/docs/reference/v2/rest/v2/LogEntry
// expects.
func structuredReplaceAttr(groups []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.LevelKey:
		sev, _ := levelToSeverity(a.Value.String())
		return slog.Attr{Key: "severity", Value: slog.StringValue(sev)}
	case slog.MessageKey:
		return slog.Attr{Key: "message", Value: a.Value}
	case slog.SourceKey:
		return slog.Attr{Key: "logging.googleapis.com/sourceLocation", Value: a.Value}
	case slog.TimeKey:
		return slog.Attr{Key: "timestamp", Value: a.Value}
	default:
		return a
	}
}

func (sl *StructuredLogger) DebugContext(ctx context.Context, msg string, keysAndValues ...any) {
	sl.outLogger.DebugContext(ctx, msg, keysAndValues...)
}

func (sl *StructuredLogger) InfoContext(ctx context.Context, msg string, keysAndValues ...any) {
	sl.outLogger.InfoContext(ctx, msg, keysAndValues...)
}

func (sl *StructuredLogger) WarnContext(ctx context.Context, msg string, keysAndValues ...any) {
	sl.errLogger.WarnContext(ctx, msg, keysAndValues...)
}

func (sl *StructuredLogger) ErrorContext(ctx context.Context, msg string, keysAndValues ...any) {
	sl.errLogger.ErrorContext(ctx, msg, keysAndValues...)
}

// SlogLogger exposes a single *slog.Logger that fans records out to
// outLogger or errLogger by level, for collaborators that want raw slog
// rather than the Logger interface.
func (sl *StructuredLogger) SlogLogger() *slog.Logger {
	return slog.New(&SplitHandler{OutHandler: sl.outLogger.Handler(), ErrHandler: sl.errLogger.Handler()})
}

// SplitHandler routes WARN-and-above records to ErrHandler and everything
// else to OutHandler, so a single *slog.Logger can still honor the
// out/err stream split StdLogger and StructuredLogger apply directly.
type SplitHandler struct {
	OutHandler slog.Handler
	ErrHandler slog.Handler
}

func (h *SplitHandler) handlerFor(level slog.Level) slog.Handler {
	if level >= slog.LevelWarn {
		return h.ErrHandler
	}
	return h.OutHandler
}

func (h *SplitHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handlerFor(level).Enabled(ctx, level)
}

func (h *SplitHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.handlerFor(r.Level).Handle(ctx, r)
}

func (h *SplitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SplitHandler{
		OutHandler: h.OutHandler.WithAttrs(attrs),
		ErrHandler: h.ErrHandler.WithAttrs(attrs),
	}
}

func (h *SplitHandler) WithGroup(name string) slog.Handler {
	return &SplitHandler{
		OutHandler: h.OutHandler.WithGroup(name),
		ErrHandler: h.ErrHandler.WithGroup(name),
	}
}
