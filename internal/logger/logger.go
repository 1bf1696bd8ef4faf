// Package logger provides flowc's structured logging wrapper over
// charmbracelet/log, following the same Options/With/leveled-method shape
// the teacher project uses for its own CLI logging.
package logger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	cblog "github.com/charmbracelet/log"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level         string
	HumanReadable bool
	Writer        io.Writer
	Layer         string
	Component     string
}

// Logger wraps charmbracelet/log with correlation-friendly field merging.
type Logger struct {
	base   *cblog.Logger
	fields []interface{}
	layer  string
}

// New creates a configured Logger instance based on Options.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}

	level := cblog.InfoLevel
	if opts.Level != "" {
		parsed, err := cblog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	logOpts := cblog.Options{
		Level:           level,
		ReportTimestamp: false,
	}
	if !opts.HumanReadable {
		logOpts.Formatter = cblog.JSONFormatter
	}

	base := cblog.NewWithOptions(writer, logOpts)

	layer := opts.Layer
	if layer == "" {
		layer = "legacy"
	}
	component := opts.Component
	if component == "" {
		component = "legacy"
	}

	return &Logger{
		base:   base,
		fields: []interface{}{"component", component},
		layer:  layer,
	}, nil
}

// WithFields returns a derived logger that always writes the supplied fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil || l.base == nil || len(fields) == 0 {
		return l
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	args := make([]interface{}, 0, len(l.fields)+len(fields)*2)
	args = append(args, l.fields...)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}

	return &Logger{base: l.base, fields: args, layer: l.layer}
}

// Info writes an informational log entry.
func (l *Logger) Info(msg string) {
	l.log(cblog.InfoLevel, msg)
}

// Debug writes a debug-level log entry if enabled.
func (l *Logger) Debug(msg string) {
	l.log(cblog.DebugLevel, msg)
}

// Warn writes a warning level log entry.
func (l *Logger) Warn(msg string) {
	l.log(cblog.WarnLevel, msg)
}

// Error writes an error log entry including the supplied error context.
func (l *Logger) Error(err error, msg string) {
	if l == nil || l.base == nil {
		return
	}
	args := append([]interface{}{}, l.fields...)
	if err != nil {
		args = append(args, "error", err)
	}
	l.base.Error(strings.TrimSpace(msg), args...)
}

func (l *Logger) log(level cblog.Level, msg string) {
	if l == nil || l.base == nil {
		return
	}
	msg = strings.TrimSpace(msg)
	switch level {
	case cblog.DebugLevel:
		l.base.Debug(msg, l.fields...)
	case cblog.WarnLevel:
		l.base.Warn(msg, l.fields...)
	default:
		l.base.Info(msg, l.fields...)
	}
}

type correlationIDKey struct{}

// WithCorrelationID attaches the provided correlation ID to the context so
// downstream components can tag diagnostics with a shared compile-run ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationID extracts a correlation ID from context, or "" if unset.
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GenerateCorrelationID produces a new UUIDv4 string for a single compile
// run, generated once per CLI invocation.
func GenerateCorrelationID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("failed to generate correlation id: %v", err))
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80

	var encoded [32]byte
	hex.Encode(encoded[:], b[:])

	return fmt.Sprintf("%s-%s-%s-%s-%s",
		encoded[0:8],
		encoded[8:12],
		encoded[12:16],
		encoded[16:20],
		encoded[20:32],
	)
}
