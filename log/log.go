// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin layer over the go-ethereum structured logger.
// Package loggers are created once with WithContext and follow the root
// logger installed by SetDefault, even when it changes later.
package log

import (
	"io"
	"log/slog"
	"sync/atomic"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
)

// Levels re-exported so callers don't need to import slog.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger writes key/value pairs at a given level.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	With(ctx ...any) Logger
}

var root atomic.Pointer[ethlog.Logger]

func init() {
	l := ethlog.NewLogger(ethlog.DiscardHandler())
	root.Store(&l)
}

// Root returns the logger with no context attached.
func Root() Logger {
	return &logger{}
}

// SetDefault installs the handler every logger writes to.
func SetDefault(h slog.Handler) {
	l := ethlog.NewLogger(h)
	root.Store(&l)
}

// WithContext returns a logger that prefixes every record with ctx.
func WithContext(ctx ...any) Logger {
	return &logger{ctx: ctx}
}

type logger struct {
	ctx []any
}

func (l *logger) inner() ethlog.Logger {
	r := *root.Load()
	if len(l.ctx) == 0 {
		return r
	}
	return r.With(l.ctx...)
}

func (l *logger) Trace(msg string, ctx ...any) { l.inner().Trace(msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.inner().Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.inner().Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.inner().Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.inner().Error(msg, ctx...) }

func (l *logger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	merged = append(merged, ctx...)
	return &logger{ctx: merged}
}

// Format names an output encoding.
type Format string

const (
	FormatTerminal Format = "terminal"
	FormatJSON     Format = "json"
	FormatLogfmt   Format = "logfmt"
)

// NewHandler builds a handler writing to w in the given format, filtering
// records below the verbosity level. Verbosity follows the legacy 0 (crit)
// to 5 (trace) scale.
func NewHandler(w io.Writer, format Format, verbosity int, color bool) (slog.Handler, error) {
	var h slog.Handler
	switch format {
	case FormatTerminal, "":
		h = ethlog.NewTerminalHandler(w, color)
	case FormatJSON:
		h = ethlog.JSONHandler(w)
	case FormatLogfmt:
		h = ethlog.LogfmtHandler(w)
	default:
		return nil, errors.Errorf("unknown log format %q", format)
	}
	if verbosity < 0 || verbosity > 5 {
		return nil, errors.Errorf("log verbosity %d out of range [0, 5]", verbosity)
	}
	glog := ethlog.NewGlogHandler(h)
	glog.Verbosity(ethlog.FromLegacyLevel(verbosity))
	return glog, nil
}

// Discard returns a handler dropping every record.
func Discard() slog.Handler {
	return ethlog.DiscardHandler()
}
