// Copyright 2025 walteh LLC
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
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	statusWidth = 10 // Width for status text
)

// File statuses as printed on the console
const (
	StatusNew       = "new"
	StatusModified  = "modified"
	StatusUnchanged = "unchanged"
	StatusFailed    = "failed"
)

// 🎯 FileOperation is one downloaded (or failed) file
type FileOperation struct {
	Path   string // path relative to the download base
	Status string // one of the Status constants
	Size   int64  // bytes written
	Err    error  // set when the download failed
}

// 📦 DownloadOperation describes what is being downloaded and where
type DownloadOperation struct {
	Name        string // owner/repo
	Branch      string
	Path        string // path inside the repository, empty for the whole tree
	Destination string
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🏭 NewConsole creates a logger whose structured output goes to w as a zerolog console
func NewConsole(console io.Writer, w io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor}).
		With().Timestamp().Logger().Level(level)
	return New(console, zlog)
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context, along with its zerolog logger
func NewContext(ctx context.Context, l *Logger) context.Context {
	ctx = l.zlog.WithContext(ctx)
	return context.WithValue(ctx, contextKey{}, l)
}

func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol string
	var symbolColor color.Attribute
	switch op.Status {
	case StatusFailed:
		symbol = "✗"
		symbolColor = color.FgRed
	case StatusModified:
		symbol = "⟳"
		symbolColor = color.FgBlue
	case StatusUnchanged:
		symbol = "•"
		symbolColor = color.FgCyan
	default:
		symbol = "✓"
		symbolColor = color.FgGreen
	}

	detail := humanize.Bytes(uint64(op.Size))
	if op.Err != nil {
		detail = op.Err.Error()
	}

	return fmt.Sprintf("%*s%s %-*s %s %s",
		fileIndent, "",
		color.New(symbolColor).Sprint(symbol),
		nameWidth, op.Path,
		color.New(color.Faint).Sprintf("%-*s", statusWidth, op.Status),
		detail)
}

// 📝 LogFileOperation prints one file line
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	ev := l.zlog.Debug()
	if op.Err != nil {
		ev = l.zlog.Error().Err(op.Err)
	}
	ev.Str("file", op.Path).
		Str("status", op.Status).
		Int64("size", op.Size).
		Msg("file operation")
}

// 📝 StartDownload prints the download header
func (l *Logger) StartDownload(ctx context.Context, op DownloadOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	target := op.Name
	if op.Path != "" {
		target += "/" + op.Path
	}

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(target),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.Branch))

	l.zlog.Info().
		Str("repo", op.Name).
		Str("branch", op.Branch).
		Str("path", op.Path).
		Str("destination", op.Destination).
		Msg("starting download")
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("gitc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
