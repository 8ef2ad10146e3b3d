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
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_download_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.StartDownload(context.Background(), DownloadOperation{
					Name:        "acme/widgets",
					Branch:      "dev",
					Path:        "src/lib",
					Destination: "/tmp/out",
				})
			},
			wantLogs: []string{
				"◆ acme/widgets/src/lib • dev",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("Found %d files to download", 3)
				logger.Successf("Successfully downloaded to: %s", "out/lib")
			},
			wantLogs: []string{
				"ℹ️  Found 3 files to download",
				"✅ Successfully downloaded to: out/lib",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("downloading acme/widgets")
			},
			wantLogs: []string{
				"gitc • downloading acme/widgets",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Nop())

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Nop())

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")
	assert.NotNil(t, zerolog.Ctx(ctx), "zerolog logger should be carried too")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestFileOperationFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	line := func(symbol, path, status, detail string) string {
		return fmt.Sprintf("%s %-35s %-10s %s", symbol, path, status, detail)
	}

	tests := []struct {
		name string
		op   FileOperation
		want string
	}{
		{
			name: "new_file",
			op:   FileOperation{Path: "a.ts", Status: StatusNew, Size: 12},
			want: line("✓", "a.ts", "new", "12 B"),
		},
		{
			name: "modified_file",
			op:   FileOperation{Path: "sub/b.ts", Status: StatusModified, Size: 2048},
			want: line("⟳", "sub/b.ts", "modified", "2.0 kB"),
		},
		{
			name: "unchanged_file",
			op:   FileOperation{Path: "README.md", Status: StatusUnchanged, Size: 0},
			want: line("•", "README.md", "unchanged", "0 B"),
		},
		{
			name: "failed_file",
			op:   FileOperation{Path: "a.ts", Status: StatusFailed, Err: errors.New("failed to download: 404 Not Found")},
			want: line("✗", "a.ts", "failed", "failed to download: 404 Not Found"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Nop())

			logger.LogFileOperation(context.Background(), tt.op)

			output := strings.TrimSpace(buf.String())
			assert.Equal(t, tt.want, output, "formatted output should match")
		})
	}
}

func TestNewConsole(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	console := &bytes.Buffer{}
	structured := &bytes.Buffer{}
	logger := NewConsole(console, structured, zerolog.DebugLevel)

	logger.LogFileOperation(context.Background(), FileOperation{Path: "a.ts", Status: StatusNew, Size: 1})

	assert.Contains(t, console.String(), "✓ a.ts", "console should get the file line")
	assert.Contains(t, structured.String(), "file operation", "structured log should get the debug event")
	assert.Contains(t, structured.String(), "a.ts", "structured log should carry the path")
}
