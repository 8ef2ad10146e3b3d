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

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/gitc/pkg/config"
	"github.com/walteh/gitc/pkg/reference"
	"github.com/walteh/gitc/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

const widgetsTree = `{
  "sha": "abc123",
  "truncated": false,
  "tree": [
    {"path": "README.md", "type": "blob", "sha": "r1", "size": 9},
    {"path": "src", "type": "tree", "sha": "t1"},
    {"path": "src/a.ts", "type": "blob", "sha": "b1", "size": 12},
    {"path": "src/sub", "type": "tree", "sha": "t2"},
    {"path": "src/sub/b.ts", "type": "blob", "sha": "b2", "size": 12},
    {"path": "src/sub/notes.md", "type": "blob", "sha": "b3", "size": 5}
  ]
}`

var widgetsFiles = map[string]string{
	"README.md":        "# widgets",
	"src/a.ts":         "export a = 1",
	"src/sub/b.ts":     "export b = 2",
	"src/sub/notes.md": "notes",
}

type fakeGitHub struct {
	server   *httptest.Server
	listings atomic.Int64
	fetches  atomic.Int64
}

func newFakeGitHub(t *testing.T) *fakeGitHub {
	t.Helper()
	f := &fakeGitHub{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/repos/acme/widgets/git/trees/", func(w http.ResponseWriter, r *http.Request) {
		f.listings.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/dev") && !strings.HasSuffix(r.URL.Path, "/main") {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(widgetsTree))
	})
	mux.HandleFunc("/raw/", func(w http.ResponseWriter, r *http.Request) {
		f.fetches.Add(1)
		parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/raw/"), "/", 4)
		if len(parts) != 4 || parts[0] != "acme" || parts[1] != "widgets" {
			http.NotFound(w, r)
			return
		}
		content, ok := widgetsFiles[parts[3]]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(content))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGitHub) flags() []string {
	return []string{"--api-url", f.server.URL + "/api", "--raw-url", f.server.URL + "/raw"}
}

func readDir(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(content)
		return nil
	})
	require.NoError(t, err, "walking output should succeed")
	return out
}

func TestRun(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name        string
		args        func(gh *fakeGitHub, dest string) []string
		setup       func(t *testing.T, dir string) string
		wantFiles   map[string]string
		wantOut     []string
		wantErr     error
		errContains string
		noNetwork   bool
	}{
		{
			name: "subtree",
			args: func(gh *fakeGitHub, dest string) []string {
				return append(gh.flags(), "https://github.com/acme/widgets/tree/dev/src", dest)
			},
			wantFiles: map[string]string{
				"src/a.ts":         "export a = 1",
				"src/sub/b.ts":     "export b = 2",
				"src/sub/notes.md": "notes",
			},
			wantOut: []string{"Found 3 files to download", "✓ a.ts", "✓ sub/b.ts", "Successfully downloaded to:"},
		},
		{
			name: "subtree_with_exclude",
			args: func(gh *fakeGitHub, dest string) []string {
				return append(gh.flags(), "-x", "**/*.md", "-b", "1", "https://github.com/acme/widgets/tree/dev/src", dest)
			},
			wantFiles: map[string]string{
				"src/a.ts":     "export a = 1",
				"src/sub/b.ts": "export b = 2",
			},
			wantOut: []string{"Found 2 files to download"},
		},
		{
			name: "whole_repository",
			args: func(gh *fakeGitHub, dest string) []string {
				return append(gh.flags(), "https://github.com/acme/widgets", dest)
			},
			wantFiles: map[string]string{
				"widgets/README.md":        "# widgets",
				"widgets/src/a.ts":         "export a = 1",
				"widgets/src/sub/b.ts":     "export b = 2",
				"widgets/src/sub/notes.md": "notes",
			},
			wantOut: []string{"Found 4 files to download"},
		},
		{
			name: "single_file",
			args: func(gh *fakeGitHub, dest string) []string {
				return append(gh.flags(), "https://github.com/acme/widgets/blob/main/README.md", dest)
			},
			wantFiles: map[string]string{"README.md": "# widgets"},
			wantOut:   []string{"✓ README.md", "Successfully downloaded to:"},
		},
		{
			name: "config_file_excludes",
			setup: func(t *testing.T, dir string) string {
				path := filepath.Join(dir, "gitc.yaml")
				require.NoError(t, os.WriteFile(path, []byte("batch_size: 2\nexclude: [\"**/*.ts\"]\n"), 0644), "writing config should succeed")
				return path
			},
			args: func(gh *fakeGitHub, dest string) []string {
				return append(gh.flags(), "-c", filepath.Join(dest, "..", "gitc.yaml"), "https://github.com/acme/widgets/tree/dev/src", dest)
			},
			wantFiles: map[string]string{"src/sub/notes.md": "notes"},
		},
		{
			name: "missing_file",
			args: func(gh *fakeGitHub, dest string) []string {
				return append(gh.flags(), "https://github.com/acme/widgets/blob/main/nope.md", dest)
			},
			wantFiles:   map[string]string{},
			wantErr:     remote.ErrDownloadFailed,
			errContains: "404 Not Found",
		},
		{
			name: "missing_branch",
			args: func(gh *fakeGitHub, dest string) []string {
				return append(gh.flags(), "https://github.com/acme/widgets/tree/nope/src", dest)
			},
			wantFiles:   map[string]string{},
			wantErr:     remote.ErrTreeFetchFailed,
			errContains: "404 Not Found",
		},
		{
			name: "invalid_url",
			args: func(gh *fakeGitHub, dest string) []string {
				return append(gh.flags(), "https://example.com/acme/widgets", dest)
			},
			wantFiles: map[string]string{},
			wantErr:   reference.ErrInvalidURL,
			noNetwork: true,
		},
		{
			name: "negative_batch_size",
			args: func(gh *fakeGitHub, dest string) []string {
				return append(gh.flags(), "-b", "-1", "https://github.com/acme/widgets", dest)
			},
			wantFiles: map[string]string{},
			wantErr:   config.ErrInvalidConfig,
			noNetwork: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gh := newFakeGitHub(t)
			root := t.TempDir()
			dest := filepath.Join(root, "out")
			require.NoError(t, os.MkdirAll(dest, 0755), "creating destination should succeed")
			if tt.setup != nil {
				tt.setup(t, root)
			}

			stdout := &bytes.Buffer{}
			stderr := &bytes.Buffer{}
			err := run(context.Background(), tt.args(gh, dest), stdout, stderr)

			if tt.wantErr != nil {
				require.Error(t, err, "run should fail")
				assert.True(t, errors.Is(err, tt.wantErr), "error kind should match: %v", err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains, "error should carry the status text")
				}
			} else {
				require.NoError(t, err, "run should succeed: %s", stderr.String())
			}

			if tt.noNetwork {
				assert.Zero(t, gh.listings.Load()+gh.fetches.Load(), "no request should be made")
			}

			assert.Equal(t, tt.wantFiles, readDir(t, dest), "downloaded files should match")
			for _, want := range tt.wantOut {
				assert.Contains(t, stdout.String(), want, "output should contain %q", want)
			}
		})
	}
}

func TestRunUsage(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     error
		errContains string
		wantUsage   bool
	}{
		{
			name:      "no_arguments",
			args:      nil,
			wantErr:   errMissingURL,
			wantUsage: true,
		},
		{
			name:        "too_many_arguments",
			args:        []string{"https://github.com/acme/widgets", "a", "b"},
			errContains: "accepts between 1 and 2 arg(s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout := &bytes.Buffer{}
			stderr := &bytes.Buffer{}
			err := run(context.Background(), tt.args, stdout, stderr)
			require.Error(t, err, "run should fail")
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "error kind should match")
			}
			if tt.errContains != "" {
				assert.Contains(t, err.Error(), tt.errContains, "error message should match")
			}
			if tt.wantUsage {
				assert.Contains(t, stderr.String(), "Usage:", "usage should be printed to stderr")
				assert.Contains(t, stderr.String(), "gitc <url> [destination]", "usage should show the command line")
			}
		})
	}
}

func TestRunVersion(t *testing.T) {
	stdout := &bytes.Buffer{}
	err := run(context.Background(), []string{"--version"}, stdout, &bytes.Buffer{})
	require.NoError(t, err, "version should succeed")
	assert.Equal(t, versionTemplate(), stdout.String(), "version line should be printed")
	assert.True(t, strings.HasPrefix(stdout.String(), "gitc "+buildVersion()+" ("), "version should lead the line")
	assert.Contains(t, stdout.String(), runtime.Version(), "go version should be printed")
}

func TestRunIdempotent(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	gh := newFakeGitHub(t)
	dest := t.TempDir()
	args := append(gh.flags(), "https://github.com/acme/widgets/tree/dev/src", dest)

	require.NoError(t, run(context.Background(), args, &bytes.Buffer{}, &bytes.Buffer{}), "first run should succeed")

	stdout := &bytes.Buffer{}
	require.NoError(t, run(context.Background(), args, stdout, &bytes.Buffer{}), "second run should succeed")
	assert.Contains(t, stdout.String(), "• a.ts", "rerun should report unchanged files")
	assert.Len(t, readDir(t, dest), 3, "rerun should not duplicate files")
}
