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

package status

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrPathEscapesBase is returned for paths that would land outside the base directory
var ErrPathEscapesBase = errors.Base("path escapes base directory")

// 📊 FileStatus represents what a write did to the file on disk
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // File didn't exist before the write
	StatusModified             // File existed with different content
	StatusUnchanged            // File existed with identical content
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains metadata about a written file
type FileInfo struct {
	Path     string     // Relative to the base directory
	Status   FileStatus // Result of the write
	Size     int64      // File size in bytes
	Checksum string     // SHA-256 of the content
}

// 🔧 Option configures a Manager
type Option func(*Manager)

// WithProgress renders a progress bar on w between StartOperation and FinishOperation
func WithProgress(w io.Writer) Option {
	return func(m *Manager) {
		m.progressOut = w
	}
}

// 🔧 Manager writes files under a base directory and tracks what it wrote
type Manager struct {
	baseDir string

	mu    sync.Mutex
	files map[string]FileInfo

	// Progress tracking
	progressOut io.Writer
	bar         *pterm.ProgressbarPrinter
	total       int
	processed   int
}

// 🏭 New creates a new status manager rooted at baseDir
func New(baseDir string, opts ...Option) *Manager {
	m := &Manager{
		baseDir: filepath.Clean(baseDir),
		files:   make(map[string]FileInfo),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BaseDir returns the directory every path is relative to
func (m *Manager) BaseDir() string {
	return m.baseDir
}

func (m *Manager) getAbsPath(path string) (string, error) {
	if path == "" || path == "." {
		return m.baseDir, nil
	}
	local := filepath.FromSlash(path)
	if !filepath.IsLocal(local) {
		return "", errors.Errorf("%w: %s", ErrPathEscapesBase, path)
	}
	return filepath.Join(m.baseDir, local), nil
}

// 🔍 calculateChecksum generates a SHA-256 hash of the content
func calculateChecksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// 📝 WriteFile writes content to path, creating parent directories as needed.
// The returned FileInfo says whether the file is new, modified or unchanged.
func (m *Manager) WriteFile(ctx context.Context, path string, content []byte) (FileInfo, error) {
	absPath, err := m.getAbsPath(path)
	if err != nil {
		return FileInfo{}, err
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return FileInfo{}, errors.Errorf("creating parent directories: %w", err)
	}

	checksum := calculateChecksum(content)
	status := StatusNew
	existing, err := os.ReadFile(absPath)
	switch {
	case err == nil && calculateChecksum(existing) == checksum:
		status = StatusUnchanged
	case err == nil:
		status = StatusModified
	case !os.IsNotExist(err):
		return FileInfo{}, errors.Errorf("reading existing file: %w", err)
	}

	if err := writeFileAtomic(absPath, content); err != nil {
		return FileInfo{}, err
	}

	info := FileInfo{
		Path:     filepath.ToSlash(path),
		Status:   status,
		Size:     int64(len(content)),
		Checksum: checksum,
	}

	m.mu.Lock()
	m.files[info.Path] = info
	m.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Str("path", info.Path).
		Str("status", status.String()).
		Int64("size", info.Size).
		Msg("wrote file")

	return info, nil
}

// writeFileAtomic writes to a unique temp file next to absPath and renames it into place
func writeFileAtomic(absPath string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(absPath), "."+filepath.Base(absPath)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("setting file mode: %w", err)
	}

	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// 📁 CreateDir creates path and any missing parents. Existing directories are fine.
func (m *Manager) CreateDir(ctx context.Context, path string) error {
	absPath, err := m.getAbsPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	return nil
}

// ListFiles returns every written file sorted by path
func (m *Manager) ListFiles(ctx context.Context) []FileInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files
}

// TotalBytes returns the sum of all written file sizes
func (m *Manager) TotalBytes() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total int64
	for _, info := range m.files {
		total += info.Size
	}
	return total
}

// ⏳ StartOperation begins progress tracking for total files
func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	m.bar = nil

	if m.progressOut != nil && total > 0 {
		bar, err := pterm.DefaultProgressbar.
			WithTotal(total).
			WithTitle("Downloading").
			WithWriter(m.progressOut).
			WithRemoveWhenDone(true).
			Start()
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("starting progress bar")
		} else {
			m.bar = bar
		}
	}

	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(FormatProgress(0, total))
}

// UpdateProgress records that processed files are done.
// Counts arriving out of order from concurrent writers never move progress backwards.
func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if processed <= m.processed {
		return
	}
	if m.bar != nil {
		m.bar.Add(processed - m.processed)
	}
	m.processed = processed

	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("total", m.total).
		Msg(FormatProgress(processed, m.total))
}

// FinishOperation stops progress tracking
func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bar != nil {
		if _, err := m.bar.Stop(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("stopping progress bar")
		}
		m.bar = nil
	}

	zerolog.Ctx(ctx).Debug().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(FormatProgress(m.processed, m.total))
}
