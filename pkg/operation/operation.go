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

package operation

import (
	"context"
	"io"

	"github.com/walteh/gitc/pkg/reference"
	"github.com/walteh/gitc/pkg/remote"
	"github.com/walteh/gitc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// DefaultBatchSize is how many files are downloaded concurrently
const DefaultBatchSize = 10

// 🔧 Options configures a Downloader
type Options struct {
	// OutputDir is where downloads land, defaults to the working directory
	OutputDir string
	// BatchSize bounds concurrent downloads, defaults to DefaultBatchSize
	BatchSize int
	// Exclude skips files whose path relative to the download base matches a doublestar glob
	Exclude []string
	// Progress receives a progress bar while a tree downloads, nil disables it
	Progress io.Writer
}

// 📊 Result summarizes a finished download
type Result struct {
	BaseDir string            // directory the files were written under
	Files   []status.FileInfo // every written file, sorted by path
	Bytes   int64             // total bytes written
}

// 🎯 Downloader fetches files described by a reference from a remote source
type Downloader struct {
	source remote.Source
	opts   Options
}

// 🏭 New creates a downloader
func New(source remote.Source, opts Options) *Downloader {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &Downloader{
		source: source,
		opts:   opts,
	}
}

// 🏃 Run downloads whatever ref points at
func (d *Downloader) Run(ctx context.Context, ref reference.Reference) (*Result, error) {
	switch ref.Kind {
	case reference.KindFile:
		return d.File(ctx, ref)
	case reference.KindTree, reference.KindRepository:
		return d.Tree(ctx, ref)
	default:
		return nil, errors.Errorf("unknown reference kind %q", ref.Kind)
	}
}

func newResult(ctx context.Context, mgr *status.Manager) *Result {
	return &Result{
		BaseDir: mgr.BaseDir(),
		Files:   mgr.ListFiles(ctx),
		Bytes:   mgr.TotalBytes(),
	}
}
