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
	"path/filepath"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/walteh/gitc/pkg/log"
	"github.com/walteh/gitc/pkg/reference"
	"github.com/walteh/gitc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 📂 Tree downloads every file under ref.Path (or the whole repository) in batches
func (d *Downloader) Tree(ctx context.Context, ref reference.Reference) (*Result, error) {
	logger := log.FromContext(ctx)

	baseDir := filepath.Join(d.opts.OutputDir, BaseDirName(ref))
	logger.StartDownload(ctx, log.DownloadOperation{
		Name:        ref.Name(),
		Branch:      ref.Branch,
		Path:        ref.Path,
		Destination: baseDir,
	})

	listing, err := d.source.ListTree(ctx, ref.Owner, ref.Repository, ref.Branch)
	if err != nil {
		return nil, errors.Errorf("listing %s: %w", ref, err)
	}
	if listing.Truncated {
		logger.Warning("Repository listing was truncated by the remote, some files may be missing")
	}

	targets := FilterEntries(ctx, listing.Entries, ref.Path, d.opts.Exclude)
	logger.Infof("Found %d files to download", len(targets))

	mgr := d.newManager(baseDir)
	if err := mgr.CreateDir(ctx, ""); err != nil {
		return nil, errors.Errorf("creating %s: %w", baseDir, err)
	}

	mgr.StartOperation(ctx, len(targets))
	defer mgr.FinishOperation(ctx)

	var processed atomic.Int64
	err = RunBatches(ctx, targets, d.opts.BatchSize, func(ctx context.Context, t Target) error {
		data, err := d.source.FetchRaw(ctx, ref.Owner, ref.Repository, ref.Branch, t.Entry.Path)
		if err != nil {
			logger.LogFileOperation(ctx, log.FileOperation{Path: t.Rel, Status: log.StatusFailed, Err: err})
			return errors.Errorf("downloading %s: %w", t.Rel, err)
		}

		info, err := mgr.WriteFile(ctx, t.Rel, data)
		if err != nil {
			logger.LogFileOperation(ctx, log.FileOperation{Path: t.Rel, Status: log.StatusFailed, Err: err})
			return errors.Errorf("writing %s: %w", t.Rel, err)
		}

		logger.LogFileOperation(ctx, log.FileOperation{Path: t.Rel, Status: info.Status.String(), Size: info.Size})
		mgr.UpdateProgress(ctx, int(processed.Add(1)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := newResult(ctx, mgr)
	logger.Successf("Successfully downloaded to: %s", baseDir)
	logger.Infof("%d files, %s", len(result.Files), humanize.Bytes(uint64(result.Bytes)))

	return result, nil
}

func (d *Downloader) newManager(baseDir string) *status.Manager {
	var opts []status.Option
	if d.opts.Progress != nil {
		opts = append(opts, status.WithProgress(d.opts.Progress))
	}
	return status.New(baseDir, opts...)
}
