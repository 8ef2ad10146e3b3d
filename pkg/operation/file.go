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

	"github.com/walteh/gitc/pkg/log"
	"github.com/walteh/gitc/pkg/reference"
	"gitlab.com/tozd/go/errors"
)

// 📄 File downloads a single file into the output directory under its own name
func (d *Downloader) File(ctx context.Context, ref reference.Reference) (*Result, error) {
	logger := log.FromContext(ctx)
	name := FileName(ref.Path)

	logger.StartDownload(ctx, log.DownloadOperation{
		Name:        ref.Name(),
		Branch:      ref.Branch,
		Path:        ref.Path,
		Destination: d.opts.OutputDir,
	})

	data, err := d.source.FetchRaw(ctx, ref.Owner, ref.Repository, ref.Branch, ref.Path)
	if err != nil {
		logger.LogFileOperation(ctx, log.FileOperation{Path: name, Status: log.StatusFailed, Err: err})
		return nil, errors.Errorf("downloading %s: %w", ref.Path, err)
	}

	mgr := d.newManager(d.opts.OutputDir)
	info, err := mgr.WriteFile(ctx, name, data)
	if err != nil {
		logger.LogFileOperation(ctx, log.FileOperation{Path: name, Status: log.StatusFailed, Err: err})
		return nil, errors.Errorf("writing %s: %w", name, err)
	}

	logger.LogFileOperation(ctx, log.FileOperation{Path: name, Status: info.Status.String(), Size: info.Size})
	logger.Successf("Successfully downloaded to: %s", filepath.Join(d.opts.OutputDir, name))

	return newResult(ctx, mgr), nil
}
