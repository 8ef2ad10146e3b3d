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
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/gitc/pkg/reference"
	"github.com/walteh/gitc/pkg/remote"
)

const fallbackFileName = "download"

// 📄 Target is a listing entry selected for download
type Target struct {
	Entry remote.Entry
	Rel   string // path relative to the download base
}

// 🔍 FilterEntries keeps the blobs under prefix that no exclude pattern matches.
// An empty prefix selects every blob.
func FilterEntries(ctx context.Context, entries []remote.Entry, prefix string, exclude []string) []Target {
	logger := zerolog.Ctx(ctx)

	targets := make([]Target, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsBlob() {
			continue
		}
		rel, ok := RelativePath(entry.Path, prefix)
		if !ok {
			continue
		}
		if pattern, skip := shouldExclude(rel, exclude); skip {
			logger.Debug().Str("file", rel).Str("pattern", pattern).Msg("file excluded by pattern")
			continue
		}
		targets = append(targets, Target{Entry: entry, Rel: rel})
	}
	return targets
}

func shouldExclude(rel string, exclude []string) (string, bool) {
	for _, pattern := range exclude {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			continue
		}
		if matched {
			return pattern, true
		}
	}
	return "", false
}

// RelativePath strips "<prefix>/" from p. It reports false when p is not under prefix.
func RelativePath(p, prefix string) (string, bool) {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return p, p != ""
	}
	rel, ok := strings.CutPrefix(p, prefix+"/")
	if !ok || rel == "" {
		return "", false
	}
	return rel, true
}

// BaseDirName is the directory a tree download is written into:
// the last segment of the path, or the repository name for a whole repository.
func BaseDirName(ref reference.Reference) string {
	if name := lastSegment(ref.Path); name != "" {
		return name
	}
	return ref.Repository
}

// FileName is the local name for a single-file download.
// reference.Parse never yields a file reference with an empty path, so the
// "download" fallback is only reachable by library callers building a Reference directly.
func FileName(p string) string {
	if name := lastSegment(p); name != "" {
		return name
	}
	return fallbackFileName
}

func lastSegment(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}
