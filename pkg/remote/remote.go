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

package remote

import (
	"context"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrTreeFetchFailed wraps a non-success response from the tree listing endpoint
	ErrTreeFetchFailed = errors.Base("failed to fetch tree")
	// ErrDownloadFailed wraps a non-success response from the raw content endpoint
	ErrDownloadFailed = errors.Base("failed to download")
)

// Entry types as reported by the tree listing
const (
	TypeBlob = "blob"
	TypeTree = "tree"
)

// Source is the remote side of a download: one recursive listing per branch
// and raw file bytes on demand.
type Source interface {
	// ListTree returns every entry under branch, recursively
	ListTree(ctx context.Context, owner, repo, branch string) (*Listing, error)
	// FetchRaw returns the raw bytes of a single file
	FetchRaw(ctx context.Context, owner, repo, branch, path string) ([]byte, error)
}

// Entry is one row of a recursive tree listing
type Entry struct {
	Path string
	Type string // TypeBlob for files, TypeTree for directories
	SHA  string
	Size int
	URL  string
}

// IsBlob reports whether the entry is a downloadable file
func (e Entry) IsBlob() bool {
	return e.Type == TypeBlob
}

// Listing is a full recursive tree for one branch
type Listing struct {
	SHA       string
	Entries   []Entry
	Truncated bool // the remote cut the listing short
}
