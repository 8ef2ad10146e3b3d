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

// Package reference classifies GitHub web URLs into the repository, branch
// and path they point at.
package reference

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🎯 DefaultBranch is used when the URL does not name a branch
const DefaultBranch = "main"

// 🚫 ErrInvalidURL is returned for URLs without the github.com/<owner>/<repo> shape
var ErrInvalidURL = errors.Base("invalid GitHub URL")

// 🏷️ Kind is what a Reference points at
type Kind string

const (
	KindRepository Kind = "repo" // whole repository snapshot
	KindFile       Kind = "blob" // a single file
	KindTree       Kind = "tree" // a directory subtree
)

func (k Kind) String() string {
	return string(k)
}

// 📦 Reference is the classified form of a GitHub web URL
type Reference struct {
	Owner      string
	Repository string
	Branch     string
	Path       string // empty only for KindRepository
	Kind       Kind
}

// 📝 String returns owner/repo@branch, followed by :path when set
func (r Reference) String() string {
	s := fmt.Sprintf("%s/%s@%s", r.Owner, r.Repository, r.Branch)
	if r.Path != "" {
		s += ":" + r.Path
	}
	return s
}

// 📦 Name returns owner/repo
func (r Reference) Name() string {
	return r.Owner + "/" + r.Repository
}

var urlPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)(?:/(?:(blob|tree)/([^/]+)/?(.*)))?`)

// 🔍 Parse classifies a GitHub web URL.
//
//	https://github.com/acme/widgets                       -> repo, main, ""
//	https://github.com/acme/widgets/tree/dev/src/lib      -> tree, dev, "src/lib"
//	https://github.com/acme/widgets/blob/main/README.md   -> blob, main, "README.md"
func Parse(rawURL string) (Reference, error) {
	s := strings.TrimSpace(rawURL)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}

	match := urlPattern.FindStringSubmatch(s)
	if match == nil {
		return Reference{}, errors.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	owner := match[1]
	repo := strings.TrimSuffix(match[2], ".git")
	if owner == "" || repo == "" {
		return Reference{}, errors.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	ref := Reference{
		Owner:      owner,
		Repository: repo,
		Branch:     DefaultBranch,
		Kind:       KindRepository,
	}

	if match[3] == "" {
		return ref, nil
	}

	branch, err := url.PathUnescape(match[4])
	if err != nil {
		return Reference{}, errors.Errorf("%w: bad branch %q", ErrInvalidURL, match[4])
	}
	path, err := url.PathUnescape(strings.Trim(match[5], "/"))
	if err != nil {
		return Reference{}, errors.Errorf("%w: bad path %q", ErrInvalidURL, match[5])
	}

	ref.Branch = branch
	ref.Path = path

	// a bare /tree/<branch> is still the whole repository, just on another branch
	if path == "" {
		return ref, nil
	}

	if match[3] == "blob" {
		ref.Kind = KindFile
	} else {
		ref.Kind = KindTree
	}

	return ref, nil
}
