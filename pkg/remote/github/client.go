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

package github

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/gitc/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultAPIBaseURL = "https://api.github.com/"
	DefaultRawBaseURL = "https://raw.githubusercontent.com/"
)

// GitHubClient defines the GitHub API operations we need
type GitHubClient interface {
	GetTree(ctx context.Context, owner, repo, sha string, recursive bool) (*github.Tree, *github.Response, error)
}

// githubClientWrapper wraps the GitHub client to implement our interface
type githubClientWrapper struct {
	client *github.Client
}

func (w *githubClientWrapper) GetTree(ctx context.Context, owner, repo, sha string, recursive bool) (*github.Tree, *github.Response, error) {
	return w.client.Git.GetTree(ctx, owner, repo, sha, recursive)
}

// 🔧 Options configures the GitHub source
type Options struct {
	APIBaseURL string       // defaults to DefaultAPIBaseURL
	RawBaseURL string       // defaults to DefaultRawBaseURL
	HTTPClient *http.Client // defaults to http.DefaultClient
}

// 🎯 Source implements remote.Source for GitHub
type Source struct {
	client  GitHubClient
	http    *http.Client
	rawBase string
}

var _ remote.Source = (*Source)(nil)

// 🏭 New creates a GitHub source
func New(opts Options) (*Source, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	client := github.NewClient(httpClient)
	if opts.APIBaseURL != "" {
		u, err := url.Parse(withTrailingSlash(opts.APIBaseURL))
		if err != nil {
			return nil, errors.Errorf("parsing api base url: %w", err)
		}
		client.BaseURL = u
	}

	rawBase := opts.RawBaseURL
	if rawBase == "" {
		rawBase = DefaultRawBaseURL
	}
	if _, err := url.Parse(rawBase); err != nil {
		return nil, errors.Errorf("parsing raw base url: %w", err)
	}

	return &Source{
		client:  &githubClientWrapper{client: client},
		http:    httpClient,
		rawBase: withTrailingSlash(rawBase),
	}, nil
}

// NewWithClient creates a source backed by an existing API client
func NewWithClient(client GitHubClient, httpClient *http.Client, rawBase string) *Source {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if rawBase == "" {
		rawBase = DefaultRawBaseURL
	}
	return &Source{
		client:  client,
		http:    httpClient,
		rawBase: withTrailingSlash(rawBase),
	}
}

// 📂 ListTree returns the recursive listing for branch
func (s *Source) ListTree(ctx context.Context, owner, repo, branch string) (*remote.Listing, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("owner", owner).Str("repo", repo).Str("branch", branch).Msg("fetching repository tree")

	tree, resp, err := s.client.GetTree(ctx, owner, repo, branch, true)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Errorf("context error: %w", ctx.Err())
		}
		if resp != nil && resp.Response != nil {
			return nil, errors.Errorf("%w: %s", remote.ErrTreeFetchFailed, resp.Status)
		}
		return nil, errors.Errorf("getting repository tree: %w", err)
	}

	listing := &remote.Listing{
		SHA:       tree.GetSHA(),
		Truncated: tree.GetTruncated(),
		Entries:   make([]remote.Entry, 0, len(tree.Entries)),
	}
	for _, entry := range tree.Entries {
		listing.Entries = append(listing.Entries, remote.Entry{
			Path: entry.GetPath(),
			Type: entry.GetType(),
			SHA:  entry.GetSHA(),
			Size: entry.GetSize(),
			URL:  entry.GetURL(),
		})
	}

	logger.Debug().Int("entries", len(listing.Entries)).Bool("truncated", listing.Truncated).Msg("fetched repository tree")

	return listing, nil
}

// 📄 FetchRaw downloads a single file from the raw content host
func (s *Source) FetchRaw(ctx context.Context, owner, repo, branch, path string) ([]byte, error) {
	rawURL := s.RawURL(owner, repo, branch, path)
	zerolog.Ctx(ctx).Debug().Str("url", rawURL).Msg("downloading file")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, errors.Errorf("downloading %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("%w: %s", remote.ErrDownloadFailed, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}

	return data, nil
}

// 🔗 RawURL returns <raw>/<owner>/<repo>/<branch>/<path> with each segment escaped
func (s *Source) RawURL(owner, repo, branch, path string) string {
	segments := []string{url.PathEscape(owner), url.PathEscape(repo)}
	for _, part := range strings.Split(branch, "/") {
		segments = append(segments, url.PathEscape(part))
	}
	for _, part := range strings.Split(path, "/") {
		segments = append(segments, url.PathEscape(part))
	}
	return s.rawBase + strings.Join(segments, "/")
}

func withTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
