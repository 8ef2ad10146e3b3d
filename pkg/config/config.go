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

package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultBatchSize = 10
	DefaultAPIURL    = "https://api.github.com/"
	DefaultRawURL    = "https://raw.githubusercontent.com/"
)

// ErrInvalidConfig is returned when a config value is out of range
var ErrInvalidConfig = errors.Base("invalid config")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	name := strings.ToLower(strings.TrimSpace(filename))
	for _, p := range parsers {
		if p.CanParse(name) {
			return p
		}
	}
	return nil
}

// 📚 Config holds the settings a download runs with
type Config struct {
	BatchSize int      `json:"batch_size" yaml:"batch_size" hcl:"batch_size,optional"` // concurrent downloads per batch
	Exclude   []string `json:"exclude" yaml:"exclude" hcl:"exclude,optional"`          // doublestar globs on relative paths
	APIURL    string   `json:"api_url" yaml:"api_url" hcl:"api_url,optional"`          // tree listing endpoint
	RawURL    string   `json:"raw_url" yaml:"raw_url" hcl:"raw_url,optional"`          // raw content endpoint
	Progress  bool     `json:"progress" yaml:"progress" hcl:"progress,optional"`       // show a progress bar
	Debug     bool     `json:"debug" yaml:"debug" hcl:"debug,optional"`                // debug logging
}

// 🏭 Default returns a config with every default applied
func Default() *Config {
	return &Config{
		BatchSize: DefaultBatchSize,
		APIURL:    DefaultAPIURL,
		RawURL:    DefaultRawURL,
	}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("config", cfg.String()).Msg("loaded configuration")

	return cfg, nil
}

// 🔍 Validate applies defaults and rejects out-of-range values
func (cfg *Config) Validate() error {
	if cfg.BatchSize < 0 {
		return errors.Errorf("%w: batch_size must not be negative, got %d", ErrInvalidConfig, cfg.BatchSize)
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.RawURL == "" {
		cfg.RawURL = DefaultRawURL
	}
	for name, raw := range map[string]string{"api_url": cfg.APIURL, "raw_url": cfg.RawURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.Errorf("%w: %s must be an http(s) URL, got %q", ErrInvalidConfig, name, raw)
		}
	}

	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("%w: bad exclude pattern %q", ErrInvalidConfig, pattern)
		}
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("batch=%d exclude=%v api=%s raw=%s progress=%t debug=%t",
		cfg.BatchSize, cfg.Exclude, cfg.APIURL, cfg.RawURL, cfg.Progress, cfg.Debug)
}
