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
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/gitc/pkg/config"
	"github.com/walteh/gitc/pkg/log"
	"github.com/walteh/gitc/pkg/operation"
	"github.com/walteh/gitc/pkg/reference"
	"github.com/walteh/gitc/pkg/remote/github"
	"gitlab.com/tozd/go/errors"
)

var errMissingURL = errors.Base("a GitHub URL is required")

// rootOpts holds the flag values of the root command
type rootOpts struct {
	configFile string
	debug      bool
	batchSize  int
	exclude    []string
	progress   bool
	apiURL     string
	rawURL     string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "gitc <url> [destination]",
		Short: "Download a file, directory or repository from GitHub without git",
		Long: `gitc downloads a single file, a directory subtree or a whole repository
snapshot from GitHub given its web URL.

  gitc https://github.com/acme/widgets                        # whole repository
  gitc https://github.com/acme/widgets/tree/dev/src/lib out   # subtree into out/lib
  gitc https://github.com/acme/widgets/blob/main/README.md    # single file`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
				return errMissingURL
			}
			return cobra.RangeArgs(1, 2)(cmd, args)
		},
		Version:       buildVersion(),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			destination := "."
			if len(args) > 1 {
				destination = args[1]
			}
			return runDownload(cmd, opts, args[0], destination, stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate(versionTemplate())

	addRootFlags(cmd, opts)

	return cmd
}

// addRootFlags adds the download flags to the root command
func addRootFlags(cmd *cobra.Command, opts *rootOpts) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file path (.yaml, .hcl or .json)")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
	flags.IntVarP(&opts.batchSize, "batch-size", "b", config.DefaultBatchSize, "files downloaded concurrently per batch")
	flags.StringArrayVarP(&opts.exclude, "exclude", "x", nil, "skip files matching a glob (repeatable)")
	flags.BoolVar(&opts.progress, "progress", false, "show a progress bar")
	flags.StringVar(&opts.apiURL, "api-url", config.DefaultAPIURL, "GitHub API base URL")
	flags.StringVar(&opts.rawURL, "raw-url", config.DefaultRawURL, "raw content base URL")
	_ = flags.MarkHidden("api-url")
	_ = flags.MarkHidden("raw-url")
}

// loadConfig reads the config file, if any, and lets explicitly set flags win
func loadConfig(ctx context.Context, cmd *cobra.Command, opts *rootOpts) (*config.Config, error) {
	cfg := config.Default()
	if opts.configFile != "" {
		loaded, err := config.Load(ctx, opts.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = opts.debug
	}
	if flags.Changed("batch-size") {
		cfg.BatchSize = opts.batchSize
	}
	if flags.Changed("exclude") {
		cfg.Exclude = append(cfg.Exclude, opts.exclude...)
	}
	if flags.Changed("progress") {
		cfg.Progress = opts.progress
	}
	if flags.Changed("api-url") {
		cfg.APIURL = opts.apiURL
	}
	if flags.Changed("raw-url") {
		cfg.RawURL = opts.rawURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating flags: %w", err)
	}
	return cfg, nil
}

func runDownload(cmd *cobra.Command, opts *rootOpts, rawURL, destination string, stdout, stderr io.Writer) error {
	ctx := cmd.Context()

	// URL errors come before config and network errors
	ref, err := reference.Parse(rawURL)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx, cmd, opts)
	if err != nil {
		return err
	}

	level := zerolog.WarnLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	logger := log.NewConsole(stdout, stderr, level)
	ctx = log.NewContext(ctx, logger)

	zerolog.Ctx(ctx).Debug().Str("ref", ref.String()).Str("config", cfg.String()).Msg("starting")

	src, err := github.New(github.Options{
		APIBaseURL: cfg.APIURL,
		RawBaseURL: cfg.RawURL,
	})
	if err != nil {
		return errors.Errorf("creating GitHub source: %w", err)
	}

	dlOpts := operation.Options{
		OutputDir: destination,
		BatchSize: cfg.BatchSize,
		Exclude:   cfg.Exclude,
	}
	if cfg.Progress {
		dlOpts.Progress = stderr
	}

	logger.Header(fmt.Sprintf("downloading %s", ref))

	if _, err := operation.New(src, dlOpts).Run(ctx, ref); err != nil {
		return err
	}

	return nil
}
