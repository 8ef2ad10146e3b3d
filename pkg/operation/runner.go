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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 RunBatches calls fn for every item, size items at a time.
// Items in a batch run concurrently and the whole batch finishes before the next starts.
// The first error of a batch is returned once that batch is done; later batches never start.
func RunBatches[T any](ctx context.Context, items []T, size int, fn func(context.Context, T) error) error {
	if size <= 0 {
		size = DefaultBatchSize
	}

	logger := zerolog.Ctx(ctx)

	for start := 0; start < len(items); start += size {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}

		end := min(start+size, len(items))
		logger.Debug().Int("start", start).Int("end", end).Msg("starting batch")

		var g errgroup.Group
		for _, item := range items[start:end] {
			item := item
			g.Go(func() error {
				return fn(ctx, item)
			})
		}
		if err := g.Wait(); err != nil {
			logger.Debug().Err(err).Int("start", start).Msg("batch failed")
			return err
		}
	}

	return nil
}
