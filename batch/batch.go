// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package batch fetches values for a large key set through APIs that only
// accept small, fixed-size key groups.
//
// Keys are split into contiguous groups of at most MaxGroupSize keys, and the
// groups into contiguous windows of at most MaxConcurrent groups. Windows run
// one after another; the groups of a window are fetched concurrently, and the
// next window starts only once every fetch of the current one has returned.
//
// Results are returned in group order: the records of group N precede those
// of group N+1, and within a group the order is whatever the fetch returned.
// Records are not reordered to match individual keys.
//
// When a fetch fails, the other fetches of its window still run to completion,
// the first failure is returned, and no further window is started. No partial
// result is returned.
package batch

import (
	"context"
	"fmt"

	"github.com/hashicorp/aws-ssm-tools/logging"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxGroupSize is the largest number of names accepted by a single
	// GetParameters or DeleteParameters call.
	DefaultMaxGroupSize = 10
	// DefaultMaxConcurrent caps the requests in flight at any time.
	DefaultMaxConcurrent = 5
)

// GroupFunc fetches the records for one group of keys.
type GroupFunc[K, R any] func(ctx context.Context, group []K) ([]R, error)

type Options struct {
	MaxGroupSize  int
	MaxConcurrent int
}

func DefaultOptions() Options {
	return Options{
		MaxGroupSize:  DefaultMaxGroupSize,
		MaxConcurrent: DefaultMaxConcurrent,
	}
}

// Fetch fetches the records for keys, group by group. Duplicate keys are kept.
func Fetch[K, R any](ctx context.Context, keys []K, fetch GroupFunc[K, R], optFns ...func(*Options)) ([]R, error) {
	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxGroupSize <= 0 {
		opts.MaxGroupSize = DefaultMaxGroupSize
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}

	logger := logging.RetrieveLogger(ctx)

	groups := Groups(keys, opts.MaxGroupSize)
	windows := Windows(groups, opts.MaxConcurrent)

	// One slot per group keeps results in group order without locking.
	results := make([][]R, len(groups))

	offset := 0
	for i, window := range windows {
		logger.Debug(ctx, "Fetching window", map[string]any{
			"batch.window":  i + 1,
			"batch.windows": len(windows),
			"batch.groups":  len(window),
		})

		var g errgroup.Group
		for j, group := range window {
			slot := offset + j
			group := group
			g.Go(func() error {
				records, err := fetch(ctx, group)
				if err != nil {
					return err
				}
				results[slot] = records
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("fetching batch window %d of %d: %w", i+1, len(windows), err)
		}

		offset += len(window)
	}

	n := 0
	for _, r := range results {
		n += len(r)
	}
	flattened := make([]R, 0, n)
	for _, r := range results {
		flattened = append(flattened, r...)
	}

	return flattened, nil
}

// Groups splits items into contiguous groups of at most size items.
// Concatenating the groups yields items.
func Groups[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = 1
	}

	groups := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		groups = append(groups, items[start:end:end])
	}
	return groups
}

// Windows splits groups into contiguous windows of at most size groups.
func Windows[T any](groups [][]T, size int) [][][]T {
	return Groups(groups, size)
}
