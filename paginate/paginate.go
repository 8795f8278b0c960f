// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package paginate drains cursor-paginated listing APIs.
//
// A source is driven by a FetchFunc that receives the cursor returned by the
// previous page (nil for the first page) and returns the page together with
// the next cursor. Iteration stops exactly when a page returns a nil or empty
// cursor. Pages are fetched one at a time; each fetch depends on the cursor of
// the one before it.
package paginate

import (
	"context"
	"fmt"
)

// FetchFunc fetches the page that starts at token. The returned cursor is the
// token of the following page, or nil/empty when there are no more pages.
type FetchFunc[P any] func(ctx context.Context, token *string) (P, *string, error)

// Options tunes Pages.
type Options struct {
	// MaxPages bounds the number of pages fetched. Zero means unbounded.
	MaxPages int
}

// RepeatedTokenError occurs when a page returns the cursor it was fetched with.
// Such a source would otherwise be paged forever.
type RepeatedTokenError struct {
	Page  int
	Token string
}

func (e *RepeatedTokenError) Error() string {
	return fmt.Sprintf("page %d returned its own continuation token %q", e.Page, e.Token)
}

// TooManyPagesError occurs when a source yields more pages than Options.MaxPages.
type TooManyPagesError struct {
	MaxPages int
}

func (e *TooManyPagesError) Error() string {
	return fmt.Sprintf("more than %d pages returned", e.MaxPages)
}

// Pages invokes fetch until the source is exhausted and returns the items
// extracted from every page, in page order and within-page order.
//
// A failure on any page aborts immediately: no partial result is returned and
// no further page is fetched.
func Pages[P, T any](ctx context.Context, fetch FetchFunc[P], extract func(P) []T, optFns ...func(*Options)) ([]T, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	result := make([]T, 0)
	var token *string

	for page := 1; ; page++ {
		if opts.MaxPages > 0 && page > opts.MaxPages {
			return nil, &TooManyPagesError{MaxPages: opts.MaxPages}
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, next, err := fetch(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}

		result = append(result, extract(p)...)

		if next == nil || *next == "" {
			return result, nil
		}

		if token != nil && *token == *next {
			return nil, &RepeatedTokenError{Page: page, Token: *next}
		}

		token = next
	}
}
