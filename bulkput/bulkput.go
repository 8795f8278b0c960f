// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package bulkput creates or updates many parameters from a parsed document.
package bulkput

import (
	"context"
	"fmt"

	"github.com/hashicorp/aws-ssm-tools/batch"
	"github.com/hashicorp/aws-ssm-tools/logging"
	"github.com/hashicorp/aws-ssm-tools/paramfile"
	"github.com/hashicorp/aws-ssm-tools/paramstore"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// Store is the subset of *paramstore.Store used by Importer.
type Store interface {
	GetMany(ctx context.Context, names []string) ([]paramstore.Record, []string, error)
	Put(ctx context.Context, in paramstore.PutInput) (paramstore.PutResult, error)
}

var _ Store = (*paramstore.Store)(nil)

// EntryError is a put that failed.
type EntryError struct {
	Name string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// Summary reports the outcome of every entry, in document order. A name
// appears in exactly one of the lists.
type Summary struct {
	Created []string
	Updated []string
	Errors  []*EntryError
}

// Err returns the failed puts combined, or nil when every put succeeded.
func (s *Summary) Err() error {
	var result *multierror.Error
	for _, e := range s.Errors {
		result = multierror.Append(result, e)
	}
	return result.ErrorOrNil()
}

type Importer struct {
	Store Store

	// Dumb disables guessing SecureString from the parameter name.
	Dumb bool

	// MaxConcurrent caps the puts in flight. Defaults to batch.DefaultMaxConcurrent.
	MaxConcurrent int
}

type outcome struct {
	version int64
	err     error
}

// Import puts every entry with Overwrite set. Entries without a type keep
// the type of the existing parameter, or get a guessed one when new. Each put
// is independent: a failure does not stop or roll back the others, and is
// reported in the Summary rather than as the returned error.
func (im *Importer) Import(ctx context.Context, entries []paramfile.Entry) (*Summary, error) {
	logger := logging.RetrieveLogger(ctx)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}

	existing, _, err := im.Store.GetMany(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("looking up existing parameters: %w", err)
	}
	existingTypes := make(map[string]string, len(existing))
	for _, r := range existing {
		existingTypes[r.Name] = r.Type
	}

	limit := im.MaxConcurrent
	if limit <= 0 {
		limit = batch.DefaultMaxConcurrent
	}

	outcomes := make([]outcome, len(entries))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, entry := range entries {
		i, entry := i, entry
		typ := im.resolveType(entry, existingTypes)

		g.Go(func() error {
			result, err := im.Store.Put(ctx, paramstore.PutInput{
				Name:      entry.Name,
				Value:     entry.Value,
				Type:      typ,
				Overwrite: true,
			})
			outcomes[i] = outcome{version: result.Version, err: err}
			return nil
		})
	}
	_ = g.Wait()

	summary := &Summary{
		Created: make([]string, 0),
		Updated: make([]string, 0),
	}
	for i, o := range outcomes {
		name := entries[i].Name
		switch {
		case o.err != nil:
			summary.Errors = append(summary.Errors, &EntryError{Name: name, Err: o.err})
		case o.version == 1:
			summary.Created = append(summary.Created, name)
		default:
			summary.Updated = append(summary.Updated, name)
		}
	}

	logger.Info(ctx, "Imported parameters", map[string]any{
		"ssm.created": len(summary.Created),
		"ssm.updated": len(summary.Updated),
		"ssm.failed":  len(summary.Errors),
	})

	return summary, nil
}

func (im *Importer) resolveType(entry paramfile.Entry, existingTypes map[string]string) string {
	if entry.Type != "" {
		return entry.Type
	}
	if t, ok := existingTypes[entry.Name]; ok {
		return t
	}
	return paramfile.GuessType(entry.Name, im.Dumb)
}
