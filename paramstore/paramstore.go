// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package paramstore reads and writes AWS Systems Manager Parameter Store
// parameters. Multi-name operations are split into API-sized groups by the
// batch package and listings are drained with the paginate package.
package paramstore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/hashicorp/aws-ssm-tools/awserr"
	"github.com/hashicorp/aws-ssm-tools/batch"
	"github.com/hashicorp/aws-ssm-tools/internal/errs"
	"github.com/hashicorp/aws-ssm-tools/logging"
	"github.com/hashicorp/aws-ssm-tools/paginate"
)

const (
	TypeString       = string(types.ParameterTypeString)
	TypeSecureString = string(types.ParameterTypeSecureString)

	describePageSize = 50
)

// API is the subset of the SSM client used by Store.
type API interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	GetParameters(ctx context.Context, params *ssm.GetParametersInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersOutput, error)
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
	DeleteParameters(ctx context.Context, params *ssm.DeleteParametersInput, optFns ...func(*ssm.Options)) (*ssm.DeleteParametersOutput, error)
	DescribeParameters(ctx context.Context, params *ssm.DescribeParametersInput, optFns ...func(*ssm.Options)) (*ssm.DescribeParametersOutput, error)
}

var _ API = (*ssm.Client)(nil)

// Record is a parameter with its decrypted value.
type Record struct {
	Name             string
	Value            string
	Type             string
	Version          int64
	LastModifiedDate *time.Time `json:",omitempty"`
	ARN              string     `json:",omitempty"`
}

type PutInput struct {
	Name  string
	Value string
	// Type is ignored when RequireExisting is set; the parameter keeps its type.
	Type string

	Overwrite       bool
	RequireExisting bool
}

type PutResult struct {
	Tier    string
	Version int64
}

// Filters restrict List by parameter name. Empty fields are not applied.
type Filters struct {
	Equals     string
	BeginsWith string
	Contains   []string
}

type Store struct {
	api       API
	batchOpts []func(*batch.Options)
}

func New(api API, batchOptFns ...func(*batch.Options)) *Store {
	return &Store{
		api:       api,
		batchOpts: batchOptFns,
	}
}

// Get returns the parameter with its value decrypted.
func (s *Store) Get(ctx context.Context, name string) (Record, error) {
	output, err := s.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if errs.IsA[*types.ParameterNotFound](err) {
		return Record{}, &ParameterNotFoundError{Name: name, Err: err}
	}
	if err != nil {
		return Record{}, fmt.Errorf("getting parameter %q: %w", name, err)
	}

	return recordFromParameter(output.Parameter), nil
}

// Put creates or updates a parameter.
func (s *Store) Put(ctx context.Context, in PutInput) (PutResult, error) {
	input := &ssm.PutParameterInput{
		Name:      aws.String(in.Name),
		Value:     aws.String(in.Value),
		Overwrite: aws.Bool(in.Overwrite || in.RequireExisting),
	}
	if !in.RequireExisting && in.Type != "" {
		input.Type = types.ParameterType(in.Type)
	}

	output, err := s.api.PutParameter(ctx, input)
	switch {
	case errs.IsA[*types.ParameterAlreadyExists](err):
		return PutResult{}, &ParameterAlreadyExistsError{Name: in.Name, Err: err}
	// Without a type the API can only update, creation is rejected as invalid.
	case in.RequireExisting && awserr.ErrCodeEquals(err, "ValidationException"):
		return PutResult{}, &ParameterNotFoundError{Name: in.Name, Err: err}
	case err != nil:
		return PutResult{}, fmt.Errorf("putting parameter %q: %w", in.Name, err)
	}

	return PutResult{
		Tier:    string(output.Tier),
		Version: output.Version,
	}, nil
}

// Delete removes the named parameters and returns the names that did not exist.
func (s *Store) Delete(ctx context.Context, names []string) ([]string, error) {
	invalid, err := batch.Fetch(ctx, names, func(ctx context.Context, group []string) ([]string, error) {
		output, err := s.api.DeleteParameters(ctx, &ssm.DeleteParametersInput{
			Names: group,
		})
		if err != nil {
			return nil, fmt.Errorf("deleting parameters: %w", err)
		}
		return output.InvalidParameters, nil
	}, s.batchOpts...)
	if err != nil {
		return nil, err
	}

	logging.RetrieveLogger(ctx).Debug(ctx, "Deleted parameters", map[string]any{
		"ssm.requested": len(names),
		"ssm.invalid":   len(invalid),
	})

	return invalid, nil
}

// List returns the names of all parameters that match the filters.
func (s *Store) List(ctx context.Context, filters Filters) ([]string, error) {
	parameterFilters := filters.parameterFilters()

	fetch := func(ctx context.Context, token *string) (*ssm.DescribeParametersOutput, *string, error) {
		output, err := s.api.DescribeParameters(ctx, &ssm.DescribeParametersInput{
			ParameterFilters: parameterFilters,
			MaxResults:       aws.Int32(describePageSize),
			NextToken:        token,
		})
		if err != nil {
			return nil, nil, err
		}
		return output, output.NextToken, nil
	}

	names, err := paginate.Pages(ctx, fetch, func(output *ssm.DescribeParametersOutput) []string {
		result := make([]string, 0, len(output.Parameters))
		for _, p := range output.Parameters {
			result = append(result, aws.ToString(p.Name))
		}
		return result
	})
	if err != nil {
		return nil, fmt.Errorf("listing parameters: %w", err)
	}
	return names, nil
}

type lookup struct {
	record  *Record
	invalid string
}

// GetMany returns the decrypted parameters for names and the names that do not exist.
func (s *Store) GetMany(ctx context.Context, names []string) ([]Record, []string, error) {
	lookups, err := batch.Fetch(ctx, names, func(ctx context.Context, group []string) ([]lookup, error) {
		output, err := s.api.GetParameters(ctx, &ssm.GetParametersInput{
			Names:          group,
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return nil, fmt.Errorf("getting parameters: %w", err)
		}

		result := make([]lookup, 0, len(output.Parameters)+len(output.InvalidParameters))
		for _, p := range output.Parameters {
			record := recordFromParameter(&p)
			result = append(result, lookup{record: &record})
		}
		for _, name := range output.InvalidParameters {
			result = append(result, lookup{invalid: name})
		}
		return result, nil
	}, s.batchOpts...)
	if err != nil {
		return nil, nil, err
	}

	records := make([]Record, 0, len(names))
	invalid := make([]string, 0)
	for _, l := range lookups {
		if l.record != nil {
			records = append(records, *l.record)
		} else {
			invalid = append(invalid, l.invalid)
		}
	}
	return records, invalid, nil
}

func (f Filters) parameterFilters() []types.ParameterStringFilter {
	var result []types.ParameterStringFilter

	if f.Equals != "" {
		result = append(result, nameFilter("Equals", f.Equals))
	}
	if f.BeginsWith != "" {
		result = append(result, nameFilter("BeginsWith", f.BeginsWith))
	}
	if len(f.Contains) > 0 {
		result = append(result, nameFilter("Contains", f.Contains...))
	}

	return result
}

func nameFilter(option string, values ...string) types.ParameterStringFilter {
	return types.ParameterStringFilter{
		Key:    aws.String("Name"),
		Option: aws.String(option),
		Values: values,
	}
}

func recordFromParameter(p *types.Parameter) Record {
	if p == nil {
		return Record{}
	}
	return Record{
		Name:             aws.ToString(p.Name),
		Value:            aws.ToString(p.Value),
		Type:             string(p.Type),
		Version:          p.Version,
		LastModifiedDate: p.LastModifiedDate,
		ARN:              aws.ToString(p.ARN),
	}
}
