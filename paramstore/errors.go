// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package paramstore

import (
	"fmt"

	"github.com/hashicorp/aws-ssm-tools/internal/errs"
)

// ParameterNotFoundError is returned when a named parameter does not exist.
type ParameterNotFoundError struct {
	Name string
	Err  error
}

func (e *ParameterNotFoundError) Error() string {
	return fmt.Sprintf("parameter %q not found", e.Name)
}

func (e *ParameterNotFoundError) Unwrap() error {
	return e.Err
}

// ParameterAlreadyExistsError is returned when creating a parameter that exists.
type ParameterAlreadyExistsError struct {
	Name string
	Err  error
}

func (e *ParameterAlreadyExistsError) Error() string {
	return fmt.Sprintf("parameter %q already exists", e.Name)
}

func (e *ParameterAlreadyExistsError) Unwrap() error {
	return e.Err
}

func IsParameterNotFoundError(err error) bool {
	return errs.IsA[*ParameterNotFoundError](err)
}

func IsParameterAlreadyExistsError(err error) bool {
	return errs.IsA[*ParameterAlreadyExistsError](err)
}
