// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package awsbase

import (
	internalconfig "github.com/hashicorp/aws-ssm-tools/internal/config"
	"github.com/hashicorp/aws-ssm-tools/internal/errs"
)

// NoValidCredentialSourcesError occurs when all credential lookup methods have been exhausted without results.
type NoValidCredentialSourcesError = internalconfig.NoValidCredentialSourcesError

// IsNoValidCredentialSourcesError returns true if the error contains the NoValidCredentialSourcesError type.
func IsNoValidCredentialSourcesError(err error) bool {
	return errs.IsA[NoValidCredentialSourcesError](err)
}
