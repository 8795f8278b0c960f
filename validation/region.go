// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package validation

import (
	"fmt"

	"github.com/hashicorp/aws-ssm-tools/endpoints"
)

type InvalidRegionError struct {
	region string
}

func (e *InvalidRegionError) Error() string {
	return fmt.Sprintf("Invalid AWS Region: %s", e.region)
}

// SupportedRegion checks if the given region belongs to a known partition.
func SupportedRegion(region string) error {
	if _, ok := endpoints.PartitionForRegion(region); ok {
		return nil
	}

	return &InvalidRegionError{
		region: region,
	}
}
