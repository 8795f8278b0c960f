// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package endpoints

import (
	"github.com/YakDriver/regexache"
)

const (
	// AWS Standard partition.
	AwsPartitionID = "aws"
	// AWS China partition.
	AwsCnPartitionID = "aws-cn"
	// AWS GovCloud (US) partition.
	AwsUsGovPartitionID = "aws-us-gov"
)

var partitions = []Partition{
	{
		id:          AwsPartitionID,
		name:        "AWS Standard",
		dnsSuffix:   "amazonaws.com",
		signinHost:  "signin.aws.amazon.com",
		consoleHost: "console.aws.amazon.com",
		regionRegex: regexache.MustCompile(`^(us|eu|ap|sa|ca|me|af|il|mx)\-\w+\-\d+$`),
	},
	{
		id:          AwsCnPartitionID,
		name:        "AWS China",
		dnsSuffix:   "amazonaws.com.cn",
		signinHost:  "signin.amazonaws.cn",
		consoleHost: "console.amazonaws.cn",
		regionRegex: regexache.MustCompile(`^cn\-\w+\-\d+$`),
	},
	{
		id:          AwsUsGovPartitionID,
		name:        "AWS GovCloud (US)",
		dnsSuffix:   "amazonaws.com",
		signinHost:  "signin.amazonaws-us-gov.com",
		consoleHost: "console.amazonaws-us-gov.com",
		regionRegex: regexache.MustCompile(`^us\-gov\-\w+\-\d+$`),
	},
}

// DefaultPartitions returns the partitions that support console federation.
func DefaultPartitions() []Partition {
	return partitions
}

// PartitionForRegion returns the partition of regionID.
func PartitionForRegion(regionID string) (Partition, bool) {
	for _, p := range partitions {
		if p.regionRegex.MatchString(regionID) {
			return p, true
		}
	}

	return Partition{}, false
}

func PartitionByID(id string) (Partition, bool) {
	for _, p := range partitions {
		if p.id == id {
			return p, true
		}
	}

	return Partition{}, false
}

// Standard returns the AWS Standard partition.
func Standard() Partition {
	p, _ := PartitionByID(AwsPartitionID)
	return p
}
