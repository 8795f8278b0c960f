// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package awsbase

import (
	internalconfig "github.com/hashicorp/aws-ssm-tools/internal/config"
)

type Config = internalconfig.Config

type UserAgentProduct = internalconfig.UserAgentProduct

type UserAgentProducts = internalconfig.UserAgentProducts
