// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package constants

const (
	AppName = "ssmtools"

	// AppendUserAgentEnvVar is a conventionally used environment variable
	// containing additional HTTP User-Agent information.
	AppendUserAgentEnvVar = "SSM_TOOLS_APPEND_USER_AGENT"

	// AwsExecutable is the AWS CLI used for interactive login and for
	// writing credentials.
	AwsExecutable = "aws"

	// Service endpoint overrides, named as the AWS CLI and SDKs name them.
	SsmEndpointEnvVar = "AWS_ENDPOINT_URL_SSM"
	StsEndpointEnvVar = "AWS_ENDPOINT_URL_STS"
	SsoEndpointEnvVar = "AWS_ENDPOINT_URL_SSO"
)

// Version is set at build time with
// -ldflags "-X github.com/hashicorp/aws-ssm-tools/internal/constants.Version=<version>".
var Version = "0.3.0"
