// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package mockdata

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/ssocreds"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/hashicorp/aws-ssm-tools/servicemocks"
)

// GetMockedAwsApiSessionV2 establishes an AWS configuration pointing at a simulated AWS API server for a given service and route endpoints.
func GetMockedAwsApiSessionV2(svcName string, endpoints []*servicemocks.MockEndpoint) (func(), aws.Config, string) {
	ts := servicemocks.MockAwsApiServer(svcName, endpoints)

	return ts.Close, MockedAwsConfig(ts.URL), ts.URL
}

// MockedAwsConfig returns a configuration with static credentials that sends every request to url.
func MockedAwsConfig(url string) aws.Config {
	return aws.Config{
		Credentials:  credentials.NewStaticCredentialsProvider(servicemocks.MockStaticAccessKey, servicemocks.MockStaticSecretKey, ""),
		Region:       "us-east-1",
		BaseEndpoint: aws.String(url),
	}
}

// GetMockedParameterStore starts an in-memory Parameter Store and returns a client for it.
func GetMockedParameterStore(parameters ...servicemocks.MockParameter) (*servicemocks.ParameterStoreServer, *ssm.Client) {
	server := servicemocks.NewParameterStoreServer(parameters...)
	client := ssm.NewFromConfig(MockedAwsConfig(server.URL), func(o *ssm.Options) {
		o.RetryMaxAttempts = 1
	})
	return server, client
}

var (
	MockStaticCredentials = aws.Credentials{
		AccessKeyID:     servicemocks.MockStaticAccessKey,
		SecretAccessKey: servicemocks.MockStaticSecretKey,
		Source:          credentials.StaticCredentialsName,
	}

	MockSsoCredentials = aws.Credentials{
		AccessKeyID:     servicemocks.MockSsoAccessKey,
		SecretAccessKey: servicemocks.MockSsoSecretKey,
		SessionToken:    servicemocks.MockSsoSessionToken,
		Source:          ssocreds.ProviderName,
		CanExpire:       true,
	}
)
