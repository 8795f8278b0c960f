// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package awsbase

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go/middleware"
	"github.com/hashicorp/aws-ssm-tools/internal/constants"
	"github.com/hashicorp/aws-ssm-tools/internal/httpclient"
	"github.com/hashicorp/aws-ssm-tools/logging"
	"github.com/hashicorp/aws-ssm-tools/validation"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

// GetAwsConfig loads the SDK configuration described by c. Credentials are
// resolved lazily, on the first request.
func GetAwsConfig(ctx context.Context, c *Config) (aws.Config, error) {
	logger := logging.RetrieveLogger(ctx)

	if c.Region != "" {
		if err := validation.SupportedRegion(c.Region); err != nil {
			return aws.Config{}, err
		}
	}

	loadOptions, err := commonLoadOptions(c)
	if err != nil {
		return aws.Config{}, err
	}

	logger.Debug(ctx, "Loading configuration", map[string]any{
		"aws.profile": c.ProfileName(),
		"aws.region":  c.Region,
	})

	cfg, err := config.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading configuration: %w", err)
	}

	return cfg, nil
}

func commonLoadOptions(c *Config) ([]func(*config.LoadOptions) error, error) {
	httpClient, err := httpclient.DefaultHttpClient(c)
	if err != nil {
		return nil, err
	}

	apiOptions := make([]func(*middleware.Stack) error, 0)
	if c.DebugLogging {
		apiOptions = append(apiOptions, func(stack *middleware.Stack) error {
			return stack.Deserialize.Add(&requestResponseLogger{}, middleware.After)
		})
	}
	apiOptions = append(apiOptions, userAgentProducts(c)...)
	otelaws.AppendMiddlewares(&apiOptions)

	loadOptions := []func(*config.LoadOptions) error{
		config.WithRegion(c.Region),
		config.WithHTTPClient(httpClient),
		config.WithAPIOptions(apiOptions),
		config.WithSharedConfigProfile(c.Profile),
	}

	if c.MaxRetries > 0 {
		loadOptions = append(loadOptions, config.WithRetryMaxAttempts(c.MaxRetries))
	}

	configFiles, err := c.ResolveSharedConfigFiles()
	if err != nil {
		return nil, err
	}
	if len(configFiles) > 0 {
		loadOptions = append(loadOptions, config.WithSharedConfigFiles(configFiles))
	}

	credentialsFiles, err := c.ResolveSharedCredentialsFiles()
	if err != nil {
		return nil, err
	}
	if len(credentialsFiles) > 0 {
		loadOptions = append(loadOptions, config.WithSharedCredentialsFiles(credentialsFiles))
	}

	return loadOptions, nil
}

func userAgentProducts(c *Config) []func(*middleware.Stack) error {
	products := append(UserAgentProducts{{Name: constants.AppName, Version: constants.Version}}, c.UserAgent...)

	result := make([]func(*middleware.Stack) error, 0, len(products))
	for _, product := range products {
		switch {
		case product.Name == "":
			continue
		case product.Version == "":
			result = append(result, awsmiddleware.AddUserAgentKey(product.Name))
		default:
			result = append(result, awsmiddleware.AddUserAgentKeyValue(product.Name, product.Version))
		}
	}
	return result
}

// NewSSMClient returns a Parameter Store client for cfg, honoring the
// configured endpoint override.
func NewSSMClient(cfg aws.Config, c *Config) *ssm.Client {
	return ssm.NewFromConfig(cfg, func(o *ssm.Options) {
		if c.SsmEndpoint != "" {
			o.BaseEndpoint = aws.String(c.SsmEndpoint)
		}
	})
}

func NewSTSClient(cfg aws.Config, c *Config) *sts.Client {
	return sts.NewFromConfig(cfg, func(o *sts.Options) {
		if c.StsEndpoint != "" {
			o.BaseEndpoint = aws.String(c.StsEndpoint)
		}
	})
}
