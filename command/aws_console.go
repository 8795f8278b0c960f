// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

import (
	awsbase "github.com/hashicorp/aws-ssm-tools"
	"github.com/hashicorp/aws-ssm-tools/console"
	"github.com/hashicorp/aws-ssm-tools/endpoints"
	"github.com/hashicorp/aws-ssm-tools/internal/httpclient"
	"github.com/hashicorp/aws-ssm-tools/logging"
)

type AWSConsoleCommand struct {
	*Meta
}

func (c *AWSConsoleCommand) Synopsis() string {
	return "Print a sign-in URL for the AWS Console"
}

func (c *AWSConsoleCommand) Help() string {
	return helpText(`
Usage: ssmtools aws console [options]

  Prints a URL that signs into the AWS Management Console with the current
  credentials. Long-term IAM user keys are exchanged for a federation token
  first.

Options:

  -whoami             Also print the ARN of the signed-in identity to
                      stderr.
`)
}

func (c *AWSConsoleCommand) Run(args []string) int {
	var whoami bool

	fs := c.FlagSet("aws console", c.Help)
	fs.BoolVar(&whoami, "whoami", false, "")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() != 0 {
		c.Ui.Error(c.Help())
		return exitError
	}

	ctx, config := c.setup()

	cfg, err := c.AWSConfig(ctx, config)
	if err != nil {
		return c.errorf(err)
	}

	creds, err := c.Credentials(ctx, config)
	if err != nil {
		return c.errorf(err)
	}

	partition, ok := endpoints.PartitionForRegion(cfg.Region)
	if !ok {
		partition = endpoints.Standard()
	}

	builder := &console.Builder{
		STS:                awsbase.NewSTSClient(cfg, config),
		HTTPClient:         c.HTTPClient,
		Partition:          partition,
		FederationEndpoint: c.FederationEndpoint,
	}
	if builder.HTTPClient == nil {
		httpClient, err := httpclient.DefaultHttpClient(config)
		if err != nil {
			return c.errorf(err)
		}
		builder.HTTPClient = httpClient
	}

	logging.RetrieveLogger(ctx).Debug(ctx, "Building console sign-in URL", map[string]any{
		"aws.partition": partition.ID(),
	})

	if whoami {
		arn, err := builder.CallerARN(ctx)
		if err != nil {
			return c.errorf(err)
		}
		c.Ui.Warn("Signing in as " + arn)
	}

	loginURL, err := builder.LoginURL(ctx, creds)
	if err != nil {
		return c.errorf(err)
	}

	c.Ui.Output(loginURL)
	return exitOK
}
