// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/hashicorp/aws-ssm-tools/refresh"
)

type AWSRefreshCommand struct {
	*Meta
}

func (c *AWSRefreshCommand) Synopsis() string {
	return "Store fresh SSO credentials in ~/.aws/credentials"
}

func (c *AWSRefreshCommand) Help() string {
	return helpText(`
Usage: ssmtools aws refresh [options]

  Gets new credentials for the current SSO profile and stores them in the
  shared credentials file with the AWS CLI. Runs "aws sso login" first when
  the SSO session has expired.
`)
}

func (c *AWSRefreshCommand) Run(args []string) int {
	fs := c.FlagSet("aws refresh", c.Help)
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() != 0 {
		c.Ui.Error(c.Help())
		return exitError
	}

	ctx, config := c.setup()

	r := &refresh.Refresher{
		Credentials: func(ctx context.Context) (aws.Credentials, error) {
			return c.SSOCredentials(ctx, config)
		},
		Runner:  c.Runner,
		Profile: config.Profile,
	}

	if err := r.Refresh(ctx); err != nil {
		return c.errorf(err)
	}
	return exitOK
}
