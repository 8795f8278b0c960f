// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

import (
	"github.com/hashicorp/cli"
)

// Commands returns the factories for every subcommand, keyed by name.
func Commands(meta *Meta) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"ssm get": func() (cli.Command, error) {
			return &SSMGetCommand{Meta: meta}, nil
		},
		"ssm put": func() (cli.Command, error) {
			return &SSMPutCommand{Meta: meta}, nil
		},
		"ssm putmany": func() (cli.Command, error) {
			return &SSMPutManyCommand{Meta: meta}, nil
		},
		"ssm del": func() (cli.Command, error) {
			return &SSMDelCommand{Meta: meta}, nil
		},
		"ssm list": func() (cli.Command, error) {
			return &SSMListCommand{Meta: meta}, nil
		},
		"aws refresh": func() (cli.Command, error) {
			return &AWSRefreshCommand{Meta: meta}, nil
		},
		"aws console": func() (cli.Command, error) {
			return &AWSConsoleCommand{Meta: meta}, nil
		},
	}
}
