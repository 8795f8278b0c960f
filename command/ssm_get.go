// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

type SSMGetCommand struct {
	*Meta
}

func (c *SSMGetCommand) Synopsis() string {
	return "Get the value of a parameter from AWS SSM"
}

func (c *SSMGetCommand) Help() string {
	return helpText(`
Usage: ssmtools ssm get [options] <parameter>

  Prints the decrypted value of the parameter.
`)
}

func (c *SSMGetCommand) Run(args []string) int {
	fs := c.FlagSet("ssm get", c.Help)
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() != 1 {
		c.Ui.Error(c.Help())
		return exitError
	}

	ctx, config := c.setup()

	store, err := c.parameterStore(ctx, config)
	if err != nil {
		return c.errorf(err)
	}

	record, err := store.Get(ctx, fs.Arg(0))
	if err != nil {
		return c.errorf(err)
	}

	c.Ui.Output(record.Value)
	return exitOK
}
