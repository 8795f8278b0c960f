// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

type SSMDelCommand struct {
	*Meta
}

func (c *SSMDelCommand) Synopsis() string {
	return "Delete parameters from AWS SSM"
}

func (c *SSMDelCommand) Help() string {
	return helpText(`
Usage: ssmtools ssm del [options] <parameter>...

  Deletes the parameters and warns about those that do not exist.

Options:

  -exists             Exit with an error if any of the parameters does not
                      exist.
`)
}

func (c *SSMDelCommand) Run(args []string) int {
	var exists bool

	fs := c.FlagSet("ssm del", c.Help)
	fs.BoolVar(&exists, "exists", false, "")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() == 0 {
		c.Ui.Error(c.Help())
		return exitError
	}

	ctx, config := c.setup()

	store, err := c.parameterStore(ctx, config)
	if err != nil {
		return c.errorf(err)
	}

	invalid, err := store.Delete(ctx, fs.Args())
	if err != nil {
		return c.errorf(err)
	}

	if len(invalid) > 0 {
		c.Ui.Warn("WARN The following parameters do not exist:")
		for _, name := range invalid {
			c.Ui.Warn("  " + name)
		}
		if exists {
			return exitError
		}
	}

	return exitOK
}
