// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

import (
	"github.com/hashicorp/aws-ssm-tools/bulkput"
	"github.com/hashicorp/aws-ssm-tools/internal/errs"
	"github.com/hashicorp/aws-ssm-tools/paramfile"
)

type SSMPutManyCommand struct {
	*Meta
}

func (c *SSMPutManyCommand) Synopsis() string {
	return "Create or update parameters in AWS SSM from JSON on stdin"
}

func (c *SSMPutManyCommand) Help() string {
	return helpText(`
Usage: ssmtools ssm putmany [options] < parameters.json

  Reads a JSON object from standard input. Keys are parameter names,
  optionally followed by ":String" or ":SecureString", and values are the
  parameter values. Every parameter is overwritten.

  A parameter without an explicit type keeps the type it already has. New
  parameters get SecureString when the name contains one of key, secret,
  password or passcode, and String otherwise.

Options:

  -dumb                    Do not guess the type from the name. New
                           parameters without a type are String.

  -generate-example-input  Print an example input document and exit.
`)
}

func (c *SSMPutManyCommand) Run(args []string) int {
	var dumb, example bool

	fs := c.FlagSet("ssm putmany", c.Help)
	fs.BoolVar(&dumb, "dumb", false, "")
	fs.BoolVar(&example, "generate-example-input", false, "")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() != 0 {
		c.Ui.Error(c.Help())
		return exitError
	}

	if example {
		out, err := paramfile.Format(paramfile.Example())
		if err != nil {
			return c.errorf(err)
		}
		c.Ui.Output(string(out))
		return exitOK
	}

	entries, err := paramfile.Parse(c.Stdin)
	if inputErr, ok := errs.As[*paramfile.InputError](err); ok {
		c.Ui.Error("There are errors in the input:\n")
		for _, msg := range inputErr.Messages() {
			c.Ui.Error(msg)
		}
		return exitError
	}
	if err != nil {
		return c.errorf(err)
	}

	ctx, config := c.setup()

	store, err := c.parameterStore(ctx, config)
	if err != nil {
		return c.errorf(err)
	}

	importer := &bulkput.Importer{
		Store: store,
		Dumb:  dumb,
	}
	summary, err := importer.Import(ctx, entries)
	if err != nil {
		return c.errorf(err)
	}

	c.Ui.Output("Created:")
	c.outputList(summary.Created)
	c.Ui.Output("\nUpdated:")
	c.outputList(summary.Updated)

	if len(summary.Errors) > 0 {
		c.Ui.Error("\nErrors:")
		for _, e := range summary.Errors {
			c.Ui.Error("  " + e.Error())
		}
		return exitError
	}

	return exitOK
}

func (c *SSMPutManyCommand) outputList(names []string) {
	if len(names) == 0 {
		c.Ui.Output("  none")
		return
	}
	for _, name := range names {
		c.Ui.Output("  " + name)
	}
}
