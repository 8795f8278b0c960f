// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hashicorp/aws-ssm-tools/paramstore"
)

var errConflictingFlags = errors.New("options -exists and -create cannot be used together")

type SSMPutCommand struct {
	*Meta
}

func (c *SSMPutCommand) Synopsis() string {
	return "Create or update a parameter in AWS SSM"
}

func (c *SSMPutCommand) Help() string {
	return helpText(`
Usage: ssmtools ssm put [options] <parameter> <value>

  Creates or updates a parameter and prints the resulting tier and version.
  Options must come before the parameter name.

Options:

  -exists             Fail if the parameter does not exist. The parameter
                      keeps its type.

  -create             Fail if the parameter exists.

  -type=<type>        The type of the parameter: String or SecureString.
                      Defaults to String.
`)
}

func (c *SSMPutCommand) Run(args []string) int {
	var exists, create bool
	var typ string

	fs := c.FlagSet("ssm put", c.Help)
	fs.BoolVar(&exists, "exists", false, "")
	fs.BoolVar(&create, "create", false, "")
	fs.StringVar(&typ, "type", paramstore.TypeString, "")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() != 2 {
		c.Ui.Error(c.Help())
		return exitError
	}
	if exists && create {
		return c.errorf(errConflictingFlags)
	}
	if typ != paramstore.TypeString && typ != paramstore.TypeSecureString {
		return c.errorf(fmt.Errorf("invalid type %q, allowed values are %s, %s", typ, paramstore.TypeString, paramstore.TypeSecureString))
	}

	ctx, config := c.setup()

	store, err := c.parameterStore(ctx, config)
	if err != nil {
		return c.errorf(err)
	}

	result, err := store.Put(ctx, paramstore.PutInput{
		Name:            fs.Arg(0),
		Value:           fs.Arg(1),
		Type:            typ,
		Overwrite:       !create,
		RequireExisting: exists,
	})
	switch {
	case paramstore.IsParameterAlreadyExistsError(err):
		c.Ui.Error("ERROR: Parameter already exists.")
		return exitError
	case paramstore.IsParameterNotFoundError(err):
		c.Ui.Error("ERROR: Parameter not found.")
		return exitError
	case err != nil:
		return c.errorf(err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return c.errorf(err)
	}
	c.Ui.Output(string(out))
	return exitOK
}
