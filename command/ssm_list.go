// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package command

import (
	"encoding/json"

	"github.com/hashicorp/aws-ssm-tools/paramstore"
)

type SSMListCommand struct {
	*Meta
}

func (c *SSMListCommand) Synopsis() string {
	return "List parameters from AWS SSM"
}

func (c *SSMListCommand) Help() string {
	return helpText(`
Usage: ssmtools ssm list [options]

  Lists parameter names, one per line.

Options:

  -equals=<name>      Only the parameter with this exact name.

  -begins=<prefix>    Only parameters whose name starts with the prefix.

  -contains=<term>    Only parameters whose name contains the term. May be
                      repeated; a name matching any term is listed.

  -values             Fetch the decrypted values and print a JSON object of
                      names to values.

  -json               Print the names as a JSON array.
`)
}

func (c *SSMListCommand) Run(args []string) int {
	var filters paramstore.Filters
	var contains stringSliceValue
	var values, asJSON bool

	fs := c.FlagSet("ssm list", c.Help)
	fs.StringVar(&filters.Equals, "equals", "", "")
	fs.StringVar(&filters.BeginsWith, "begins", "", "")
	fs.Var(&contains, "contains", "")
	fs.BoolVar(&values, "values", false, "")
	fs.BoolVar(&asJSON, "json", false, "")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() != 0 {
		c.Ui.Error(c.Help())
		return exitError
	}
	filters.Contains = contains

	ctx, config := c.setup()

	store, err := c.parameterStore(ctx, config)
	if err != nil {
		return c.errorf(err)
	}

	names, err := store.List(ctx, filters)
	if err != nil {
		return c.errorf(err)
	}

	if !values {
		if !asJSON {
			for _, name := range names {
				c.Ui.Output(name)
			}
			return exitOK
		}
		return c.outputJSON(names)
	}

	records, _, err := store.GetMany(ctx, names)
	if err != nil {
		return c.errorf(err)
	}

	result := make(map[string]string, len(records))
	for _, r := range records {
		result[r.Name] = r.Value
	}
	return c.outputJSON(result)
}

func (c *SSMListCommand) outputJSON(v any) int {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return c.errorf(err)
	}
	c.Ui.Output(string(out))
	return exitOK
}
