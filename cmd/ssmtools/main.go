// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/aws-ssm-tools/command"
	"github.com/hashicorp/aws-ssm-tools/internal/constants"
	"github.com/hashicorp/cli"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	ui := &cli.BasicUi{
		Reader:      os.Stdin,
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	c := cli.NewCLI(constants.AppName, constants.Version)
	c.Args = args
	c.Commands = command.Commands(command.NewMeta(ui))
	c.HelpWriter = os.Stderr

	exitCode, err := c.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing CLI: %s\n", err)
		return 1
	}
	return exitCode
}
