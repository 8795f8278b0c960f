// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package endpoints

import (
	"regexp"
)

type Partition struct {
	id          string
	name        string
	dnsSuffix   string
	signinHost  string
	consoleHost string
	regionRegex *regexp.Regexp
}

func (p Partition) ID() string {
	return p.id
}

func (p Partition) Name() string {
	return p.name
}

func (p Partition) DNSSuffix() string {
	return p.dnsSuffix
}

func (p Partition) RegionRegex() *regexp.Regexp {
	return p.regionRegex
}

// SigninURL is the federation endpoint that exchanges credentials for a sign-in token.
func (p Partition) SigninURL() string {
	return "https://" + p.signinHost + "/federation"
}

// ConsoleURL is the console landing page that federated logins are sent to.
func (p Partition) ConsoleURL() string {
	return "https://" + p.consoleHost + "/"
}
