// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
)

func TestUserAgentProducts_BuildUserAgentString(t *testing.T) {
	testCases := []struct {
		Name     string
		Products UserAgentProducts
		Expected string
	}{
		{
			Name:     "empty",
			Expected: "",
		},
		{
			Name: "name only",
			Products: UserAgentProducts{
				{Name: "first"},
			},
			Expected: "first",
		},
		{
			Name: "multiple",
			Products: UserAgentProducts{
				{Name: "first", Version: "1.2.3"},
				{Name: "second", Version: "1.0.2", Comment: "a comment"},
			},
			Expected: "first/1.2.3 second/1.0.2 (a comment)",
		},
		{
			Name: "zero value skipped",
			Products: UserAgentProducts{
				{},
				{Name: "first", Version: "1.2.3"},
			},
			Expected: "first/1.2.3",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.Name, func(t *testing.T) {
			if a, e := testCase.Products.BuildUserAgentString(), testCase.Expected; a != e {
				t.Errorf("expected %q, got %q", e, a)
			}
		})
	}
}

func TestConfig_ProfileName(t *testing.T) {
	t.Setenv("AWS_PROFILE", "")
	if a, e := (Config{}).ProfileName(), "default"; a != e {
		t.Errorf("expected %q, got %q", e, a)
	}

	t.Setenv("AWS_PROFILE", "from-env")
	if a, e := (Config{}).ProfileName(), "from-env"; a != e {
		t.Errorf("expected %q, got %q", e, a)
	}
	if a, e := (Config{Profile: "explicit"}).ProfileName(), "explicit"; a != e {
		t.Errorf("expected %q, got %q", e, a)
	}
}

func TestConfig_ResolveSharedConfigFiles(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skipf("no home directory: %s", err)
	}

	c := Config{
		SharedConfigFiles: []string{"~/.aws/config", "/etc/aws/config"},
	}

	got, err := c.ResolveSharedConfigFiles()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if a, e := got[0], filepath.Join(home, ".aws", "config"); a != e {
		t.Errorf("expected %q, got %q", e, a)
	}
	if a, e := got[1], "/etc/aws/config"; a != e {
		t.Errorf("expected %q, got %q", e, a)
	}
}

func TestNoValidCredentialSourcesError(t *testing.T) {
	inner := errors.New("token expired")
	c := &Config{Profile: "dev"}

	err := c.NewNoValidCredentialSourcesError(inner)

	if !errors.Is(err, inner) {
		t.Error("expected error to wrap the cause")
	}
	if !strings.Contains(err.Error(), `"dev"`) {
		t.Errorf("expected profile in message, got %q", err.Error())
	}
}
