// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
)

type Config struct {
	CallerName             string
	DebugLogging           bool
	HTTPProxy              string
	HTTPSProxy             string
	Insecure               bool
	MaxRetries             int
	NoProxy                string
	Profile                string
	Region                 string
	SharedConfigFiles      []string
	SharedCredentialsFiles []string
	SsmEndpoint            string
	SsoEndpoint            string
	StsEndpoint            string
	UserAgent              UserAgentProducts
}

type UserAgentProduct struct {
	Name    string
	Version string
	Comment string
}

type UserAgentProducts []UserAgentProduct

func (ua UserAgentProducts) BuildUserAgentString() string {
	var b strings.Builder
	for _, p := range ua {
		if p.Name == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(p.Name)
		if p.Version != "" {
			b.WriteString("/")
			b.WriteString(p.Version)
		}
		if p.Comment != "" {
			b.WriteString(" (")
			b.WriteString(p.Comment)
			b.WriteString(")")
		}
	}
	return b.String()
}

// ProfileName returns the configured profile, falling back to AWS_PROFILE and
// then "default", the same order the SDK resolves it in.
func (c Config) ProfileName() string {
	if c.Profile != "" {
		return c.Profile
	}
	if v := os.Getenv("AWS_PROFILE"); v != "" {
		return v
	}
	return "default"
}

func (c Config) ResolveSharedConfigFiles() ([]string, error) {
	return expandFilePaths(c.SharedConfigFiles)
}

func (c Config) ResolveSharedCredentialsFiles() ([]string, error) {
	return expandFilePaths(c.SharedCredentialsFiles)
}

func expandFilePaths(in []string) ([]string, error) {
	result := make([]string, 0, len(in))
	for _, v := range in {
		p, err := homedir.Expand(v)
		if err != nil {
			return nil, fmt.Errorf("expanding file path %q: %w", v, err)
		}
		result = append(result, p)
	}
	return result, nil
}

// NoValidCredentialSourcesError occurs when all credential lookup methods have
// been exhausted without results, including an SSO session that needs a login.
type NoValidCredentialSourcesError struct {
	Config *Config
	Err    error
}

func (c *Config) NewNoValidCredentialSourcesError(err error) NoValidCredentialSourcesError {
	return NoValidCredentialSourcesError{
		Config: c,
		Err:    err,
	}
}

func (e NoValidCredentialSourcesError) Error() string {
	profile := "default"
	if e.Config != nil {
		profile = e.Config.ProfileName()
	}
	if e.Err == nil {
		return fmt.Sprintf("no valid credential sources for profile %q found", profile)
	}
	return fmt.Sprintf("no valid credential sources for profile %q found: %s", profile, e.Err)
}

func (e NoValidCredentialSourcesError) Unwrap() error {
	return e.Err
}
