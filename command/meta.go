// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package command implements the ssmtools subcommands.
package command

import (
	"context"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsbase "github.com/hashicorp/aws-ssm-tools"
	"github.com/hashicorp/aws-ssm-tools/console"
	"github.com/hashicorp/aws-ssm-tools/internal/constants"
	"github.com/hashicorp/aws-ssm-tools/logging"
	"github.com/hashicorp/aws-ssm-tools/paramstore"
	"github.com/hashicorp/aws-ssm-tools/process"
	"github.com/hashicorp/aws-ssm-tools/refresh"
	"github.com/hashicorp/aws-ssm-tools/useragent"
	"github.com/hashicorp/cli"
)

const (
	exitOK    = 0
	exitError = 1
)

// Meta holds what every command shares: the UI, the standard flags and the
// constructors for AWS access. Tests replace the constructors.
type Meta struct {
	Ui        cli.Ui
	Stdin     io.Reader
	LogOutput io.Writer

	AWSConfig      func(ctx context.Context, c *awsbase.Config) (aws.Config, error)
	Credentials    func(ctx context.Context, c *awsbase.Config) (aws.Credentials, error)
	SSOCredentials func(ctx context.Context, c *awsbase.Config) (aws.Credentials, error)
	Runner         refresh.Runner

	// HTTPClient and FederationEndpoint override the console sign-in transport.
	HTTPClient         console.Doer
	FederationEndpoint string

	profile string
	region  string
	debug   bool

	httpProxy              string
	httpsProxy             string
	noProxy                string
	insecure               bool
	maxRetries             int
	sharedConfigFiles      stringSliceValue
	sharedCredentialsFiles stringSliceValue
	ssmEndpoint            string
	stsEndpoint            string
	ssoEndpoint            string
}

// NewMeta returns a Meta that talks to AWS and the terminal.
func NewMeta(ui cli.Ui) *Meta {
	return &Meta{
		Ui:             ui,
		Stdin:          os.Stdin,
		LogOutput:      os.Stderr,
		AWSConfig:      awsbase.GetAwsConfig,
		Credentials:    awsbase.RetrieveCredentials,
		SSOCredentials: awsbase.SSOCredentials,
		Runner: process.Runner{
			Stdin:  os.Stdin,
			Stdout: os.Stdout,
			Stderr: os.Stderr,
		},
	}
}

// FlagSet returns a flag set with the flags common to every command.
func (m *Meta) FlagSet(name string, help func() string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { m.Ui.Error(help()) }

	fs.StringVar(&m.profile, "profile", "", "")
	fs.StringVar(&m.region, "region", "", "")
	fs.BoolVar(&m.debug, "debug", false, "")

	fs.StringVar(&m.httpProxy, "http-proxy", "", "")
	fs.StringVar(&m.httpsProxy, "https-proxy", "", "")
	fs.StringVar(&m.noProxy, "no-proxy", "", "")
	fs.BoolVar(&m.insecure, "insecure", false, "")
	fs.IntVar(&m.maxRetries, "max-retries", 0, "")
	fs.Var(&m.sharedConfigFiles, "shared-config-file", "")
	fs.Var(&m.sharedCredentialsFiles, "shared-credentials-file", "")
	fs.StringVar(&m.ssmEndpoint, "endpoint-url", os.Getenv(constants.SsmEndpointEnvVar), "")
	fs.StringVar(&m.stsEndpoint, "sts-endpoint-url", os.Getenv(constants.StsEndpointEnvVar), "")
	fs.StringVar(&m.ssoEndpoint, "sso-endpoint-url", os.Getenv(constants.SsoEndpointEnvVar), "")

	return fs
}

// setup builds the context carrying the logger and the AWS configuration
// from the parsed flags and the environment.
func (m *Meta) setup() (context.Context, *awsbase.Config) {
	opts := logging.OptionsFromEnv(constants.AppName)
	if m.debug {
		opts.Level = "debug"
	}
	if m.LogOutput != nil {
		opts.Output = m.LogOutput
	}

	ctx := logging.RegisterLogger(context.Background(), logging.NewHcLogger(opts))

	c := &awsbase.Config{
		CallerName:             constants.AppName,
		DebugLogging:           logging.IsDebugLevel(opts.Level),
		HTTPProxy:              m.httpProxy,
		HTTPSProxy:             m.httpsProxy,
		Insecure:               m.insecure,
		MaxRetries:             m.maxRetries,
		NoProxy:                m.noProxy,
		Profile:                m.profile,
		Region:                 m.region,
		SharedConfigFiles:      m.sharedConfigFiles,
		SharedCredentialsFiles: m.sharedCredentialsFiles,
		SsmEndpoint:            m.ssmEndpoint,
		SsoEndpoint:            m.ssoEndpoint,
		StsEndpoint:            m.stsEndpoint,
		UserAgent:              useragent.FromEnv(),
	}

	return ctx, c
}

func (m *Meta) errorf(err error) int {
	m.Ui.Error("ERROR " + err.Error())
	return exitError
}

const generalOptionsText = `
General Options:

  -profile=<name>     The AWS profile to use. Defaults to AWS_PROFILE or
                      "default".

  -region=<region>    The AWS region. Defaults to the profile's region.

  -debug              Log AWS requests and responses to stderr.

  -max-retries=<n>    Maximum attempts for a retryable AWS request. Defaults
                      to the SDK's retry policy.

  -shared-config-file=<path>
                      An AWS shared config file. May be repeated.

  -shared-credentials-file=<path>
                      An AWS shared credentials file. May be repeated.

  -endpoint-url=<url> Parameter Store endpoint. Defaults to
                      AWS_ENDPOINT_URL_SSM.

  -sts-endpoint-url=<url>
                      STS endpoint. Defaults to AWS_ENDPOINT_URL_STS.

  -sso-endpoint-url=<url>
                      SSO portal endpoint. Defaults to AWS_ENDPOINT_URL_SSO.

  -http-proxy=<url>   Proxy for HTTP requests. Defaults to HTTP_PROXY.

  -https-proxy=<url>  Proxy for HTTPS requests. Defaults to HTTPS_PROXY, then
                      -http-proxy.

  -no-proxy=<hosts>   Hosts that bypass the proxy. Defaults to NO_PROXY.

  -insecure           Skip TLS certificate verification.
`

func helpText(s string) string {
	return strings.TrimSpace(s) + "\n" + generalOptionsText
}

// stringSliceValue collects repeated string flags.
type stringSliceValue []string

func (s *stringSliceValue) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceValue) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func (m *Meta) parameterStore(ctx context.Context, c *awsbase.Config) (*paramstore.Store, error) {
	cfg, err := m.AWSConfig(ctx, c)
	if err != nil {
		return nil, err
	}
	return paramstore.New(awsbase.NewSSMClient(cfg, c)), nil
}
