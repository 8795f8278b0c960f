// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package refresh copies SSO role credentials into the AWS CLI's shared
// credentials file.
package refresh

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsbase "github.com/hashicorp/aws-ssm-tools"
	"github.com/hashicorp/aws-ssm-tools/internal/constants"
	"github.com/hashicorp/aws-ssm-tools/internal/errs"
	"github.com/hashicorp/aws-ssm-tools/logging"
	"github.com/hashicorp/aws-ssm-tools/process"
)

// CLINotInstalledError is returned when the AWS CLI cannot be found.
type CLINotInstalledError struct {
	Err *process.ExecutableNotFoundError
}

func (e *CLINotInstalledError) Error() string {
	return "AWS CLI not installed"
}

func (e *CLINotInstalledError) Unwrap() error {
	return e.Err
}

type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

var _ Runner = process.Runner{}

type Refresher struct {
	// Credentials retrieves SSO credentials, returning a
	// NoValidCredentialSourcesError when a login is required.
	Credentials func(ctx context.Context) (aws.Credentials, error)
	Runner      Runner

	// Profile is passed to the AWS CLI when set.
	Profile string
	// Executable defaults to "aws".
	Executable string
}

// Refresh retrieves credentials, logging in once through the AWS CLI if the
// SSO session needs it, and stores them with `aws configure set`.
func (r *Refresher) Refresh(ctx context.Context) error {
	logger := logging.RetrieveLogger(ctx)

	creds, err := r.Credentials(ctx)
	if awsbase.IsNoValidCredentialSourcesError(err) {
		logger.Info(ctx, "SSO session expired, logging in", map[string]any{
			"aws.profile": r.Profile,
		})

		if err := r.aws(ctx, "sso", "login"); err != nil {
			return err
		}
		creds, err = r.Credentials(ctx)
	}
	if err != nil {
		return err
	}

	settings := []struct {
		key   string
		value string
	}{
		{"aws_access_key_id", creds.AccessKeyID},
		{"aws_secret_access_key", creds.SecretAccessKey},
		{"aws_session_token", creds.SessionToken},
	}
	for _, s := range settings {
		if err := r.aws(ctx, "configure", "set", s.key, s.value); err != nil {
			return err
		}
	}

	logger.Debug(ctx, "Stored refreshed credentials", map[string]any{
		"aws.profile":       r.Profile,
		"aws.access_key_id": logging.MaskAWSAccessKey(creds.AccessKeyID),
	})

	return nil
}

func (r *Refresher) aws(ctx context.Context, args ...string) error {
	if r.Profile != "" {
		args = append(args, "--profile", r.Profile)
	}

	err := r.Runner.Run(ctx, r.executable(), args...)
	if err == nil {
		return nil
	}
	if notFound, ok := errs.As[*process.ExecutableNotFoundError](err); ok {
		return &CLINotInstalledError{Err: notFound}
	}
	if errs.IsA[*process.ExitError](err) {
		return err
	}
	return fmt.Errorf("running AWS CLI: %w", err)
}

func (r *Refresher) executable() string {
	if r.Executable != "" {
		return r.Executable
	}
	return constants.AwsExecutable
}
