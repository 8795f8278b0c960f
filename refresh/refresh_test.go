// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package refresh

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/google/go-cmp/cmp"
	awsbase "github.com/hashicorp/aws-ssm-tools"
	"github.com/hashicorp/aws-ssm-tools/internal/errs"
	"github.com/hashicorp/aws-ssm-tools/process"
)

type recordingRunner struct {
	calls []string
	err   error
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) error {
	r.calls = append(r.calls, strings.Join(append([]string{name}, args...), " "))
	return r.err
}

type credentialsSequence struct {
	results []error
	calls   int
}

func (s *credentialsSequence) retrieve(_ context.Context) (aws.Credentials, error) {
	i := s.calls
	s.calls++
	if i < len(s.results) && s.results[i] != nil {
		return aws.Credentials{}, s.results[i]
	}
	return aws.Credentials{
		AccessKeyID:     "ASIAEXAMPLE",
		SecretAccessKey: "secret",
		SessionToken:    "token",
	}, nil
}

func TestRefresh(t *testing.T) {
	loginRequired := awsbase.NoValidCredentialSourcesError{Err: errors.New("token expired")}

	testCases := []struct {
		Name                string
		Profile             string
		CredentialResults   []error
		ExpectedCalls       []string
		ExpectedCredentials int
		ExpectedErr         bool
	}{
		{
			Name: "valid session",
			ExpectedCalls: []string{
				"aws configure set aws_access_key_id ASIAEXAMPLE",
				"aws configure set aws_secret_access_key secret",
				"aws configure set aws_session_token token",
			},
			ExpectedCredentials: 1,
		},
		{
			Name:              "login required",
			Profile:           "dev",
			CredentialResults: []error{loginRequired},
			ExpectedCalls: []string{
				"aws sso login --profile dev",
				"aws configure set aws_access_key_id ASIAEXAMPLE --profile dev",
				"aws configure set aws_secret_access_key secret --profile dev",
				"aws configure set aws_session_token token --profile dev",
			},
			ExpectedCredentials: 2,
		},
		{
			Name:                "login does not help",
			CredentialResults:   []error{loginRequired, loginRequired},
			ExpectedCalls:       []string{"aws sso login"},
			ExpectedCredentials: 2,
			ExpectedErr:         true,
		},
		{
			Name:                "other credential error",
			CredentialResults:   []error{errors.New("network down")},
			ExpectedCalls:       nil,
			ExpectedCredentials: 1,
			ExpectedErr:         true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.Name, func(t *testing.T) {
			runner := &recordingRunner{}
			creds := &credentialsSequence{results: testCase.CredentialResults}

			r := &Refresher{
				Credentials: creds.retrieve,
				Runner:      runner,
				Profile:     testCase.Profile,
			}

			err := r.Refresh(context.Background())
			if testCase.ExpectedErr && err == nil {
				t.Fatal("expected error, got none")
			}
			if !testCase.ExpectedErr && err != nil {
				t.Fatalf("unexpected error: %s", err)
			}

			if diff := cmp.Diff(testCase.ExpectedCalls, runner.calls); diff != "" {
				t.Errorf("unexpected commands (-want +got):\n%s", diff)
			}
			if a, e := creds.calls, testCase.ExpectedCredentials; a != e {
				t.Errorf("expected %d credential lookups, got %d", e, a)
			}
		})
	}
}

func TestRefreshCLINotInstalled(t *testing.T) {
	runner := &recordingRunner{err: &process.ExecutableNotFoundError{Name: "aws"}}
	creds := &credentialsSequence{}

	r := &Refresher{Credentials: creds.retrieve, Runner: runner}

	err := r.Refresh(context.Background())
	if !errs.IsA[*CLINotInstalledError](err) {
		t.Fatalf("expected CLINotInstalledError, got %T: %v", err, err)
	}
	if a, e := err.Error(), "AWS CLI not installed"; a != e {
		t.Errorf("expected %q, got %q", e, a)
	}
	if !errs.IsA[*process.ExecutableNotFoundError](err) {
		t.Error("expected wrapped ExecutableNotFoundError")
	}
}

func TestRefreshCLIFails(t *testing.T) {
	runner := &recordingRunner{err: &process.ExitError{Command: "aws", Code: 255}}
	creds := &credentialsSequence{}

	r := &Refresher{Credentials: creds.retrieve, Runner: runner}

	err := r.Refresh(context.Background())
	if a, e := err.Error(), "aws failed with status 255"; a != e {
		t.Errorf("expected %q, got %q", e, a)
	}
	if a, e := len(runner.calls), 1; a != e {
		t.Errorf("expected %d command, got %d", e, a)
	}
}
