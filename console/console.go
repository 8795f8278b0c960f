// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package console builds AWS Management Console sign-in URLs from API
// credentials through the federation endpoint.
package console

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/hashicorp/aws-ssm-tools/endpoints"
	"github.com/hashicorp/aws-ssm-tools/internal/constants"
	"github.com/hashicorp/aws-ssm-tools/logging"
)

const (
	DefaultSessionDuration = 12 * time.Hour

	// Credentials obtained through GetFederationToken may use every
	// permission of the calling user.
	federationPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Action":"*","Resource":"*"}]}`
)

// STSAPI is the subset of the STS client used by Builder.
type STSAPI interface {
	GetFederationToken(ctx context.Context, params *sts.GetFederationTokenInput, optFns ...func(*sts.Options)) (*sts.GetFederationTokenOutput, error)
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

var _ STSAPI = (*sts.Client)(nil)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SigninTokenError is returned when the federation endpoint refuses the credentials.
type SigninTokenError struct {
	StatusCode int
}

func (e *SigninTokenError) Error() string {
	return fmt.Sprintf("requesting sign-in token: status %d", e.StatusCode)
}

type Builder struct {
	STS        STSAPI
	HTTPClient Doer

	// Partition selects the sign-in and console hosts. Defaults to the aws partition.
	Partition endpoints.Partition

	// Issuer is shown to the user when the console session expires.
	Issuer string
	// Destination is the console page to open. Defaults to the partition's console home.
	Destination string

	SessionDuration time.Duration

	// FederationEndpoint overrides the partition's federation endpoint.
	FederationEndpoint string
}

type session struct {
	SessionID    string `json:"sessionId"`
	SessionKey   string `json:"sessionKey"`
	SessionToken string `json:"sessionToken"`
}

type signinTokenResponse struct {
	SigninToken string
}

// LoginURL returns a URL that signs the browser into the console with creds.
// Long-term credentials are first exchanged for a federation token.
func (b *Builder) LoginURL(ctx context.Context, creds aws.Credentials) (string, error) {
	logger := logging.RetrieveLogger(ctx)

	duration := b.sessionDuration()
	includeDuration := true

	if creds.SessionToken == "" {
		logger.Debug(ctx, "Exchanging long-term credentials for a federation token")

		federated, err := b.federationToken(ctx, duration)
		if err != nil {
			return "", err
		}
		creds = federated
		// The console session lasts as long as the federation token.
		includeDuration = false
	}

	token, err := b.signinToken(ctx, creds, duration, includeDuration)
	if err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("Action", "login")
	query.Set("Issuer", b.issuer())
	query.Set("Destination", b.destination())
	query.Set("SigninToken", token)

	return b.federationEndpoint() + "?" + query.Encode(), nil
}

// CallerARN returns the ARN of the identity the STS client authenticates as.
func (b *Builder) CallerARN(ctx context.Context) (string, error) {
	output, err := b.STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("getting caller identity: %w", err)
	}
	return aws.ToString(output.Arn), nil
}

func (b *Builder) federationToken(ctx context.Context, duration time.Duration) (aws.Credentials, error) {
	if b.STS == nil {
		return aws.Credentials{}, errors.New("long-term credentials require an STS client")
	}

	output, err := b.STS.GetFederationToken(ctx, &sts.GetFederationTokenInput{
		Name:            aws.String(constants.AppName),
		DurationSeconds: aws.Int32(int32(duration.Seconds())),
		Policy:          aws.String(federationPolicy),
	})
	if err != nil {
		return aws.Credentials{}, fmt.Errorf("getting federation token: %w", err)
	}
	if output.Credentials == nil {
		return aws.Credentials{}, errors.New("getting federation token: no credentials returned")
	}

	return aws.Credentials{
		AccessKeyID:     aws.ToString(output.Credentials.AccessKeyId),
		SecretAccessKey: aws.ToString(output.Credentials.SecretAccessKey),
		SessionToken:    aws.ToString(output.Credentials.SessionToken),
	}, nil
}

func (b *Builder) signinToken(ctx context.Context, creds aws.Credentials, duration time.Duration, includeDuration bool) (string, error) {
	sessionJSON, err := json.Marshal(session{
		SessionID:    creds.AccessKeyID,
		SessionKey:   creds.SecretAccessKey,
		SessionToken: creds.SessionToken,
	})
	if err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("Action", "getSigninToken")
	if includeDuration {
		query.Set("SessionDuration", strconv.Itoa(int(duration.Seconds())))
	}
	query.Set("Session", string(sessionJSON))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.federationEndpoint()+"?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := b.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting sign-in token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &SigninTokenError{StatusCode: resp.StatusCode}
	}

	var body signinTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("reading sign-in token: %w", err)
	}
	if body.SigninToken == "" {
		return "", errors.New("reading sign-in token: empty token")
	}

	return body.SigninToken, nil
}

func (b *Builder) partition() endpoints.Partition {
	if b.Partition.ID() == "" {
		return endpoints.Standard()
	}
	return b.Partition
}

func (b *Builder) federationEndpoint() string {
	if b.FederationEndpoint != "" {
		return b.FederationEndpoint
	}
	return b.partition().SigninURL()
}

func (b *Builder) destination() string {
	if b.Destination != "" {
		return b.Destination
	}
	return b.partition().ConsoleURL()
}

func (b *Builder) issuer() string {
	if b.Issuer != "" {
		return b.Issuer
	}
	return constants.AppName
}

func (b *Builder) sessionDuration() time.Duration {
	if b.SessionDuration > 0 {
		return b.SessionDuration
	}
	return DefaultSessionDuration
}

func (b *Builder) httpClient() Doer {
	if b.HTTPClient != nil {
		return b.HTTPClient
	}
	return http.DefaultClient
}
