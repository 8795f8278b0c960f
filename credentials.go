// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package awsbase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/ssocreds"
	"github.com/aws/aws-sdk-go-v2/service/sso"
	ssotypes "github.com/aws/aws-sdk-go-v2/service/sso/types"
	"github.com/aws/aws-sdk-go-v2/service/ssooidc"
	ssooidctypes "github.com/aws/aws-sdk-go-v2/service/ssooidc/types"
	"github.com/hashicorp/aws-ssm-tools/internal/errs"
	"github.com/hashicorp/aws-ssm-tools/logging"
)

type ssoSettings struct {
	AccountID   string
	RoleName    string
	Region      string
	StartURL    string
	SessionName string
}

func (s ssoSettings) configured() bool {
	return s.AccountID != "" && s.RoleName != "" && s.StartURL != ""
}

// RetrieveCredentials resolves credentials for the configured profile. SSO
// profiles go through the IAM Identity Center portal directly; other profiles
// use the SDK default chain. A profile that needs a new `aws sso login`
// returns a NoValidCredentialSourcesError.
func RetrieveCredentials(ctx context.Context, c *Config) (aws.Credentials, error) {
	logger := logging.RetrieveLogger(ctx)

	sharedConfig, err := loadSharedConfigProfile(ctx, c)
	if err != nil {
		if errs.IsA[config.SharedConfigProfileNotExistError](err) {
			return aws.Credentials{}, c.NewNoValidCredentialSourcesError(err)
		}
		return aws.Credentials{}, fmt.Errorf("loading profile %q: %w", c.ProfileName(), err)
	}

	if settings := ssoSettingsFromSharedConfig(sharedConfig); settings.configured() {
		logger.Debug(ctx, "Retrieving SSO credentials", map[string]any{
			"aws.profile":        c.ProfileName(),
			"aws.sso.account_id": settings.AccountID,
			"aws.sso.role_name":  settings.RoleName,
		})
		return ssoCredentials(ctx, c, settings)
	}

	cfg, err := GetAwsConfig(ctx, c)
	if err != nil {
		return aws.Credentials{}, err
	}

	creds, err := cfg.Credentials.Retrieve(ctx)
	if err != nil {
		return aws.Credentials{}, c.NewNoValidCredentialSourcesError(err)
	}
	return creds, nil
}

// SSOCredentials retrieves role credentials for an SSO profile from the IAM
// Identity Center portal using the cached access token.
func SSOCredentials(ctx context.Context, c *Config) (aws.Credentials, error) {
	sharedConfig, err := loadSharedConfigProfile(ctx, c)
	if err != nil {
		if errs.IsA[config.SharedConfigProfileNotExistError](err) {
			return aws.Credentials{}, c.NewNoValidCredentialSourcesError(err)
		}
		return aws.Credentials{}, fmt.Errorf("loading profile %q: %w", c.ProfileName(), err)
	}

	settings := ssoSettingsFromSharedConfig(sharedConfig)
	if !settings.configured() {
		return aws.Credentials{}, c.NewNoValidCredentialSourcesError(fmt.Errorf("profile %q is not configured for SSO", c.ProfileName()))
	}

	return ssoCredentials(ctx, c, settings)
}

func loadSharedConfigProfile(ctx context.Context, c *Config) (config.SharedConfig, error) {
	configFiles, err := c.ResolveSharedConfigFiles()
	if err != nil {
		return config.SharedConfig{}, err
	}
	credentialsFiles, err := c.ResolveSharedCredentialsFiles()
	if err != nil {
		return config.SharedConfig{}, err
	}

	return config.LoadSharedConfigProfile(ctx, c.ProfileName(), func(o *config.LoadSharedConfigOptions) {
		if len(configFiles) > 0 {
			o.ConfigFiles = configFiles
		}
		if len(credentialsFiles) > 0 {
			o.CredentialsFiles = credentialsFiles
		}
	})
}

func ssoSettingsFromSharedConfig(sc config.SharedConfig) ssoSettings {
	settings := ssoSettings{
		AccountID: sc.SSOAccountID,
		RoleName:  sc.SSORoleName,
		Region:    sc.SSORegion,
		StartURL:  sc.SSOStartURL,
	}
	if sc.SSOSession != nil {
		settings.SessionName = sc.SSOSession.Name
		settings.Region = sc.SSOSession.SSORegion
		settings.StartURL = sc.SSOSession.SSOStartURL
	}
	return settings
}

func ssoCredentials(ctx context.Context, c *Config, settings ssoSettings) (aws.Credentials, error) {
	cfg, err := GetAwsConfig(ctx, c)
	if err != nil {
		return aws.Credentials{}, err
	}
	cfg.Region = settings.Region
	cfg.Credentials = aws.AnonymousCredentials{}

	client := sso.NewFromConfig(cfg, func(o *sso.Options) {
		if c.SsoEndpoint != "" {
			o.BaseEndpoint = aws.String(c.SsoEndpoint)
		}
	})

	var optFns []func(*ssocreds.Options)
	if settings.SessionName != "" {
		cachePath, err := ssocreds.StandardCachedTokenFilepath(settings.SessionName)
		if err != nil {
			return aws.Credentials{}, fmt.Errorf("locating SSO token cache: %w", err)
		}
		oidcClient := ssooidc.NewFromConfig(cfg)
		tokenProvider := ssocreds.NewSSOTokenProvider(oidcClient, cachePath)
		optFns = append(optFns, func(o *ssocreds.Options) {
			o.SSOTokenProvider = tokenProvider
		})
	}

	provider := ssocreds.New(client, settings.AccountID, settings.RoleName, settings.StartURL, optFns...)

	creds, err := provider.Retrieve(ctx)
	if err != nil {
		if needsLogin(err) {
			return aws.Credentials{}, c.NewNoValidCredentialSourcesError(err)
		}
		return aws.Credentials{}, fmt.Errorf("retrieving SSO credentials: %w", err)
	}
	return creds, nil
}

func needsLogin(err error) bool {
	return errs.IsA[*ssocreds.InvalidTokenError](err) ||
		errs.IsA[*ssotypes.UnauthorizedException](err) ||
		errs.IsA[*ssooidctypes.InvalidGrantException](err) ||
		errs.IsA[*ssooidctypes.ExpiredTokenException](err) ||
		errors.Is(err, fs.ErrNotExist)
}
