// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package awsbase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/credentials/ssocreds"
	"github.com/hashicorp/aws-ssm-tools/mockdata"
	"github.com/hashicorp/aws-ssm-tools/servicemocks"
)

const ssoProfileConfig = `
[profile sso]
sso_account_id = %[1]s
sso_region = %[2]s
sso_role_name = %[3]s
sso_start_url = %[4]s
region = us-west-2

[profile static]
region = us-west-2
`

const staticCredentialsFile = `
[static]
aws_access_key_id = StaticProfileAccessKey
aws_secret_access_key = StaticProfileSecretKey
`

func setupSsoTestEnv(t *testing.T) (configFile, credentialsFile string) {
	t.Helper()

	oldEnv := servicemocks.InitSessionTestEnv()
	t.Cleanup(func() { servicemocks.PopEnv(oldEnv) })

	home := t.TempDir()
	os.Setenv("HOME", home)

	configFile = filepath.Join(home, "config")
	content := fmt.Sprintf(ssoProfileConfig, servicemocks.MockSsoAccountID, servicemocks.MockSsoRegion, servicemocks.MockSsoRoleName, servicemocks.MockSsoStartURL)
	if err := os.WriteFile(configFile, []byte(content), 0600); err != nil {
		t.Fatalf("writing config file: %s", err)
	}

	credentialsFile = filepath.Join(home, "credentials")
	if err := os.WriteFile(credentialsFile, []byte(staticCredentialsFile), 0600); err != nil {
		t.Fatalf("writing credentials file: %s", err)
	}

	return configFile, credentialsFile
}

func writeSsoTokenCache(t *testing.T, key string) {
	t.Helper()

	path, err := ssocreds.StandardCachedTokenFilepath(key)
	if err != nil {
		t.Fatalf("locating token cache: %s", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatalf("creating token cache directory: %s", err)
	}
	token := fmt.Sprintf(`{"accessToken": %q, "expiresAt": "2041-07-01T00:00:00Z", "region": %q, "startUrl": %q}`,
		servicemocks.MockSsoAccessToken, servicemocks.MockSsoRegion, servicemocks.MockSsoStartURL)
	if err := os.WriteFile(path, []byte(token), 0600); err != nil {
		t.Fatalf("writing token cache: %s", err)
	}
}

func TestRetrieveCredentials_sso(t *testing.T) {
	testCases := []struct {
		Name                 string
		Endpoints            []*servicemocks.MockEndpoint
		CacheToken           bool
		ExpectNoValidSources bool
	}{
		{
			Name:       "cached token",
			Endpoints:  []*servicemocks.MockEndpoint{servicemocks.MockSsoGetRoleCredentialsEndpoint},
			CacheToken: true,
		},
		{
			Name:                 "no cached token",
			Endpoints:            []*servicemocks.MockEndpoint{servicemocks.MockSsoGetRoleCredentialsEndpoint},
			ExpectNoValidSources: true,
		},
		{
			Name:                 "expired session",
			Endpoints:            []*servicemocks.MockEndpoint{servicemocks.MockSsoUnauthorizedEndpoint},
			CacheToken:           true,
			ExpectNoValidSources: true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.Name, func(t *testing.T) {
			configFile, credentialsFile := setupSsoTestEnv(t)
			if testCase.CacheToken {
				writeSsoTokenCache(t, servicemocks.MockSsoStartURL)
			}

			closeSso, _, ssoEndpoint := mockdata.GetMockedAwsApiSessionV2("SSO", testCase.Endpoints)
			defer closeSso()

			c := &Config{
				Profile:                "sso",
				SharedConfigFiles:      []string{configFile},
				SharedCredentialsFiles: []string{credentialsFile},
				SsoEndpoint:            ssoEndpoint,
			}

			creds, err := RetrieveCredentials(context.Background(), c)

			if testCase.ExpectNoValidSources {
				if !IsNoValidCredentialSourcesError(err) {
					t.Fatalf("expected NoValidCredentialSourcesError, got %T: %v", err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}

			expected := mockdata.MockSsoCredentials
			if a, e := creds.AccessKeyID, expected.AccessKeyID; a != e {
				t.Errorf("AccessKeyID: expected %q, got %q", e, a)
			}
			if a, e := creds.SecretAccessKey, expected.SecretAccessKey; a != e {
				t.Errorf("SecretAccessKey: expected %q, got %q", e, a)
			}
			if a, e := creds.SessionToken, expected.SessionToken; a != e {
				t.Errorf("SessionToken: expected %q, got %q", e, a)
			}
			if a, e := creds.Source, expected.Source; a != e {
				t.Errorf("Source: expected %q, got %q", e, a)
			}
		})
	}
}

func TestRetrieveCredentials_sharedCredentials(t *testing.T) {
	configFile, credentialsFile := setupSsoTestEnv(t)

	c := &Config{
		Profile:                "static",
		SharedConfigFiles:      []string{configFile},
		SharedCredentialsFiles: []string{credentialsFile},
	}

	creds, err := RetrieveCredentials(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if a, e := creds.AccessKeyID, "StaticProfileAccessKey"; a != e {
		t.Errorf("AccessKeyID: expected %q, got %q", e, a)
	}
	if a, e := creds.SecretAccessKey, "StaticProfileSecretKey"; a != e {
		t.Errorf("SecretAccessKey: expected %q, got %q", e, a)
	}
	if creds.SessionToken != "" {
		t.Errorf("SessionToken: expected none, got %q", creds.SessionToken)
	}
}

func TestRetrieveCredentials_missingProfile(t *testing.T) {
	configFile, credentialsFile := setupSsoTestEnv(t)

	c := &Config{
		Profile:                "does-not-exist",
		SharedConfigFiles:      []string{configFile},
		SharedCredentialsFiles: []string{credentialsFile},
	}

	_, err := RetrieveCredentials(context.Background(), c)
	if !IsNoValidCredentialSourcesError(err) {
		t.Fatalf("expected NoValidCredentialSourcesError, got %T: %v", err, err)
	}
}

func TestSsoSettingsFromSharedConfig(t *testing.T) {
	configFile, credentialsFile := setupSsoTestEnv(t)

	c := &Config{
		Profile:                "sso",
		SharedConfigFiles:      []string{configFile},
		SharedCredentialsFiles: []string{credentialsFile},
	}

	sc, err := loadSharedConfigProfile(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	settings := ssoSettingsFromSharedConfig(sc)
	expected := ssoSettings{
		AccountID: servicemocks.MockSsoAccountID,
		RoleName:  servicemocks.MockSsoRoleName,
		Region:    servicemocks.MockSsoRegion,
		StartURL:  servicemocks.MockSsoStartURL,
	}
	if settings != expected {
		t.Errorf("expected %+v, got %+v", expected, settings)
	}
	if !settings.configured() {
		t.Error("expected settings to be configured")
	}
}

func TestSSOCredentials_notSsoProfile(t *testing.T) {
	configFile, credentialsFile := setupSsoTestEnv(t)

	c := &Config{
		Profile:                "static",
		SharedConfigFiles:      []string{configFile},
		SharedCredentialsFiles: []string{credentialsFile},
	}

	_, err := SSOCredentials(context.Background(), c)
	if !IsNoValidCredentialSourcesError(err) {
		t.Fatalf("expected NoValidCredentialSourcesError, got %T: %v", err, err)
	}
}
