// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package httpclient

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/hashicorp/aws-ssm-tools/internal/config"
	"golang.org/x/net/http/httpproxy"
)

// DefaultHttpClient builds the HTTP client shared by every SDK client and the
// console federation endpoint.
func DefaultHttpClient(c *config.Config) (*awshttp.BuildableClient, error) {
	proxyFunc, err := proxyFunc(c)
	if err != nil {
		return nil, err
	}

	httpClient := awshttp.NewBuildableClient().
		WithTransportOptions(func(tr *http.Transport) {
			tlsConfig := tr.TLSClientConfig
			if tlsConfig == nil {
				tlsConfig = &tls.Config{
					MinVersion: tls.VersionTLS12,
				}
				tr.TLSClientConfig = tlsConfig
			}
			if c.Insecure {
				tlsConfig.InsecureSkipVerify = true
			}

			tr.Proxy = func(req *http.Request) (*url.URL, error) {
				return proxyFunc(req.URL)
			}
		})

	return httpClient, nil
}

// proxyFunc uses the configured proxies, or the HTTP_PROXY, HTTPS_PROXY and
// NO_PROXY environment variables when none are configured.
func proxyFunc(c *config.Config) (func(*url.URL) (*url.URL, error), error) {
	if c.HTTPProxy == "" && c.HTTPSProxy == "" {
		return httpproxy.FromEnvironment().ProxyFunc(), nil
	}

	for _, v := range []string{c.HTTPProxy, c.HTTPSProxy} {
		if v == "" {
			continue
		}
		if _, err := url.Parse(v); err != nil {
			return nil, fmt.Errorf("parsing proxy URL %q: %w", v, err)
		}
	}

	httpsProxy := c.HTTPSProxy
	if httpsProxy == "" {
		httpsProxy = c.HTTPProxy
	}

	proxyConfig := &httpproxy.Config{
		HTTPProxy:  c.HTTPProxy,
		HTTPSProxy: httpsProxy,
		NoProxy:    c.NoProxy,
	}

	return proxyConfig.ProxyFunc(), nil
}
