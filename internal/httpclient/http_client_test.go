// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package httpclient_test

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"testing"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/hashicorp/aws-ssm-tools/internal/config"
	"github.com/hashicorp/aws-ssm-tools/internal/httpclient"
)

func TestHTTPClientConfiguration_basic(t *testing.T) {
	client, err := httpclient.DefaultHttpClient(&config.Config{})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	transport := client.GetTransport()

	if a, e := transport.MaxIdleConns, awshttp.DefaultHTTPTransportMaxIdleConns; a != e {
		t.Errorf("expected MaxIdleConns to be %d, got %d", e, a)
	}
	if a, e := transport.IdleConnTimeout, awshttp.DefaultHTTPTransportIdleConnTimeout; a != e {
		t.Errorf("expected IdleConnTimeout to be %s, got %s", e, a)
	}
	if !transport.ForceAttemptHTTP2 {
		t.Error("expected ForceAttemptHTTP2 to be true, got false")
	}

	tlsConfig := transport.TLSClientConfig
	if a, e := int(tlsConfig.MinVersion), tls.VersionTLS12; a != e {
		t.Errorf("expected tlsConfig.MinVersion to be %d, got %d", e, a)
	}
	if tlsConfig.InsecureSkipVerify {
		t.Error("expected InsecureSkipVerify to be false, got true")
	}
}

func TestHTTPClientConfiguration_insecureHTTPS(t *testing.T) {
	client, err := httpclient.DefaultHttpClient(&config.Config{
		Insecure: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	transport := client.GetTransport()

	tlsConfig := transport.TLSClientConfig
	if !tlsConfig.InsecureSkipVerify {
		t.Error("expected InsecureSkipVerify to be true, got false")
	}
}

func TestHTTPClientConfiguration_proxy(t *testing.T) {
	testCases := []struct {
		Name          string
		Config        config.Config
		URL           string
		ExpectedProxy string
	}{
		{
			Name: "http proxy used for https",
			Config: config.Config{
				HTTPProxy: "http://proxy.example.com:3128",
			},
			URL:           "https://ssm.us-east-1.amazonaws.com/",
			ExpectedProxy: "http://proxy.example.com:3128",
		},
		{
			Name: "separate https proxy",
			Config: config.Config{
				HTTPProxy:  "http://proxy.example.com:3128",
				HTTPSProxy: "http://secure-proxy.example.com:3128",
			},
			URL:           "https://ssm.us-east-1.amazonaws.com/",
			ExpectedProxy: "http://secure-proxy.example.com:3128",
		},
		{
			Name: "no proxy",
			Config: config.Config{
				HTTPProxy: "http://proxy.example.com:3128",
				NoProxy:   ".amazonaws.com",
			},
			URL: "https://ssm.us-east-1.amazonaws.com/",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.Name, func(t *testing.T) {
			client, err := httpclient.DefaultHttpClient(&testCase.Config)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}

			transport := client.GetTransport()

			u, _ := url.Parse(testCase.URL)
			proxy, err := transport.Proxy(&http.Request{URL: u})
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}

			var got string
			if proxy != nil {
				got = proxy.String()
			}
			if a, e := got, testCase.ExpectedProxy; a != e {
				t.Errorf("expected proxy %q, got %q", e, a)
			}
		})
	}
}
