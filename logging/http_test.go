// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestDecomposeHTTPRequest_sensitiveHeaders(t *testing.T) {
	testCases := []struct {
		Name     string
		Header   string
		Value    string
		Expected string
	}{
		{
			Name:     "sso bearer token",
			Header:   "x-amz-sso_bearer_token",
			Value:    "SECRET-BEARER-TOKEN",
			Expected: "http.request.header.x_amz_sso_bearer_token",
		},
		{
			Name:     "security token",
			Header:   "X-Amz-Security-Token",
			Value:    "FwoGZXIvYXdzSECRET",
			Expected: "http.request.header.x_amz_security_token",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.Name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "https://portal.sso.us-east-1.amazonaws.com/federation/credentials?account_id=123456789012&role_name=Admin", nil)
			if err != nil {
				t.Fatalf("creating request: %s", err)
			}
			req.Header.Set(testCase.Header, testCase.Value)

			fields, err := DecomposeHTTPRequest(req)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}

			if a, e := fields[testCase.Expected], "*****"; a != e {
				t.Errorf("expected %s to be %q, got %v", testCase.Expected, e, a)
			}
			for k, v := range fields {
				if strings.Contains(fmt.Sprint(v), testCase.Value) {
					t.Errorf("field %s leaks %q: %v", k, testCase.Value, v)
				}
			}
		})
	}
}
