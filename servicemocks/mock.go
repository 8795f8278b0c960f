// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package servicemocks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
)

const (
	MockStaticAccessKey = "MockStaticAccessKey"
	MockStaticSecretKey = "MockStaticSecretKey"

	MockSsoAccessKey    = "SSO_AKID"
	MockSsoSecretKey    = "SSO_SECRET_KEY"
	MockSsoSessionToken = "SSO_SESSION_TOKEN"
	MockSsoAccountID    = "123456789012"
	MockSsoRoleName     = "testRole"
	MockSsoStartURL     = "https://d-123456789a.awsapps.com/start"
	MockSsoRegion       = "us-east-1"
	MockSsoAccessToken  = "ssoAccessToken"

	// 2041-07-01T00:00:00Z
	MockSsoExpiration int64 = 2256854400000
)

// MockEndpoint represents a basic request and response that can be used for creating simple httptest server routes.
type MockEndpoint struct {
	Request  *MockRequest
	Response *MockResponse
}

// MockRequest represents a basic HTTP request.
// Target matches the X-Amz-Target header of JSON protocol services. Body is
// compared as JSON when both sides parse, and as text otherwise.
type MockRequest struct {
	Method string
	Uri    string
	Target string
	Body   string
}

// MockResponse represents a basic HTTP response.
type MockResponse struct {
	StatusCode  int
	Body        string
	ContentType string
}

// MockAwsApiServer establishes a httptest server to simulate behaviour of a real AWS API server.
func MockAwsApiServer(svcName string, endpoints []*MockEndpoint) *httptest.Server {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(r.Body); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, "Error reading from HTTP Request Body: %s", err)
			return
		}
		requestBody := buf.String()

		log.Printf("[DEBUG] Received %s API %q request to %q: %s",
			svcName, r.Method, r.RequestURI, requestBody)

		for _, e := range endpoints {
			if !e.Request.matches(r, requestBody) {
				continue
			}

			contentType := e.Response.ContentType
			if contentType == "" {
				contentType = "application/x-amz-json-1.1"
			}
			w.Header().Set("Content-Type", contentType)
			w.Header().Set("X-Amzn-Requestid", "1b206dd1-f9a8-11e5-becf-051c60f11c4a")
			w.WriteHeader(e.Response.StatusCode)
			fmt.Fprintln(w, e.Response.Body)
			return
		}

		w.WriteHeader(http.StatusBadRequest)
	}))

	return ts
}

func (m *MockRequest) matches(r *http.Request, body string) bool {
	if m.Method != "" && m.Method != r.Method {
		return false
	}
	if m.Uri != "" && m.Uri != r.URL.Path && m.Uri != r.RequestURI {
		return false
	}
	if m.Target != "" && m.Target != r.Header.Get("X-Amz-Target") {
		return false
	}
	if m.Body != "" && !equivalentBodies(m.Body, body) {
		return false
	}
	return true
}

func equivalentBodies(expected, actual string) bool {
	var e, a any
	if json.Unmarshal([]byte(expected), &e) == nil && json.Unmarshal([]byte(actual), &a) == nil {
		eb, _ := json.Marshal(e)
		ab, _ := json.Marshal(a)
		return bytes.Equal(eb, ab)
	}
	return strings.TrimSpace(expected) == strings.TrimSpace(actual)
}

// MockSsoGetRoleCredentialsEndpoint answers the SSO portal credentials request.
var MockSsoGetRoleCredentialsEndpoint = &MockEndpoint{
	Request: &MockRequest{
		Method: http.MethodGet,
		Uri:    "/federation/credentials",
	},
	Response: &MockResponse{
		StatusCode:  http.StatusOK,
		Body:        fmt.Sprintf(mockSsoGetRoleCredentialsResponseBody, MockSsoAccessKey, MockSsoExpiration, MockSsoSecretKey, MockSsoSessionToken),
		ContentType: "application/json",
	},
}

var MockSsoUnauthorizedEndpoint = &MockEndpoint{
	Request: &MockRequest{
		Method: http.MethodGet,
		Uri:    "/federation/credentials",
	},
	Response: &MockResponse{
		StatusCode:  http.StatusUnauthorized,
		Body:        `{"__type":"UnauthorizedException","message":"Session token not found or invalid"}`,
		ContentType: "application/json",
	},
}

const mockSsoGetRoleCredentialsResponseBody = `{
  "roleCredentials": {
    "accessKeyId": %q,
    "expiration": %d,
    "secretAccessKey": %q,
    "sessionToken": %q
  }
}`

// WriteTempFile writes content to a new temporary file, returning its path and a cleanup func.
func WriteTempFile(name, content string) (string, func(), error) {
	file, err := os.CreateTemp("", name)
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	_, err = io.WriteString(file, content)

	return file.Name(), func() { os.Remove(file.Name()) }, err
}

func InitSessionTestEnv() (oldEnv []string) {
	oldEnv = StashEnv()
	os.Setenv("AWS_CONFIG_FILE", "file_not_exists")
	os.Setenv("AWS_SHARED_CREDENTIALS_FILE", "file_not_exists")

	return oldEnv
}

func StashEnv() []string {
	env := os.Environ()
	os.Clearenv()
	return env
}

func PopEnv(env []string) {
	os.Clearenv()

	for _, e := range env {
		p := strings.SplitN(e, "=", 2)
		k, v := p[0], ""
		if len(p) > 1 {
			v = p[1]
		}
		os.Setenv(k, v)
	}
}
