// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/YakDriver/regexache"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
)

// Request headers carrying credentials. X-Amz-Sso_bearer_token is the SSO
// portal access token.
var sensitiveRequestHeaders = []string{
	"X-Amz-Security-Token",
	"X-Amz-Sso_bearer_token",
}

func DecomposeHTTPRequest(req *http.Request) (map[string]any, error) {
	var attributes []attribute.KeyValue

	attributes = append(attributes,
		semconv.HTTPMethodKey.String(req.Method),
		semconv.HTTPURLKey.String(req.URL.String()),
	)
	if req.ContentLength > 0 {
		attributes = append(attributes, semconv.HTTPRequestContentLengthKey.Int64(req.ContentLength))
	}
	if ua := req.UserAgent(); ua != "" {
		attributes = append(attributes, semconv.HTTPUserAgentKey.String(ua))
	}

	headerAttributes := decomposeRequestHeaders(req)
	attributes = append(attributes, headerAttributes...)

	bodyAttribute, err := decomposeRequestBody(req)
	if err != nil {
		return nil, err
	}
	attributes = append(attributes, bodyAttribute)

	return attributesToMap(attributes), nil
}

func DecomposeHTTPResponse(resp *http.Response, elapsed time.Duration) (map[string]any, error) {
	var attributes []attribute.KeyValue

	attributes = append(attributes,
		attribute.Int64("http.duration", elapsed.Milliseconds()),
		semconv.HTTPStatusCodeKey.Int(resp.StatusCode),
		semconv.HTTPResponseContentLengthKey.Int64(resp.ContentLength),
	)

	headerAttributes := decomposeResponseHeaders(resp)
	attributes = append(attributes, headerAttributes...)

	bodyAttribute, err := decomposeResponseBody(resp)
	if err != nil {
		return nil, err
	}
	attributes = append(attributes, bodyAttribute)

	return attributesToMap(attributes), nil
}

func attributesToMap(attributes []attribute.KeyValue) map[string]any {
	result := make(map[string]any, len(attributes))
	for _, attribute := range attributes {
		result[string(attribute.Key)] = attribute.Value.AsInterface()
	}
	return result
}

func decomposeRequestHeaders(req *http.Request) []attribute.KeyValue {
	header := req.Header.Clone()

	// Handled directly from the Request
	header.Del("Content-Length")
	header.Del("User-Agent")

	results := make([]attribute.KeyValue, 0, len(header)+1)

	attempt := header.Values("Amz-Sdk-Request")
	if len(attempt) > 0 {
		if resendAttribute, ok := resendCountAttribute(attempt[0]); ok {
			results = append(results, resendAttribute)
		}
	}

	auth := header.Values("Authorization")
	if len(auth) > 0 {
		if authHeader, ok := authorizationHeaderAttribute(auth[0]); ok {
			results = append(results, authHeader)
		}
	}
	header.Del("Authorization")

	for _, k := range sensitiveRequestHeaders {
		if len(header.Values(k)) > 0 {
			results = append(results, requestHeaderAttribute(k).String("*****"))
		}
		header.Del(k)
	}

	for k := range header {
		results = append(results, newHeaderAttribute(requestHeaderAttribute(k), header.Values(k)))
	}

	return results
}

func decomposeRequestBody(req *http.Request) (attribute.KeyValue, error) {
	reqBytes, err := httputil.DumpRequestOut(req, true)
	if err != nil {
		return attribute.KeyValue{}, err
	}

	reader := textproto.NewReader(bufio.NewReader(bytes.NewReader(reqBytes)))

	if _, err = reader.ReadLine(); err != nil {
		return attribute.KeyValue{}, err
	}

	if _, err = reader.ReadMIMEHeader(); err != nil {
		return attribute.KeyValue{}, err
	}

	var builder strings.Builder
	for {
		line, err := reader.ReadContinuedLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return attribute.KeyValue{}, err
		}
		builder.WriteString(line)
	}

	return attribute.String("http.request.body", MaskSensitiveValues(builder.String())), nil
}

func decomposeResponseHeaders(resp *http.Response) []attribute.KeyValue {
	header := resp.Header.Clone()

	// Handled directly from the Response
	header.Del("Content-Length")

	results := make([]attribute.KeyValue, 0, len(header))

	for k := range header {
		results = append(results, newHeaderAttribute(responseHeaderAttribute(k), header.Values(k)))
	}

	return results
}

func decomposeResponseBody(resp *http.Response) (attribute.KeyValue, error) {
	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return attribute.KeyValue{}, err
	}

	// Restore the body reader
	resp.Body = io.NopCloser(bytes.NewBuffer(respBytes))

	return attribute.String("http.response.body", MaskSensitiveValues(string(respBytes))), nil
}

func newHeaderAttribute(key attribute.Key, v []string) attribute.KeyValue {
	if len(v) == 1 {
		return key.String(v[0])
	}
	return key.StringSlice(v)
}

func requestHeaderAttribute(k string) attribute.Key {
	return attribute.Key(fmt.Sprintf("http.request.header.%s", normalizeHeaderName(k)))
}

func responseHeaderAttribute(k string) attribute.Key {
	return attribute.Key(fmt.Sprintf("http.response.header.%s", normalizeHeaderName(k)))
}

func normalizeHeaderName(k string) string {
	canonical := http.CanonicalHeaderKey(k)
	lower := strings.ToLower(canonical)
	return strings.ReplaceAll(lower, "-", "_")
}

func authorizationHeaderAttribute(v string) (attribute.KeyValue, bool) {
	parts := regexache.MustCompile(`\s+`).Split(v, 2) //nolint:mnd
	if len(parts) != 2 {                             //nolint:mnd
		return attribute.KeyValue{}, false
	}
	scheme := parts[0]
	if scheme == "" {
		return attribute.KeyValue{}, false
	}
	params := parts[1]
	if params == "" {
		return attribute.KeyValue{}, false
	}

	key := requestHeaderAttribute("Authorization")
	if !strings.HasPrefix(scheme, "AWS4-") {
		return key.String(fmt.Sprintf("%s %s", scheme, strings.Repeat("*", len(params)))), true
	}

	components := regexache.MustCompile(`,\s*`).Split(params, -1)
	var builder strings.Builder
	builder.Grow(len(params))
	for i, component := range components {
		parts := strings.SplitAfterN(component, "=", 2) //nolint:mnd
		name := parts[0]
		value := ""
		if len(parts) == 2 { //nolint:mnd
			value = parts[1]
		}
		if name != "SignedHeaders=" && name != "Credential=" {
			// "Signature" or an unknown field
			value = "*****"
		}
		builder.WriteString(name)
		builder.WriteString(value)
		if i < len(components)-1 {
			builder.WriteString(", ")
		}
	}
	return key.String(fmt.Sprintf("%s %s", scheme, MaskAWSAccessKey(builder.String()))), true
}

func resendCountAttribute(v string) (kv attribute.KeyValue, ok bool) {
	match := regexache.MustCompile(`attempt=(\d+);`).FindStringSubmatch(v)
	if len(match) != 2 { //nolint:mnd
		return
	}

	attempt, err := strconv.Atoi(match[1])
	if err != nil {
		return
	}

	if attempt > 1 {
		return attribute.Int("http.resend_count", attempt), true
	}

	return
}
