// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"strings"

	"github.com/YakDriver/regexache"
)

// IAM Unique ID prefixes from
// https://docs.aws.amazon.com/IAM/latest/UserGuide/reference_identifiers.html#identifiers-unique-ids
var uniqueIDRegex = regexache.MustCompile(`(A3T[A-Z0-9]` +
	`|ABIA` + // STS service bearer token
	`|ACCA` + // Context-specific credential
	`|AGPA` + // User group
	`|AIDA` + // IAM user
	`|AIPA` + // EC2 instance profile
	`|AKIA` + // Access key
	`|ANPA` + // Managed policy
	`|ANVA` + // Version in a managed policy
	`|APKA` + // Public key
	`|AROA` + // Role
	`|ASCA` + // Certificate
	`|ASIA` + // STS temporary access key
	`)[A-Z0-9]{16,}`)

// Parameter values and credential material in JSON bodies.
var sensitiveJSONFieldRegex = regexache.MustCompile(`("(?:Value|SecretAccessKey|SessionToken|secretAccessKey|sessionToken|accessToken)"\s*:\s*)"(?:[^"\\]|\\.)*"`)

// Credential elements in XML (query protocol) bodies.
var sensitiveXMLElementRegex = regexache.MustCompile(`<(SecretAccessKey|SessionToken)>[^<]*</(SecretAccessKey|SessionToken)>`)

func MaskAWSAccessKey(field string) string {
	return uniqueIDRegex.ReplaceAllStringFunc(field, func(s string) string {
		return partialMaskString(s, 4, 4) //nolint:mnd
	})
}

// MaskSensitiveValues masks access key IDs, parameter values and credential
// fields in a request or response body.
func MaskSensitiveValues(body string) string {
	body = sensitiveJSONFieldRegex.ReplaceAllString(body, `${1}"*****"`)
	body = sensitiveXMLElementRegex.ReplaceAllString(body, `<${1}>*****</${2}>`)
	return MaskAWSAccessKey(body)
}

func partialMaskString(s string, first, last int) string {
	l := len(s)
	var builder strings.Builder
	builder.Grow(l)
	builder.WriteString(s[0:first])
	builder.WriteString(strings.Repeat("*", l-first-last))
	builder.WriteString(s[l-last:])
	return builder.String()
}
