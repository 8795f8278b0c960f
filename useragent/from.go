// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package useragent

import (
	"os"
	"strings"

	"github.com/hashicorp/aws-ssm-tools/internal/config"
	"github.com/hashicorp/aws-ssm-tools/internal/constants"
)

// FromSlice applies the conversion defined in [fromString] to all elements
// of a slice
//
// Slices of types which cannot assert to a string, empty string values, and string
// values which do not match the expected `{product}/{version} ({comment})`
// pattern (where version and comment are optional) return a zero value struct.
func FromSlice[T any](sl []T) config.UserAgentProducts {
	result := make(config.UserAgentProducts, 0, len(sl))
	for _, v := range sl {
		if s, ok := any(v).(string); ok && s != "" {
			result = append(result, fromString(s))
			continue
		}
		result = append(result, config.UserAgentProduct{})
	}
	return result
}

// FromEnv reads space-separated products from the environment variable named
// by constants.AppendUserAgentEnvVar.
func FromEnv() config.UserAgentProducts {
	v := strings.TrimSpace(os.Getenv(constants.AppendUserAgentEnvVar))
	if v == "" {
		return nil
	}
	return FromSlice(strings.Fields(v))
}

// fromString separates the provided string into the constituent parts
// expected by the UserAgentProduct struct
//
// Values which do not match the expected `{product}/{version} ({comment})`
// pattern, where version and comment are optional, return a zero value struct.
func fromString(s string) config.UserAgentProduct {
	parts := strings.Split(s, "/")
	switch len(parts) {
	case 1:
		return config.UserAgentProduct{Name: parts[0]}
	case 2: //nolint: mnd
		subparts := strings.Split(parts[1], "(")
		if len(subparts) == 2 { //nolint: mnd
			version := strings.TrimSpace(subparts[0])
			comment := strings.TrimSuffix(subparts[1], ")")
			return config.UserAgentProduct{Name: parts[0], Version: version, Comment: comment}
		}
		return config.UserAgentProduct{Name: parts[0], Version: parts[1]}
	}

	return config.UserAgentProduct{}
}
