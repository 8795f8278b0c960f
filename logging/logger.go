// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"context"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
)

const (
	// EnvLog sets the log level when no level is given explicitly.
	EnvLog = "SSM_TOOLS_LOG"
	// EnvLogJSON switches log output to JSON when set to a non-empty value.
	EnvLogJSON = "SSM_TOOLS_LOG_JSON"
)

type Logger interface {
	Error(ctx context.Context, msg string, fields ...map[string]any)
	Warn(ctx context.Context, msg string, fields ...map[string]any)
	Info(ctx context.Context, msg string, fields ...map[string]any)
	Debug(ctx context.Context, msg string, fields ...map[string]any)
	SetField(ctx context.Context, key string, value any) context.Context
}

type Options struct {
	Name   string
	Level  string
	JSON   bool
	Output io.Writer
}

// OptionsFromEnv returns Options for name with the level and format taken from
// the environment. Level defaults to "warn".
func OptionsFromEnv(name string) Options {
	level := os.Getenv(EnvLog)
	if level == "" {
		level = "warn"
	}
	return Options{
		Name:   name,
		Level:  level,
		JSON:   os.Getenv(EnvLogJSON) != "",
		Output: os.Stderr,
	}
}

// HcLogger writes through an hclog.Logger. Fields set with SetField travel on
// the context, so any HcLogger sharing the context sees them.
type HcLogger struct {
	logger hclog.Logger
}

var _ Logger = HcLogger{}

func NewHcLogger(opts Options) HcLogger {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	level := hclog.LevelFromString(opts.Level)
	if level == hclog.NoLevel {
		level = hclog.Warn
	}

	return HcLogger{
		logger: hclog.New(&hclog.LoggerOptions{
			Name:       opts.Name,
			Level:      level,
			Output:     output,
			JSONFormat: opts.JSON,
		}),
	}
}

func NullLogger() HcLogger {
	return HcLogger{logger: hclog.NewNullLogger()}
}

func (l HcLogger) Error(ctx context.Context, msg string, fields ...map[string]any) {
	l.logger.Error(msg, args(ctx, fields)...)
}

func (l HcLogger) Warn(ctx context.Context, msg string, fields ...map[string]any) {
	l.logger.Warn(msg, args(ctx, fields)...)
}

func (l HcLogger) Info(ctx context.Context, msg string, fields ...map[string]any) {
	l.logger.Info(msg, args(ctx, fields)...)
}

func (l HcLogger) Debug(ctx context.Context, msg string, fields ...map[string]any) {
	l.logger.Debug(msg, args(ctx, fields)...)
}

func (l HcLogger) SetField(ctx context.Context, key string, value any) context.Context {
	return withField(ctx, key, value)
}

// args flattens context fields and call fields into hclog key/value pairs.
// Call fields win over context fields; later maps win over earlier ones.
func args(ctx context.Context, fields []map[string]any) []any {
	merged := make(map[string]any)
	for k, v := range contextFields(ctx) {
		merged[k] = v
	}
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]any, 0, 2*len(keys)) //nolint:mnd
	for _, k := range keys {
		result = append(result, k, merged[k])
	}
	return result
}

// IsDebugLevel reports whether level enables debug output.
func IsDebugLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug":
		return true
	}
	return false
}
