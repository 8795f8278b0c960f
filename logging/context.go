// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"context"
)

type loggerKeyT string

const loggerKey loggerKeyT = "logger-key"

type fieldsKeyT string

const fieldsKey fieldsKeyT = "fields-key"

func RegisterLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// RetrieveLogger returns the logger registered on ctx, or a logger that
// discards everything when none is registered.
func RetrieveLogger(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return NullLogger()
}

func contextFields(ctx context.Context) map[string]any {
	fields, _ := ctx.Value(fieldsKey).(map[string]any)
	return fields
}

func withField(ctx context.Context, key string, value any) context.Context {
	current := contextFields(ctx)
	fields := make(map[string]any, len(current)+1)
	for k, v := range current {
		fields[k] = v
	}
	fields[key] = value
	return context.WithValue(ctx, fieldsKey, fields)
}
