// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package paramfile reads the bulk import document: a JSON object whose keys
// are "name" or "name:type" and whose values are the parameter values.
package paramfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/YakDriver/regexache"
	"github.com/hashicorp/aws-ssm-tools/internal/errs"
	"github.com/hashicorp/go-multierror"
)

const (
	TypeString       = "String"
	TypeSecureString = "SecureString"

	nameAllowedChars = "a-zA-Z0-9_.-/"
)

var (
	namePattern = regexache.MustCompile(`^[a-zA-Z0-9_.\-/]+$`)

	allowedTypes = []string{TypeString, TypeSecureString}

	sensitiveWords = []string{"key", "secret", "password", "passcode"}
)

// Entry is one parameter of the document. Type is empty when the key did not name one.
type Entry struct {
	Name  string
	Type  string
	Value string
}

// Key returns the document key for the entry.
func (e Entry) Key() string {
	if e.Type == "" {
		return e.Name
	}
	return e.Name + ":" + e.Type
}

// InputError collects every problem found in a document.
type InputError struct {
	Err *multierror.Error
}

func (e *InputError) Error() string {
	return e.Err.Error()
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Messages returns one line per problem, in document order.
func (e *InputError) Messages() []string {
	result := make([]string, 0, len(e.Err.Errors))
	for _, err := range e.Err.Errors {
		result = append(result, err.Error())
	}
	return result
}

func IsInputError(err error) bool {
	return errs.IsA[*InputError](err)
}

func formatInputErrors(es []error) string {
	var b strings.Builder
	b.WriteString("There are errors in the input:\n")
	for _, err := range es {
		b.WriteString("\n")
		b.WriteString(err.Error())
	}
	return b.String()
}

type rawEntry struct {
	key   string
	value json.RawMessage
}

// Parse reads and validates a document. Entries keep the order of their first
// appearance; a repeated key takes the last value. All validation problems are
// returned together as an *InputError.
func Parse(r io.Reader) ([]Entry, error) {
	raw, err := decodeObject(r)
	if err != nil {
		return nil, err
	}

	var result *multierror.Error
	entries := make([]Entry, 0, len(raw))

	for _, re := range raw {
		terms := strings.Split(re.key, ":")
		if len(terms) > 2 {
			result = multierror.Append(result, fmt.Errorf("Invalid key: %s, must be \"name\" or \"name:type\"", quote(re.key)))
		}

		entry := Entry{Name: terms[0]}
		if len(terms) > 1 {
			entry.Type = terms[1]
		}

		if !namePattern.MatchString(entry.Name) {
			result = multierror.Append(result, fmt.Errorf("Invalid name: %s, may only contain %s", quote(entry.Name), nameAllowedChars))
		}

		if len(terms) > 1 && !validType(entry.Type) {
			result = multierror.Append(result, fmt.Errorf("Invalid type: %s. Allowed values are %s", quote(entry.Type), strings.Join(allowedTypes, ", ")))
		}

		// null decodes into a string without error, so decode into any.
		var value any
		if err := json.Unmarshal(re.value, &value); err == nil {
			entry.Value, _ = value.(string)
		}
		if _, ok := value.(string); !ok {
			result = multierror.Append(result, fmt.Errorf("Invalid value: %s, must be string", compact(re.value)))
		}

		entries = append(entries, entry)
	}

	if result != nil {
		result.ErrorFormat = formatInputErrors
		return nil, &InputError{Err: result}
	}

	return entries, nil
}

func decodeObject(r io.Reader) ([]rawEntry, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("reading input: expected a JSON object")
	}

	var entries []rawEntry
	index := make(map[string]int)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("reading input: unexpected token %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("reading input: value of %q: %w", key, err)
		}

		if i, ok := index[key]; ok {
			entries[i].value = value
			continue
		}
		index[key] = len(entries)
		entries = append(entries, rawEntry{key: key, value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("reading input: unexpected data after JSON object")
	}

	return entries, nil
}

func validType(t string) bool {
	for _, allowed := range allowedTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

// GuessType returns SecureString for names that look sensitive, unless dumb is set.
func GuessType(name string, dumb bool) string {
	if dumb {
		return TypeString
	}
	lower := strings.ToLower(name)
	for _, word := range sensitiveWords {
		if strings.Contains(lower, word) {
			return TypeSecureString
		}
	}
	return TypeString
}

// Format writes entries as an indented document, in order.
func Format(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key())
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Example returns a sample document covering the type rules.
func Example() []Entry {
	return []Entry{
		{Name: "/app/baseUrl", Value: "https://example.com"},
		{Name: "/app/example", Value: "this will be of type String if the parameter does not exist already"},
		{Name: "/app/launchCodes", Type: TypeSecureString, Value: "this will be of type SecureString"},
		{Name: "/app/password", Value: `this will be of type SecureString, because the name contains "password"`},
	}
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
