// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package servicemocks

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
)

const (
	MockParameterRegion    = "us-east-1"
	MockParameterAccountID = "123456789012"

	// 2023-11-14T22:13:20Z
	MockParameterLastModified = 1700000000
)

// MockParameter is a stored parameter in a ParameterStoreServer.
type MockParameter struct {
	Name    string
	Type    string
	Value   string
	Version int64
}

// ParameterStoreServer simulates the subset of the SSM JSON protocol used for
// Parameter Store. It keeps parameters in memory and records the requests
// it received so tests can assert on batching.
type ParameterStoreServer struct {
	*httptest.Server

	mu         sync.Mutex
	parameters map[string]*MockParameter
	requests   map[string][][]string
	putDenied  map[string]bool
}

func NewParameterStoreServer(parameters ...MockParameter) *ParameterStoreServer {
	s := &ParameterStoreServer{
		parameters: make(map[string]*MockParameter, len(parameters)),
		requests:   make(map[string][][]string),
		putDenied:  make(map[string]bool),
	}
	for _, p := range parameters {
		p := p
		if p.Version == 0 {
			p.Version = 1
		}
		s.parameters[p.Name] = &p
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	return s
}

// DenyPut makes every PutParameter for name fail with AccessDeniedException.
func (s *ParameterStoreServer) DenyPut(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putDenied[name] = true
}

// Parameter returns a copy of the named parameter.
func (s *ParameterStoreServer) Parameter(name string) (MockParameter, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.parameters[name]
	if !ok {
		return MockParameter{}, false
	}
	return *p, true
}

// Requests returns the parameter names sent in each request for the operation, in arrival order.
func (s *ParameterStoreServer) Requests(operation string) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([][]string(nil), s.requests[operation]...)
}

type mockError struct {
	status int
	code   string
	msg    string
}

func (s *ParameterStoreServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	target := r.Header.Get("X-Amz-Target")
	operation, ok := strings.CutPrefix(target, "AmazonSSM.")
	if r.Method != http.MethodPost || !ok {
		writeMockError(w, mockError{http.StatusBadRequest, "UnknownOperationException", target})
		return
	}

	var input map[string]any
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMockError(w, mockError{http.StatusBadRequest, "SerializationException", err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		output any
		mErr   *mockError
	)
	switch operation {
	case "GetParameter":
		output, mErr = s.getParameter(input)
	case "GetParameters":
		output, mErr = s.getParameters(input)
	case "PutParameter":
		output, mErr = s.putParameter(input)
	case "DeleteParameters":
		output, mErr = s.deleteParameters(input)
	case "DescribeParameters":
		output, mErr = s.describeParameters(input)
	default:
		mErr = &mockError{http.StatusBadRequest, "UnknownOperationException", operation}
	}
	if mErr != nil {
		writeMockError(w, *mErr)
		return
	}

	w.Header().Set("Content-Type", "application/x-amz-json-1.1")
	w.Header().Set("X-Amzn-Requestid", "1b206dd1-f9a8-11e5-becf-051c60f11c4a")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(output)
}

func writeMockError(w http.ResponseWriter, e mockError) {
	w.Header().Set("Content-Type", "application/x-amz-json-1.1")
	w.WriteHeader(e.status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"__type":  e.code,
		"message": e.msg,
	})
}

func (s *ParameterStoreServer) record(operation string, names ...string) {
	s.requests[operation] = append(s.requests[operation], names)
}

func (s *ParameterStoreServer) getParameter(input map[string]any) (any, *mockError) {
	name := stringField(input, "Name")
	s.record("GetParameter", name)

	p, ok := s.parameters[name]
	if !ok {
		return nil, &mockError{http.StatusBadRequest, "ParameterNotFound", ""}
	}
	return map[string]any{"Parameter": p.document(true)}, nil
}

func (s *ParameterStoreServer) getParameters(input map[string]any) (any, *mockError) {
	names := stringsField(input, "Names")
	s.record("GetParameters", names...)

	if len(names) > 10 {
		return nil, &mockError{http.StatusBadRequest, "ValidationException", "1 validation error detected: Value at 'names' failed to satisfy constraint: Member must have length less than or equal to 10"}
	}

	parameters := make([]any, 0, len(names))
	invalid := make([]string, 0)
	for _, name := range names {
		if p, ok := s.parameters[name]; ok {
			parameters = append(parameters, p.document(true))
		} else {
			invalid = append(invalid, name)
		}
	}
	return map[string]any{
		"Parameters":        parameters,
		"InvalidParameters": invalid,
	}, nil
}

func (s *ParameterStoreServer) putParameter(input map[string]any) (any, *mockError) {
	name := stringField(input, "Name")
	s.record("PutParameter", name)

	if s.putDenied[name] {
		return nil, &mockError{http.StatusBadRequest, "AccessDeniedException", fmt.Sprintf("User is not authorized to perform: ssm:PutParameter on resource: %s", name)}
	}

	overwrite, _ := input["Overwrite"].(bool)
	typ := stringField(input, "Type")

	p, exists := s.parameters[name]
	switch {
	case exists && !overwrite:
		return nil, &mockError{http.StatusBadRequest, "ParameterAlreadyExists", "The parameter already exists. To overwrite this value, set the overwrite option in the request to true."}
	case !exists && typ == "":
		return nil, &mockError{http.StatusBadRequest, "ValidationException", "A parameter type is required when you create a parameter."}
	case !exists:
		p = &MockParameter{Name: name}
		s.parameters[name] = p
	}

	if typ != "" {
		p.Type = typ
	}
	p.Value = stringField(input, "Value")
	p.Version++

	return map[string]any{
		"Tier":    "Standard",
		"Version": p.Version,
	}, nil
}

func (s *ParameterStoreServer) deleteParameters(input map[string]any) (any, *mockError) {
	names := stringsField(input, "Names")
	s.record("DeleteParameters", names...)

	if len(names) > 10 {
		return nil, &mockError{http.StatusBadRequest, "ValidationException", "Member must have length less than or equal to 10"}
	}

	deleted := make([]string, 0, len(names))
	invalid := make([]string, 0)
	for _, name := range names {
		if _, ok := s.parameters[name]; ok {
			delete(s.parameters, name)
			deleted = append(deleted, name)
		} else {
			invalid = append(invalid, name)
		}
	}
	return map[string]any{
		"DeletedParameters": deleted,
		"InvalidParameters": invalid,
	}, nil
}

func (s *ParameterStoreServer) describeParameters(input map[string]any) (any, *mockError) {
	s.record("DescribeParameters")

	names := make([]string, 0, len(s.parameters))
	for name := range s.parameters {
		if matchesFilters(name, input["ParameterFilters"]) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	start := 0
	if token := stringField(input, "NextToken"); token != "" {
		n, err := strconv.Atoi(token)
		if err != nil || n < 0 || n > len(names) {
			return nil, &mockError{http.StatusBadRequest, "InvalidNextToken", "The specified token isn't valid."}
		}
		start = n
	}

	pageSize := 50
	if v, ok := input["MaxResults"].(float64); ok && v > 0 {
		pageSize = int(v)
	}
	end := min(start+pageSize, len(names))

	parameters := make([]any, 0, end-start)
	for _, name := range names[start:end] {
		parameters = append(parameters, s.parameters[name].document(false))
	}

	output := map[string]any{"Parameters": parameters}
	if end < len(names) {
		output["NextToken"] = strconv.Itoa(end)
	}
	return output, nil
}

func matchesFilters(name string, raw any) bool {
	filters, _ := raw.([]any)
	for _, f := range filters {
		filter, _ := f.(map[string]any)
		if stringField(filter, "Key") != "Name" {
			continue
		}
		option := stringField(filter, "Option")
		matched := false
		for _, value := range stringsField(filter, "Values") {
			switch option {
			case "BeginsWith":
				matched = strings.HasPrefix(name, value)
			case "Contains":
				matched = strings.Contains(name, value)
			default:
				matched = name == value
			}
			if matched {
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func (p *MockParameter) document(withValue bool) map[string]any {
	doc := map[string]any{
		"ARN":              fmt.Sprintf("arn:aws:ssm:%s:%s:parameter/%s", MockParameterRegion, MockParameterAccountID, strings.TrimPrefix(p.Name, "/")),
		"DataType":         "text",
		"LastModifiedDate": MockParameterLastModified,
		"Name":             p.Name,
		"Type":             p.Type,
		"Version":          p.Version,
	}
	if withValue {
		doc["Value"] = p.Value
	}
	return doc
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func stringsField(m map[string]any, key string) []string {
	raw, _ := m[key].([]any)
	result := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}
	return result
}
