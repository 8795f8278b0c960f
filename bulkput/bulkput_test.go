// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package bulkput

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/aws-ssm-tools/mockdata"
	"github.com/hashicorp/aws-ssm-tools/paramfile"
	"github.com/hashicorp/aws-ssm-tools/paramstore"
	"github.com/hashicorp/aws-ssm-tools/servicemocks"
)

func TestImport(t *testing.T) {
	server, client := mockdata.GetMockedParameterStore(
		servicemocks.MockParameter{Name: "/app/existing", Type: paramstore.TypeSecureString, Value: "old"},
	)
	defer server.Close()

	entries := []paramfile.Entry{
		{Name: "/app/baseUrl", Value: "https://example.com"},
		{Name: "/app/existing", Value: "new"},
		{Name: "/app/launchCodes", Type: paramfile.TypeSecureString, Value: "0000"},
		{Name: "/app/password", Value: "hunter2"},
	}

	im := &Importer{Store: paramstore.New(client)}
	summary, err := im.Import(context.Background(), entries)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if diff := cmp.Diff([]string{"/app/baseUrl", "/app/launchCodes", "/app/password"}, summary.Created); diff != "" {
		t.Errorf("unexpected created (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/app/existing"}, summary.Updated); diff != "" {
		t.Errorf("unexpected updated (-want +got):\n%s", diff)
	}
	if summary.Err() != nil {
		t.Errorf("unexpected errors: %s", summary.Err())
	}

	expectedTypes := map[string]string{
		"/app/baseUrl":     paramstore.TypeString,
		"/app/existing":    paramstore.TypeSecureString,
		"/app/launchCodes": paramstore.TypeSecureString,
		"/app/password":    paramstore.TypeSecureString,
	}
	for name, expected := range expectedTypes {
		p, ok := server.Parameter(name)
		if !ok {
			t.Errorf("parameter %q not stored", name)
			continue
		}
		if a, e := p.Type, expected; a != e {
			t.Errorf("%s: expected type %q, got %q", name, e, a)
		}
	}
}

func TestImportDumb(t *testing.T) {
	server, client := mockdata.GetMockedParameterStore()
	defer server.Close()

	im := &Importer{Store: paramstore.New(client), Dumb: true}
	if _, err := im.Import(context.Background(), []paramfile.Entry{{Name: "/app/password", Value: "x"}}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	p, _ := server.Parameter("/app/password")
	if a, e := p.Type, paramstore.TypeString; a != e {
		t.Errorf("expected type %q, got %q", e, a)
	}
}

type failingStore struct {
	mu       sync.Mutex
	inFlight int
	maxSeen  int
	fail     map[string]bool
}

func (s *failingStore) GetMany(_ context.Context, _ []string) ([]paramstore.Record, []string, error) {
	return nil, nil, nil
}

func (s *failingStore) Put(_ context.Context, in paramstore.PutInput) (paramstore.PutResult, error) {
	s.mu.Lock()
	s.inFlight++
	if s.inFlight > s.maxSeen {
		s.maxSeen = s.inFlight
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if s.fail[in.Name] {
		return paramstore.PutResult{}, errors.New("AccessDeniedException")
	}
	return paramstore.PutResult{Version: 1}, nil
}

func TestImportPartialFailure(t *testing.T) {
	store := &failingStore{fail: map[string]bool{"/b": true, "/d": true}}

	entries := []paramfile.Entry{
		{Name: "/a", Value: "1"},
		{Name: "/b", Value: "2"},
		{Name: "/c", Value: "3"},
		{Name: "/d", Value: "4"},
		{Name: "/e", Value: "5"},
		{Name: "/f", Value: "6"},
		{Name: "/g", Value: "7"},
	}

	im := &Importer{Store: store, MaxConcurrent: 2}
	summary, err := im.Import(context.Background(), entries)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if diff := cmp.Diff([]string{"/a", "/c", "/e", "/f", "/g"}, summary.Created); diff != "" {
		t.Errorf("unexpected created (-want +got):\n%s", diff)
	}
	if len(summary.Updated) != 0 {
		t.Errorf("expected no updated, got %v", summary.Updated)
	}

	failed := make([]string, 0, len(summary.Errors))
	for _, e := range summary.Errors {
		failed = append(failed, e.Name)
	}
	if diff := cmp.Diff([]string{"/b", "/d"}, failed); diff != "" {
		t.Errorf("unexpected failures (-want +got):\n%s", diff)
	}
	if summary.Err() == nil {
		t.Error("expected combined error")
	}

	if store.maxSeen > 2 {
		t.Errorf("expected at most 2 puts in flight, saw %d", store.maxSeen)
	}
}
