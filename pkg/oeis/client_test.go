package oeis

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient()
	c.BaseURL = srv.URL
	return c
}

func TestSearch(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "fibonacci" {
			t.Errorf("q = %q, want %q", got, "fibonacci")
		}
		fmt.Fprint(w, `{"count":1,"results":[{"number":45,"name":"Fibonacci numbers","data":"0,1,1,2,3,5,8"}]}`)
	})

	results, err := c.Search("fibonacci")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Number != 45 {
		t.Errorf("Number = %d, want 45", results[0].Number)
	}
	if results[0].ID() != "A000045" {
		t.Errorf("ID() = %q, want A000045", results[0].ID())
	}
}

func TestSearchNoResults(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"count":0,"results":[]}`)
	})

	_, err := c.Search("xyzzy")
	var le *LookupError
	if !errors.As(err, &le) {
		t.Fatalf("Search() returned %T, want *LookupError", err)
	}
}

func TestLookup(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "id:A000045" {
			t.Errorf("q = %q, want id:A000045", got)
		}
		fmt.Fprint(w, `{"count":1,"results":[{"number":45,"name":"Fibonacci numbers","data":"0,1,1,2"}]}`)
	})

	for _, id := range []string{"A000045", "a000045", "45", " A45 "} {
		entry, err := c.Lookup(id)
		if err != nil {
			t.Errorf("Lookup(%q) error: %v", id, err)
			continue
		}
		if entry.Number != 45 {
			t.Errorf("Lookup(%q).Number = %d, want 45", id, entry.Number)
		}
	}
}

func TestLookupMalformedID(t *testing.T) {
	c := NewClient()
	for _, id := range []string{"", "B000045", "A12345678", "fib"} {
		_, err := c.Lookup(id)
		var le *LookupError
		if !errors.As(err, &le) {
			t.Errorf("Lookup(%q) returned %T, want *LookupError", id, err)
		}
	}
}

func TestFetchTerms(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/A000045/b000045.txt" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, "# b-file for A000045\n0 0\n1 1\n2 1\n3 2\n\n4 3\n")
	})

	terms, err := c.FetchTerms(45)
	if err != nil {
		t.Fatalf("FetchTerms() error: %v", err)
	}
	want := []int{0, 1, 1, 2, 3}
	if len(terms) != len(want) {
		t.Fatalf("got %d terms, want %d", len(terms), len(want))
	}
	for i, w := range want {
		if terms[i] != w {
			t.Errorf("term %d = %d, want %d", i, terms[i], w)
		}
	}
}

func TestFetchTermsNotFound(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.FetchTerms(999999)
	var le *LookupError
	if !errors.As(err, &le) {
		t.Fatalf("FetchTerms() returned %T, want *LookupError", err)
	}
}

func TestParseBFile(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{"negative values", "1 -5\n2 0\n3 7\n", []int{-5, 0, 7}, false},
		{"comments only", "# nothing here\n", nil, false},
		{"missing value field", "1\n", nil, true},
		{"non-numeric value", "1 abc\n", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms, err := ParseBFile(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseBFile() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBFile() error: %v", err)
			}
			if len(terms) != len(tt.want) {
				t.Fatalf("got %d terms, want %d", len(terms), len(tt.want))
			}
			for i, w := range tt.want {
				if terms[i] != w {
					t.Errorf("term %d = %d, want %d", i, terms[i], w)
				}
			}
		})
	}
}
