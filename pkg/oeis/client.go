// Package oeis fetches integer sequences from the On-Line Encyclopedia
// of Integer Sequences
package oeis

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://oeis.org"

// LookupError reports a failed sequence lookup: not found, empty search
// results, or a network failure. Fatal at startup.
type LookupError struct {
	Query string
	Msg   string
	Err   error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lookup %q: %s: %v", e.Query, e.Msg, e.Err)
	}
	return fmt.Sprintf("lookup %q: %s", e.Query, e.Msg)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Entry is a single OEIS search result
type Entry struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Data   string `json:"data"`
}

// ID returns the canonical A-number, e.g. "A000045"
func (e Entry) ID() string {
	return fmt.Sprintf("A%06d", e.Number)
}

// searchResponse is the shape of the OEIS JSON search API
type searchResponse struct {
	Count   int     `json:"count"`
	Results []Entry `json:"results"`
}

// Client talks to the OEIS search and b-file endpoints
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client for the public OEIS instance
func NewClient() *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

var entryIDPattern = regexp.MustCompile(`^[Aa]?([0-9]{1,6})$`)

// Search queries OEIS with an arbitrary search term and returns the
// matching entries, best match first
func (c *Client) Search(term string) ([]Entry, error) {
	u := fmt.Sprintf("%s/search?q=%s&fmt=json", c.BaseURL, url.QueryEscape(term))
	resp, err := c.HTTPClient.Get(u)
	if err != nil {
		return nil, &LookupError{Query: term, Msg: "search request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &LookupError{Query: term, Msg: fmt.Sprintf("search returned status %d", resp.StatusCode)}
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, &LookupError{Query: term, Msg: "bad search response", Err: err}
	}
	if len(sr.Results) == 0 {
		return nil, &LookupError{Query: term, Msg: "no results"}
	}
	return sr.Results, nil
}

// Lookup resolves an entry ID like "A000045" (or a bare number) to its
// search entry
func (c *Client) Lookup(id string) (Entry, error) {
	m := entryIDPattern.FindStringSubmatch(strings.TrimSpace(id))
	if m == nil {
		return Entry{}, &LookupError{Query: id, Msg: "malformed entry ID (want e.g. A000045)"}
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Entry{}, &LookupError{Query: id, Msg: "malformed entry ID", Err: err}
	}

	results, err := c.Search(fmt.Sprintf("id:A%06d", n))
	if err != nil {
		return Entry{}, err
	}
	return results[0], nil
}

// FetchTerms downloads the full term list for an entry from its b-file.
// B-file lines are "index value" pairs; lines starting with '#' are
// comments.
func (c *Client) FetchTerms(number int) ([]int, error) {
	u := fmt.Sprintf("%s/A%06d/b%06d.txt", c.BaseURL, number, number)
	resp, err := c.HTTPClient.Get(u)
	if err != nil {
		return nil, &LookupError{Query: fmt.Sprintf("A%06d", number), Msg: "b-file request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &LookupError{Query: fmt.Sprintf("A%06d", number), Msg: fmt.Sprintf("b-file returned status %d", resp.StatusCode)}
	}

	terms, err := ParseBFile(resp.Body)
	if err != nil {
		return nil, &LookupError{Query: fmt.Sprintf("A%06d", number), Msg: "bad b-file", Err: err}
	}
	if len(terms) == 0 {
		return nil, &LookupError{Query: fmt.Sprintf("A%06d", number), Msg: "b-file contains no terms"}
	}
	return terms, nil
}

// ParseBFile reads b-file formatted text: one "index value" pair per
// line, '#' comment lines and blank lines skipped
func ParseBFile(r io.Reader) ([]int, error) {
	var terms []int
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed b-file line %q", line)
		}
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("malformed b-file value %q: %w", fields[1], err)
		}
		terms = append(terms, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return terms, nil
}
