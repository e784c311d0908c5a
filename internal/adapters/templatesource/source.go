// Package templatesource loads report templates from a URL or a local path.
package templatesource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrFetch wraps every failure to obtain template bytes.
var ErrFetch = errors.New("template fetch failed")

// MaxSize caps the size of a downloaded template.
const MaxSize = 32 << 20

// Source implements ports.TemplateSource.
type Source struct {
	client *http.Client
}

// New returns a Source whose downloads give up after timeout.
func New(timeout time.Duration) *Source {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Source{client: &http.Client{Timeout: timeout}}
}

// NewWithClient returns a Source using c for downloads.
func NewWithClient(c *http.Client) *Source { return &Source{client: c} }

// Fetch returns the template at location: an http(s) URL is downloaded,
// anything else is read from disk.
func (s *Source) Fetch(ctx context.Context, location string) ([]byte, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: no template location configured", ErrFetch)
	}
	if !isURL(location) {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetch, err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrFetch, location, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrFetch, location, err)
	}
	if len(data) > MaxSize {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrFetch, location, MaxSize)
	}
	return data, nil
}

func isURL(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
