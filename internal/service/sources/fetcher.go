// Package sources holds one adapter per upstream dataset provider. Adapter methods never return
// errors: every failure is reported inside the domain.SourceResult envelope.
package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/logger"
)

const maxResponseBytes = 16 * 1024 * 1024

// HTTPConfig is shared by every HTTP-backed adapter.
type HTTPConfig struct {
	Timeout   time.Duration
	UserAgent string
}

type fetcher struct {
	http      *http.Client
	timeout   time.Duration
	userAgent string
	headers   map[string]string
}

func newFetcher(cfg HTTPConfig, headers map[string]string) *fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	return &fetcher{
		http:      &http.Client{Timeout: cfg.Timeout},
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		headers:   headers,
	}
}

// get performs a GET and returns the body of a 2xx response.
func (f *fetcher) get(ctx context.Context, rawURL string, query url.Values, accept string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	for k, v := range f.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	return body, nil
}

func (f *fetcher) getJSON(ctx context.Context, rawURL string, query url.Values, v any) error {
	body, err := f.get(ctx, rawURL, query, "")
	if err != nil {
		return err
	}
	return decodeJSON(body, v)
}

func decodeJSON(body []byte, v any) error {
	if err := sonic.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func joinURL(base string, parts ...string) string {
	out := strings.TrimRight(base, "/")
	for _, p := range parts {
		out += "/" + strings.Trim(p, "/")
	}
	return out
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

func failed[T any](ctx context.Context, source, op string, err error) domain.SourceResult[T] {
	logger.Warnf(ctx, "%s %s: %s", source, op, err.Error())
	return domain.Failed[T](source, fmt.Errorf("%s: %w", op, err))
}
