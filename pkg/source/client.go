package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/classview/pkg/buildinfo"
	"github.com/matzehuels/classview/pkg/cache"
	apperrors "github.com/matzehuels/classview/pkg/errors"
	"github.com/matzehuels/classview/pkg/hierarchy"
	"github.com/matzehuels/classview/pkg/httputil"
	"github.com/matzehuels/classview/pkg/observability"
)

// DefaultTimeout bounds a single backend request.
const DefaultTimeout = 10 * time.Second

// maxBody caps the size of a backend reply.
const maxBody = 32 << 20

// Options configures a [Client].
type Options struct {
	BaseURL string // Backend root, e.g. http://localhost:8000
	Token   string // Bearer token; empty sends no Authorization header

	Cache   cache.Cache   // Response cache; nil disables caching
	TTL     time.Duration // Cache lifetime; zero means cache.DefaultTTL
	Refresh bool          // Skip cache reads (responses are still stored)

	HTTPClient *http.Client  // nil means NewHTTPClient()
	Attempts   int           // Retry attempts; zero means 3
	Delay      time.Duration // Initial retry delay; zero means 1s

	Logger *log.Logger
}

// Client fetches hierarchies from the analysis backend.
// It is safe for concurrent use.
type Client struct {
	base    string
	token   string
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	refresh bool
	backoff httputil.Backoff
	logger  *log.Logger
}

// NewClient validates opts and returns a ready client.
func NewClient(opts Options) (*Client, error) {
	if err := apperrors.ValidateURL(opts.BaseURL); err != nil {
		return nil, err
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid backend URL")
	}

	c := &Client{
		base:    strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		http:    opts.HTTPClient,
		cache:   opts.Cache,
		ttl:     opts.TTL,
		refresh: opts.Refresh,
		backoff: httputil.DefaultBackoff,
		logger:  opts.Logger,
	}
	if c.http == nil {
		c.http = NewHTTPClient()
	}
	if c.cache == nil {
		c.cache = cache.NewNullCache()
	}
	if c.ttl <= 0 {
		c.ttl = cache.DefaultTTL
	}
	if opts.Attempts > 0 {
		c.backoff.Attempts = opts.Attempts
	}
	if opts.Delay > 0 {
		c.backoff.Delay = opts.Delay
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c, nil
}

// NewHTTPClient returns an HTTP client with [DefaultTimeout].
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// WithToken returns a copy of c that authenticates with token.
// The copy shares the cache and HTTP client.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string { return c.base }

// ClassesURL returns the endpoint for one file.
func (c *Client) ClassesURL(file string) string {
	return c.base + "/class_finding/get_classes/" + url.PathEscape(file)
}

// Classes fetches the hierarchy of file, consulting the cache first.
func (c *Client) Classes(ctx context.Context, file string) (*hierarchy.Mapping, error) {
	if err := apperrors.ValidateFileName(file); err != nil {
		return nil, err
	}

	key := cache.ClassesKey(c.base, c.token, file)
	if !c.refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			if m, err := DecodeResponse(data); err == nil {
				c.logger.Debug("hierarchy cache hit", "file", file)
				return m, nil
			}
			_ = c.cache.Delete(ctx, key)
		}
	}

	var body []byte
	err := c.backoff.Do(ctx, func() error {
		var err error
		body, err = c.get(ctx, c.ClassesURL(file))
		return err
	})
	if err != nil {
		return nil, c.classify(err, file)
	}

	m, err := DecodeResponse(body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "backend returned malformed hierarchy for %s", file)
	}
	if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
		c.logger.Warn("failed to cache hierarchy", "file", file, "error", err)
	}
	c.logger.Debug("fetched hierarchy", "file", file, "classes", m.Len())
	return m, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: read body: %v", ErrNetwork, err)}
	}
	return data, nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, code)
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests, code >= 500:
		return &httputil.RetryableError{
			Err:   fmt.Errorf("%w: status %d", ErrNetwork, code),
			After: httputil.RetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// classify attaches an error code so callers can map failures to statuses.
func (c *Client) classify(err error, file string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "no hierarchy for %s", file)
	case errors.Is(err, ErrUnauthorized):
		return apperrors.Wrap(apperrors.ErrCodeUnauthorized, err, "backend rejected credentials")
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(apperrors.ErrCodeTimeout, err, "fetching %s timed out", file)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return apperrors.Wrap(apperrors.ErrCodeNetwork, err, "fetching %s", file)
	}
}

var _ Source = (*Client)(nil)
