// Package fetch loads HTML pages from URLs or local files.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/huangsam/seoscore/internal/contract"
)

// MaxRedirects is the number of redirects followed before a fetch fails.
const MaxRedirects = 5

// ErrTooLarge is returned when a page exceeds the configured size cap.
var ErrTooLarge = errors.New("content too large")

// Page is the raw content of a page and where it came from.
type Page struct {
	Source      string // URL or path as given by the user
	BaseURL     string // Final URL after redirects, empty for local files
	Body        []byte
	ContentType string
	StatusCode  int
	FromCache   bool
}

// Fetcher loads pages over HTTP with an optional page cache in front.
type Fetcher struct {
	client         *http.Client
	userAgent      string
	maxContentSize int64
	cache          contract.CacheStore
	cacheTTL       time.Duration
}

// NewFetcher creates a new page fetcher. A nil cache or a zero ttl disables caching.
func NewFetcher(timeout time.Duration, userAgent string, maxContentSize int64, cache contract.CacheStore, cacheTTL time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= MaxRedirects {
					return fmt.Errorf("too many redirects (max %d)", MaxRedirects)
				}
				return nil
			},
		},
		userAgent:      userAgent,
		maxContentSize: maxContentSize,
		cache:          cache,
		cacheTTL:       cacheTTL,
	}
}

// IsURL reports whether source is an http or https URL.
func IsURL(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Load returns the page at source, which is either a URL or a local file path.
func (f *Fetcher) Load(ctx context.Context, source string) (*Page, error) {
	if IsURL(source) {
		return f.Fetch(ctx, source)
	}
	return f.readFile(source)
}

// Fetch retrieves a page over HTTP, consulting the page cache first.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if !IsURL(rawURL) {
		return nil, fmt.Errorf("invalid URL %q: only http and https are supported", rawURL)
	}

	key := cacheKey(rawURL)
	if page := f.checkCacheHit(key); page != nil {
		page.Source = rawURL
		return page, nil
	}

	page, err := f.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	f.store(key, page)
	return page, nil
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d: %s", rawURL, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := readLimited(resp.Body, f.maxContentSize)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(strings.ToLower(contentType), "html") {
		return nil, fmt.Errorf("fetch %s: unsupported content type %q", rawURL, contentType)
	}

	return &Page{
		Source:      rawURL,
		BaseURL:     resp.Request.URL.String(),
		Body:        body,
		ContentType: contentType,
		StatusCode:  resp.StatusCode,
	}, nil
}

// readFile loads a local HTML file with the same size cap as remote pages.
func (f *Fetcher) readFile(path string) (*Page, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	body, err := readLimited(file, f.maxContentSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &Page{Source: path, Body: body}, nil
}

// readLimited reads at most limit bytes and fails when r holds more.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w (exceeds %d bytes)", ErrTooLarge, limit)
	}
	return body, nil
}
