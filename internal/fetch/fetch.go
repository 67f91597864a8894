// Package fetch loads recruiting pages from the network or from saved HTML files.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/extract"
)

const (
	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent mimics a desktop browser; recruiting sites reject obvious bots.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 16 << 20
)

// Error describes a failed page load.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures page loading.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// Headers are sent with every request; a logged-in Cookie usually goes here.
	Headers map[string]string
	// Browser renders pages in headless Chrome instead of a plain GET.
	Browser        bool
	BrowserTimeout time.Duration
	// RenderWait is how long the browser idles after body is ready so scripts can fill the page.
	RenderWait time.Duration
}

// DefaultOptions returns the plain-HTTP defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:        DefaultTimeout,
		UserAgent:      DefaultUserAgent,
		BrowserTimeout: DefaultBrowserTimeout,
		RenderWait:     DefaultRenderWait,
	}
}

type renderFunc func(ctx context.Context, rawURL string) (string, error)

// Loader turns a URL or a saved HTML file into an extract.Page.
type Loader struct {
	opts   Options
	client *http.Client
	render renderFunc
	logger *zap.Logger
}

// NewLoader builds a Loader. Zero-valued options fall back to DefaultOptions.
func NewLoader(opts Options, logger *zap.Logger) *Loader {
	defaults := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = defaults.UserAgent
	}
	if opts.BrowserTimeout <= 0 {
		opts.BrowserTimeout = defaults.BrowserTimeout
	}
	if opts.RenderWait < 0 {
		opts.RenderWait = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Loader{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
		logger: logger,
	}
	l.render = func(ctx context.Context, rawURL string) (string, error) {
		return WithBrowser(ctx, rawURL, l.opts, l.logger)
	}
	return l
}

// IsRemote reports whether source looks like an http(s) address.
func IsRemote(source string) bool {
	lower := strings.ToLower(strings.TrimSpace(source))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Load reads source, which is either an http(s) URL or a path to a saved HTML file ("-" for stdin).
// pageURL overrides the address associated with the page; for remote sources it defaults to source.
func (l *Loader) Load(ctx context.Context, source, pageURL string) (*extract.Page, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("page source is empty")
	}

	if !IsRemote(source) {
		return l.LoadFile(source, pageURL)
	}

	if strings.TrimSpace(pageURL) == "" {
		pageURL = source
	}

	var (
		html string
		err  error
	)
	if l.opts.Browser {
		html, err = l.render(ctx, source)
	} else {
		html, err = l.Get(ctx, source)
	}
	if err != nil {
		return nil, err
	}

	return extract.NewPage(html, pageURL)
}

// LoadFile parses a saved HTML file.
func (l *Loader) LoadFile(path, pageURL string) (*extract.Page, error) {
	if path == "-" {
		return extract.NewPageFromReader(os.Stdin, pageURL)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open page file: %w", err)
	}
	defer func() { _ = f.Close() }()

	l.logger.Debug("loading saved page", zap.String("path", path), zap.String("url", pageURL))

	return extract.NewPageFromReader(f, pageURL)
}

// Get retrieves the raw HTML of rawURL with a plain GET.
func (l *Loader) Get(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("User-Agent", l.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	for key, value := range l.opts.Headers {
		req.Header.Set(key, value)
	}

	started := time.Now()
	resp, err := l.client.Do(req)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
	}

	l.logger.Debug("page fetched",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode != http.StatusOK {
		return "", &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	return string(body), nil
}
