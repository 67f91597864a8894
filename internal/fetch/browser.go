package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	// DefaultBrowserTimeout bounds a whole headless render.
	DefaultBrowserTimeout = 60 * time.Second
	// DefaultRenderWait gives client-side scripts time to populate resume cards.
	DefaultRenderWait = 3 * time.Second
)

// WithBrowser renders rawURL in headless Chrome and returns the resulting HTML.
// Requires Chrome or Chromium on the host.
func WithBrowser(ctx context.Context, rawURL string, opts Options, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("starting headless browser", zap.String("url", rawURL))

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := opts.BrowserTimeout
	if timeout <= 0 {
		timeout = DefaultBrowserTimeout
	}
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	var actions []chromedp.Action
	if len(opts.Headers) > 0 {
		headers := make(network.Headers, len(opts.Headers))
		for key, value := range opts.Headers {
			headers[key] = value
		}
		actions = append(actions, network.Enable(), network.SetExtraHTTPHeaders(headers))
	}
	actions = append(actions,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body"),
	)
	if opts.RenderWait > 0 {
		actions = append(actions, chromedp.Sleep(opts.RenderWait))
	}
	actions = append(actions, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		return "", &Error{URL: rawURL, Message: "browser render failed", Cause: err}
	}

	logger.Debug("browser render complete",
		zap.String("url", rawURL),
		zap.Int("bytes", len(html)),
	)

	if html == "" {
		return "", &Error{URL: rawURL, Message: fmt.Sprintf("browser returned empty document after %s", timeout)}
	}

	return html, nil
}
