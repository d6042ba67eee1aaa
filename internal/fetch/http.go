package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
)

type debugLogger interface {
	Debugf(string, ...any)
}

type HTTPClientOptions struct {
	// Timeout of zero leaves requests unbounded, like the transport default.
	Timeout          time.Duration
	UserAgent        string
	CloudflareBypass bool
	Transport        http.RoundTripper
	DebugLogger      debugLogger
}

func NewHTTPClient(opts HTTPClientOptions) (*http.Client, error) {
	var baseTransport http.RoundTripper
	if opts.Transport != nil {
		baseTransport = opts.Transport
	} else {
		baseTransport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			ForceAttemptHTTP2:   true,
		}
	}

	if opts.CloudflareBypass {
		baseTransport = cloudflarebp.AddCloudFlareByPass(baseTransport)
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		Transport: roundTripper{
			base: baseTransport,
			ua:   opts.UserAgent,
			log:  opts.DebugLogger,
		},
	}

	if opts.DebugLogger != nil {
		opts.DebugLogger.Debugf("HTTP client initialized (timeout=%s, ua=%q, cloudflare=%t)",
			opts.Timeout, opts.UserAgent, opts.CloudflareBypass)
	}

	return client, nil
}

type roundTripper struct {
	base http.RoundTripper
	ua   string
	log  debugLogger
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.ua != "" {
		req.Header.Set("User-Agent", rt.ua)
	}

	if rt.log != nil {
		rt.log.Debugf("HTTP %s %s", req.Method, req.URL.String())
	}

	return rt.base.RoundTrip(req)
}

func PickUserAgent(override string) string {
	if override != "" {
		return override
	}

	return "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
}

// HTTPFetcher downloads pages with a plain GET.
type HTTPFetcher struct {
	client *http.Client
	log    debugLogger
}

func NewHTTPFetcher(c *http.Client, log debugLogger) *HTTPFetcher {
	return &HTTPFetcher{client: c, log: log}
}

// Fetch returns the full response body. Error statuses are not errors:
// a live 404 page still carries the site's head metadata.
func (f *HTTPFetcher) Fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && f.log != nil {
			f.log.Debugf("Warning: failed to close response body for %s: %v", target, cerr)
		}
	}()

	if (resp.StatusCode < 200 || resp.StatusCode >= 300) && f.log != nil {
		f.log.Debugf("%s answered HTTP %d, parsing body anyway", target, resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return b, nil
}
