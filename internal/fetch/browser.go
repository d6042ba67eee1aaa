package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// BrowserFetcher loads pages in a headless Chromium and returns the DOM
// after the load event, for sites that build their head client-side.
type BrowserFetcher struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	log      debugLogger
}

// NewBrowserFetcher connects to controlURL, or launches a local headless
// browser when controlURL is empty.
func NewBrowserFetcher(ctx context.Context, controlURL string, timeout time.Duration, log debugLogger) (*BrowserFetcher, error) {
	f := &BrowserFetcher{timeout: timeout, log: log}

	if controlURL == "" {
		f.launcher = launcher.New().Headless(true)

		u, err := f.launcher.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		f.kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	f.browser = browser

	if log != nil {
		log.Debugf("Browser connected (%s)", controlURL)
	}

	return f, nil
}

func (f *BrowserFetcher) Fetch(ctx context.Context, target string) ([]byte, error) {
	page, err := f.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: target})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil && f.log != nil {
			f.log.Debugf("Warning: failed to close page %s: %v", target, cerr)
		}
	}()

	p := page.Context(ctx)
	if f.timeout > 0 {
		p = p.Timeout(f.timeout)
	}

	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	doc, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("read DOM: %w", err)
	}

	return []byte(doc), nil
}

func (f *BrowserFetcher) Close() error {
	var err error
	if f.browser != nil {
		err = f.browser.Close()
	}
	f.kill()

	return err
}

func (f *BrowserFetcher) kill() {
	if f.launcher != nil {
		f.launcher.Kill()
	}
}
