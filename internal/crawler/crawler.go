package crawler

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/v0xg/densitymap/internal/densitymap"
)

// Options configures how the crawler reaches a browser
type Options struct {
	Port       int           // remote debugging port of a running Chrome
	Launch     bool          // launch a headless browser when nothing listens on Port
	ChromePath string        // browser binary for Launch (empty = auto-detect)
	Width      int           // viewport width when launching
	Height     int           // viewport height when launching
	Settle     time.Duration // extra wait after navigation
	Timeout    time.Duration
}

// Browser wraps the Rod browser and the page being mapped
type Browser struct {
	browser  *rod.Browser
	page     *rod.Page
	launched bool
	opts     Options
}

// Connect attaches to the Chrome instance listening on opts.Port, or
// launches a headless one when opts.Launch is set and none is running.
func Connect(ctx context.Context, opts Options) (*Browser, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	launched := false
	u, err := launcher.ResolveURL(fmt.Sprintf("127.0.0.1:%d", opts.Port))
	if err != nil {
		if !opts.Launch {
			return nil, fmt.Errorf("chrome not found on port %d (start it with --remote-debugging-port=%d): %w",
				opts.Port, opts.Port, err)
		}
		log.Debug("no browser on debugging port, launching headless", "port", opts.Port)
		if u, err = launch(opts); err != nil {
			return nil, err
		}
		launched = true
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", u, err)
	}

	page, err := firstPage(browser)
	if err != nil {
		return nil, err
	}
	if launched && opts.Width > 0 && opts.Height > 0 {
		err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             opts.Width,
			Height:            opts.Height,
			DeviceScaleFactor: 1,
		})
		if err != nil {
			return nil, fmt.Errorf("set viewport: %w", err)
		}
	}

	b := &Browser{browser: browser, page: page, launched: launched, opts: opts}
	b.acceptDialogs()
	return b, nil
}

func launch(opts Options) (string, error) {
	path := opts.ChromePath
	if path == "" {
		path, _ = launcher.LookPath()
	}
	u, err := launcher.New().Bin(path).Headless(true).Launch()
	if err != nil {
		return "", fmt.Errorf("launch browser: %w", err)
	}
	return u, nil
}

// firstPage returns the first open tab, opening a blank one if there is none
func firstPage(browser *rod.Browser) (*rod.Page, error) {
	pages, err := browser.Pages()
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	if len(pages) > 0 {
		return pages[0], nil
	}
	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	return page, nil
}

// acceptDialogs dismisses alerts and beforeunload prompts as they open so
// they cannot block script evaluation.
func (b *Browser) acceptDialogs() {
	page := b.page
	go page.EachEvent(func(e *proto.PageJavascriptDialogOpening) {
		log.Debug("accepting dialog", "type", e.Type, "message", e.Message)
		_ = proto.PageHandleJavaScriptDialog{Accept: true}.Call(page)
	})()
}

// Close releases the browser. An attached browser is left running.
func (b *Browser) Close() {
	if b.launched && b.browser != nil {
		b.browser.Close()
	}
}

// Page returns the underlying Rod page
func (b *Browser) Page() *rod.Page {
	return b.page
}

// Navigate loads url in the mapped tab and waits for it to settle
func (b *Browser) Navigate(ctx context.Context, url string) error {
	page := b.page.Context(ctx).Timeout(b.opts.Timeout)

	if _, err := page.Eval(`() => { window.onbeforeunload = null }`); err != nil {
		log.Debug("could not clear beforeunload", "err", err)
	}
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait for load: %w", err)
	}

	// Don't hang on persistent connections (WebSockets, polling, etc.)
	b.page.Context(ctx).Timeout(5*time.Second).WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()

	if b.opts.Settle > 0 {
		select {
		case <-time.After(b.opts.Settle):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Snapshot walks the visible DOM and returns it as a density map snapshot
func (b *Browser) Snapshot(ctx context.Context) (*densitymap.Snapshot, error) {
	page := b.page.Context(ctx).Timeout(b.opts.Timeout)

	res, err := page.Eval(walkerJS, maxElements, maxLabel)
	if err != nil {
		return nil, fmt.Errorf("run DOM walker: %w", err)
	}

	var w walkResult
	if err := res.Value.Unmarshal(&w); err != nil {
		return nil, fmt.Errorf("decode DOM walker result: %w", err)
	}
	if w.VW <= 0 || w.VH <= 0 {
		return nil, fmt.Errorf("DOM walker returned no viewport")
	}
	log.Debug("walked DOM", "elements", len(w.Elements), "viewport", fmt.Sprintf("%dx%d", w.VW, w.VH))

	return w.snapshot(), nil
}

// Screenshot captures the visible viewport
func (b *Browser) Screenshot(ctx context.Context) (image.Image, error) {
	data, err := b.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return img, nil
}
