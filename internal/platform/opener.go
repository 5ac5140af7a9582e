package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnsupportedScheme is returned for links that are not http or https.
var ErrUnsupportedScheme = errors.New("only http and https links can be opened")

// Browsers lists the accepted default_browser values.
var Browsers = []string{"system", "chrome", "firefox", "safari", "edge", "brave"}

var macBrowserApps = map[string]string{
	"chrome":  "Google Chrome",
	"firefox": "Firefox",
	"safari":  "Safari",
	"edge":    "Microsoft Edge",
	"brave":   "Brave Browser",
}

var linuxBrowserBins = map[string]string{
	"chrome":  "google-chrome",
	"firefox": "firefox",
	"edge":    "microsoft-edge",
	"brave":   "brave-browser",
}

// Opener opens a link outside the launcher.
type Opener interface {
	Open(ctx context.Context, uri string) error
}

// runner executes a command; replaced in tests.
type runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// BrowserOpener opens http(s) links in the configured browser.
type BrowserOpener struct {
	browser string
	goos    string
	run     runner
	logger  *slog.Logger
}

// NewBrowserOpener creates an opener for the given browser preference.
func NewBrowserOpener(browser string, logger *slog.Logger) *BrowserOpener {
	if logger == nil {
		logger = slog.Default()
	}
	return &BrowserOpener{
		browser: strings.ToLower(strings.TrimSpace(browser)),
		goos:    runtime.GOOS,
		run:     execRunner,
		logger:  logger,
	}
}

// ValidateLink checks that uri is an absolute http(s) URL.
func ValidateLink(uri string) error {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return fmt.Errorf("parse link: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("link %q has no host", uri)
	}
	return nil
}

// Open validates uri and hands it to the browser. When the preferred browser
// fails to launch, the system default is tried.
func (o *BrowserOpener) Open(ctx context.Context, uri string) error {
	uri = strings.TrimSpace(uri)
	if err := ValidateLink(uri); err != nil {
		o.logger.Warn("rejected link", "uri", uri, "err", err)
		return err
	}

	name, args := o.preferredCommand(uri)
	err := o.run(ctx, name, args...)
	if err == nil {
		o.logger.Debug("opened link", "uri", uri, "browser", o.browser)
		return nil
	}

	fallbackName, fallbackArgs := o.systemCommand(uri)
	if fallbackName == name && strings.Join(fallbackArgs, " ") == strings.Join(args, " ") {
		return fmt.Errorf("open link: %w", err)
	}
	o.logger.Warn("browser launch failed, using system default", "browser", o.browser, "err", err)
	if ferr := o.run(ctx, fallbackName, fallbackArgs...); ferr != nil {
		return fmt.Errorf("open link: %w", ferr)
	}
	return nil
}

func (o *BrowserOpener) preferredCommand(uri string) (string, []string) {
	switch o.goos {
	case "darwin":
		if app, ok := macBrowserApps[o.browser]; ok {
			return "open", []string{"-g", "-a", app, uri}
		}
	case "linux", "freebsd", "openbsd", "netbsd":
		if bin, ok := linuxBrowserBins[o.browser]; ok {
			return bin, []string{uri}
		}
	}
	return o.systemCommand(uri)
}

func (o *BrowserOpener) systemCommand(uri string) (string, []string) {
	switch o.goos {
	case "darwin":
		return "open", []string{"-g", uri}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", uri}
	default:
		return "xdg-open", []string{uri}
	}
}
