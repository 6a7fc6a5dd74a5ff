package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// openers maps GOOS to the command that hands a URL to the desktop.
var openers = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"freebsd": {"xdg-open"},
	"windows": {"rundll32", "url.dll,FileProtocolHandler"},
}

// OpenPreview hands a track's preview clip URL to the system opener, which plays it in the default browser.
//
// Only absolute http(s) URLs are accepted; preview links come from the provider and anything else is
// rejected with [ErrInvalidArgument] rather than passed to a shell helper. The opener is started and
// not waited on.
func OpenPreview(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || rawURL == "" || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return fmt.Errorf("%w: not a preview URL: %q", ErrInvalidArgument, rawURL)
	}

	rt := getRuntime()
	argv, ok := openers[rt]
	if !ok {
		return fmt.Errorf("%w: no preview opener for %s", ErrNotImplemented, rt)
	}

	args := append(argv[1:len(argv):len(argv)], u.String())
	if err := exec.Command(argv[0], args...).Start(); err != nil {
		return fmt.Errorf("failed to open preview: %w", err)
	}
	return nil
}
