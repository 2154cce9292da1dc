// Package browser opens authorization URLs in the user's default browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Opener opens a URL. The CLI swaps it out in tests.
type Opener func(urlString string) error

// Validate rejects anything but an absolute http or https URL, so the value
// is safe to hand to the system browser.
func Validate(urlString string) error {
	parsedURL, err := url.Parse(urlString)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https allowed)", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}
	return nil
}

// Open opens the URL in the default browser without waiting for it to exit.
func Open(urlString string) error {
	if err := Validate(urlString); err != nil {
		return err
	}
	name, args, err := command(runtime.GOOS, urlString)
	if err != nil {
		return err
	}
	return exec.Command(name, args...).Start() // #nosec G204 -- URL validated above
}

// command returns the launcher for goos.
func command(goos, urlString string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{urlString}, nil
	case "darwin":
		return "open", []string{urlString}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", urlString}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
