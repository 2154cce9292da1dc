package browser

import (
	"strings"
	"testing"
)

func TestValidate_AcceptsAuthorizationURLs(t *testing.T) {
	for _, u := range []string{
		"https://www.linkedin.com/oauth/v2/authorization?client_id=x&state=s",
		"https://www.facebook.com/v18.0/dialog/oauth?client_id=x",
		"http://localhost:8080/callback",
	} {
		if err := Validate(u); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", u, err)
		}
	}
}

func TestValidate_RejectsInvalidScheme(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"file scheme", "file:///etc/passwd"},
		{"javascript scheme", "javascript:alert(1)"},
		{"data scheme", "data:text/html,<script>alert(1)</script>"},
		{"ftp scheme", "ftp://example.com"},
		{"no scheme", "example.com"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.url)
			if err == nil {
				t.Fatalf("Should reject %q, but got no error", tt.url)
			}
			if !strings.Contains(err.Error(), "unsupported URL scheme") {
				t.Errorf("Expected scheme error, got: %v", err)
			}
		})
	}
}

func TestValidate_RejectsMalformedURL(t *testing.T) {
	for _, u := range []string{"http://example.com\nrm -rf /", "http://example.com\x00", "https://"} {
		if err := Validate(u); err == nil {
			t.Errorf("Validate(%q) should fail", u)
		}
	}
}

func TestCommand_PerPlatform(t *testing.T) {
	const u = "https://example.com"
	tests := []struct {
		goos string
		name string
		last string
	}{
		{"linux", "xdg-open", u},
		{"darwin", "open", u},
		{"windows", "rundll32", u},
	}

	for _, tt := range tests {
		name, args, err := command(tt.goos, u)
		if err != nil {
			t.Fatalf("command(%s): %v", tt.goos, err)
		}
		if name != tt.name || args[len(args)-1] != tt.last {
			t.Errorf("command(%s) = %s %v", tt.goos, name, args)
		}
	}

	if _, _, err := command("plan9", u); err == nil || !strings.Contains(err.Error(), "unsupported platform") {
		t.Errorf("expected unsupported platform error, got %v", err)
	}
}

func TestOpen_ValidatesBeforeLaunching(t *testing.T) {
	if err := Open("javascript:alert(1)"); err == nil {
		t.Error("Open should reject a non-http URL without launching anything")
	}
}
