package display

import (
	"strings"
	"testing"
	"time"

	"github.com/gauthierbraillon/crosspost/internal/crosspost"
	"github.com/gauthierbraillon/crosspost/pkg/oauth"
)

func fixedFormatter(now time.Time) *TerminalFormatter {
	f := NewTerminalFormatter()
	f.now = func() time.Time { return now }
	return f
}

func TestFormatPage_ShowsLinkedInstagramAccount(t *testing.T) {
	output := NewTerminalFormatter().FormatPage(PageLine{ID: "p1", Name: "Corner Bakery", IGUserID: "1784"})

	if !strings.Contains(output, "Corner Bakery") {
		t.Error("user should see page name")
	}
	if !strings.Contains(output, "Instagram business account: 1784") {
		t.Errorf("user should see the IG account id, got %q", output)
	}
}

func TestFormatPage_ShowsUnlinkedPage(t *testing.T) {
	output := NewTerminalFormatter().FormatPage(PageLine{ID: "p2"})

	if !strings.Contains(output, "no Instagram business account linked") {
		t.Errorf("user should be told the page has no IG account, got %q", output)
	}
	if !strings.Contains(output, "(unnamed page)") {
		t.Errorf("unnamed pages need a placeholder, got %q", output)
	}
}

func TestFormatPages_Empty(t *testing.T) {
	if got := NewTerminalFormatter().FormatPages(nil); got != "No managed pages found.\n" {
		t.Errorf("got %q", got)
	}
}

func TestFormatPages_ShowsEveryPage(t *testing.T) {
	output := NewTerminalFormatter().FormatPages([]PageLine{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}})

	if strings.Count(output, "[PAGE]") != 2 {
		t.Errorf("expected two pages, got %q", output)
	}
}

func TestFormatToken_NeverPrintsTheToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	token := &oauth.Token{AccessToken: "AQXsecretsecretsecret9f3k", ExpiresIn: 60 * 24 * 3600, ObtainedAt: now}

	output := fixedFormatter(now).FormatToken("linkedin", token)

	if strings.Contains(output, "secretsecret") {
		t.Errorf("token value leaked: %q", output)
	}
	if !strings.Contains(output, "AQXs…9f3k") {
		t.Errorf("expected masked token, got %q", output)
	}
	if !strings.Contains(output, "expires in 60 days") {
		t.Errorf("expected expiry, got %q", output)
	}
}

func TestFormatToken_Expiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f := fixedFormatter(now)

	tests := []struct {
		name  string
		token oauth.Token
		want  string
	}{
		{"unknown", oauth.Token{AccessToken: "t"}, "no expiry reported"},
		{"expired", oauth.Token{AccessToken: "t", ExpiresIn: 60, ObtainedAt: now.Add(-time.Hour)}, "expired"},
		{"one hour", oauth.Token{AccessToken: "t", ExpiresIn: 3600, ObtainedAt: now}, "expires in 1 hour"},
		{"minutes", oauth.Token{AccessToken: "t", ExpiresIn: 600, ObtainedAt: now}, "expires in 10 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.FormatToken("facebook", &tt.token); !strings.Contains(got, tt.want) {
				t.Errorf("FormatToken() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestFormatReport_ShowsEachDestination(t *testing.T) {
	report := &crosspost.Report{Outcomes: []crosspost.Outcome{
		{Destination: crosspost.DestinationLinkedIn, Status: crosspost.StatusPublished, Result: map[string]any{"id": "urn:li:share:1"}},
		{Destination: crosspost.DestinationInstagram, Status: crosspost.StatusFailed, Error: "IG publish failed: 400 Bad Request\n{\n  \"error\": {}\n}"},
	}}

	output := NewTerminalFormatter().FormatReport(report)

	want := "[LINKEDIN] published • id=urn:li:share:1\n" +
		"[INSTAGRAM] failed • IG publish failed: 400 Bad Request\n"
	if output != want {
		t.Errorf("FormatReport() =\n%s\nwant\n%s", output, want)
	}
}

func TestFormatReport_Empty(t *testing.T) {
	if got := NewTerminalFormatter().FormatReport(nil); got != "Nothing was published.\n" {
		t.Errorf("got %q", got)
	}
}

func TestFormatResult_IDFirstThenSorted(t *testing.T) {
	got := NewTerminalFormatter().FormatResult(map[string]any{"z": 1, "id": "m1", "a": "x"})

	if got != "id=m1 a=x z=1" {
		t.Errorf("FormatResult() = %q", got)
	}
}

func TestTruncateText(t *testing.T) {
	f := NewTerminalFormatter()
	long := "This is a very long caption that should be truncated for terminal display purposes"

	if got := f.TruncateText(long, 50); len(got) > 50 || !strings.HasSuffix(got, "...") {
		t.Errorf("long text should be truncated with ellipsis, got %q", got)
	}
	if got := f.TruncateText("Short", 50); got != "Short" {
		t.Errorf("short text should not change, got %q", got)
	}
	if got := f.TruncateText("abcdef", 2); got != "..." {
		t.Errorf("tiny limit should yield ellipsis, got %q", got)
	}
}
