// Package display provides terminal output formatting for crosspost.
package display

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gauthierbraillon/crosspost/internal/crosspost"
	"github.com/gauthierbraillon/crosspost/pkg/oauth"
)

const separator = " • "

// PageLine is a managed Facebook Page and its linked Instagram account.
type PageLine struct {
	ID       string
	Name     string
	IGUserID string
}

// TerminalFormatter formats CLI results for terminal display.
type TerminalFormatter struct {
	now func() time.Time
}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{now: time.Now}
}

// FormatPage formats a single page for display.
func (f *TerminalFormatter) FormatPage(p PageLine) string {
	name := p.Name
	if name == "" {
		name = "(unnamed page)"
	}
	header := fmt.Sprintf("[PAGE] %s%s%s", f.TruncateText(name, 60), separator, p.ID)

	account := "  no Instagram business account linked"
	if p.IGUserID != "" {
		account = "  Instagram business account: " + p.IGUserID
	}
	return header + "\n" + account + "\n"
}

// FormatPages formats a list of pages.
func (f *TerminalFormatter) FormatPages(pages []PageLine) string {
	if len(pages) == 0 {
		return "No managed pages found.\n"
	}

	var formatted []string
	for _, p := range pages {
		formatted = append(formatted, f.FormatPage(p))
	}
	return strings.Join(formatted, "\n")
}

// FormatToken summarizes a token without printing its value.
func (f *TerminalFormatter) FormatToken(provider string, token *oauth.Token) string {
	line := fmt.Sprintf("[%s] token %s", strings.ToUpper(provider), f.maskToken(token.AccessToken))
	exp := token.ExpiresAt()
	switch {
	case exp.IsZero():
		line += separator + "no expiry reported"
	case token.Expired(f.now()):
		line += separator + "expired"
	default:
		line += separator + "expires in " + durationWords(exp.Sub(f.now()))
	}
	return line + "\n"
}

// FormatReport formats the outcome of a cross-post, one line per destination.
func (f *TerminalFormatter) FormatReport(report *crosspost.Report) string {
	if report == nil || len(report.Outcomes) == 0 {
		return "Nothing was published.\n"
	}

	var lines []string
	for _, o := range report.Outcomes {
		line := fmt.Sprintf("[%s] %s", strings.ToUpper(string(o.Destination)), o.Status)
		switch o.Status {
		case crosspost.StatusPublished:
			if detail := f.FormatResult(o.Result); detail != "" {
				line += separator + detail
			}
		case crosspost.StatusFailed:
			// Upstream bodies are multi-line; keep the first line here.
			msg, _, _ := strings.Cut(o.Error, "\n")
			line += separator + f.TruncateText(msg, 120)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatResult renders a publish payload as "key=value" pairs, id first.
func (f *TerminalFormatter) FormatResult(result map[string]any) string {
	if len(result) == 0 {
		return ""
	}

	keys := make([]string, 0, len(result))
	for k := range result {
		if k != "id" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := result["id"]; ok {
		keys = append([]string{"id"}, keys...)
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, result[k]))
	}
	return strings.Join(parts, " ")
}

// maskToken keeps only enough of a token to tell two apart.
func (f *TerminalFormatter) maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "…" + token[len(token)-4:]
}

// durationWords formats d with its largest whole unit.
func durationWords(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "less than a minute"
	case d < time.Hour:
		return pluralize(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return pluralize(int(d.Hours()), "hour")
	default:
		return pluralize(int(d.Hours()/24), "day")
	}
}

// pluralize returns "N unit" or "N units" based on count.
func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// TruncateText truncates text to maxLen, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return text[:maxLen-3] + "..."
}
