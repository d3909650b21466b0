package auth

import (
	"net/url"
	"strings"
)

const (
	// LoginPath is where guards send anonymous visitors.
	LoginPath = "/entrar"
	// AccountPath is the default landing page after login.
	AccountPath = "/conta"
)

// SanitizeRedirect keeps only local absolute paths so a crafted from value
// cannot bounce users to another origin. Anything else falls back to the
// account page.
func SanitizeRedirect(from string) string {
	from = strings.TrimSpace(from)
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.ContainsAny(from, "\\\r\n") {
		return AccountPath
	}
	parsed, err := url.Parse(from)
	if err != nil || parsed.IsAbs() || parsed.Host != "" {
		return AccountPath
	}
	if parsed.Path == LoginPath || strings.HasPrefix(parsed.Path, LoginPath+"/") {
		return AccountPath
	}
	return from
}
