// Package device turns raw User-Agent strings into short display names for
// login logging and the audit trail.
package device

import (
	"strings"

	ua "github.com/mssola/useragent"
)

// ParseUserAgent renders a human-readable "Browser on OS" label. Unparseable
// or empty input yields "Unknown Device" rather than an error; the label is
// informational only and never part of an authorization decision.
func ParseUserAgent(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "Unknown Device"
	}

	parsed := ua.New(userAgent)
	browser, _ := parsed.Browser()
	os := parsed.OSInfo().Name

	switch {
	case browser != "" && os != "":
		return browser + " on " + os
	case browser != "":
		return browser
	case os != "":
		return os
	default:
		return "Unknown Device"
	}
}
