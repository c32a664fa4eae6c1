package parser

import (
	"net/url"
	"strings"
)

// platformHosts maps host fragments to the human job board an apply link
// ultimately points at. Checked in order.
var platformHosts = []struct {
	fragment string
	name     string
}{
	{"linkedin.com", "LinkedIn"},
	{"indeed.com", "Indeed"},
	{"glassdoor.com", "Glassdoor"},
	{"bdjobs.com", "BDjobs"},
	{"stackoverflow.com", "Stack Overflow"},
	{"angel.co", "AngelList"},
	{"wellfound.com", "AngelList"},
	{"remote.co", "Remote.co"},
	{"weworkremotely.com", "We Work Remotely"},
}

// IdentifyPlatform derives the external platform from an apply URL.
// Links to anything else are "Direct Company"; an empty URL is "Unknown".
func IdentifyPlatform(applyURL string) string {
	if strings.TrimSpace(applyURL) == "" {
		return "Unknown"
	}

	target := strings.ToLower(applyURL)
	if parsed, err := url.Parse(applyURL); err == nil && parsed.Host != "" {
		target = strings.ToLower(parsed.Host)
	}

	for _, p := range platformHosts {
		if strings.Contains(target, p.fragment) {
			return p.name
		}
	}
	return "Direct Company"
}
