// Package crossref pulls links out of notification text.
package crossref

import (
	"regexp"
	"strings"
)

// urlPattern matches http(s) URLs and bare www. hosts.
var urlPattern = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"'()]+`)

// ExtractURLs extracts all URLs from text.
// Returns a deduplicated list preserving the order of first occurrence.
func ExtractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var result []string
	for _, m := range matches {
		m = strings.TrimRight(m, ".,;:!?")
		if seen[m] {
			continue
		}
		seen[m] = true
		result = append(result, m)
	}
	return result
}

// Links extracts URLs from a notification's title and content. If
// allowedHosts is non-empty, only links containing one of the hosts are
// returned; otherwise all found links are returned.
func Links(title, content string, allowedHosts []string) []string {
	links := ExtractURLs(title + " " + content)

	if len(allowedHosts) == 0 {
		return links
	}

	var filtered []string
	for _, link := range links {
		for _, host := range allowedHosts {
			if strings.Contains(strings.ToLower(link), strings.ToLower(host)) {
				filtered = append(filtered, link)
				break
			}
		}
	}
	return filtered
}
