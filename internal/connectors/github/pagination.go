package github

import (
	"regexp"
	"strings"
)

// linkRegex matches Link header entries: <url>; rel="type".
var linkRegex = regexp.MustCompile(`<([^>]+)>;\s*rel="([^"]+)"`)

// ParseNextLink extracts the rel="next" URL from a Link header.
// Returns "" when this is the last page.
func ParseNextLink(linkHeader string) string {
	if linkHeader == "" {
		return ""
	}

	for _, part := range strings.Split(linkHeader, ",") {
		matches := linkRegex.FindStringSubmatch(strings.TrimSpace(part))
		if len(matches) == 3 && matches[2] == "next" {
			return matches[1]
		}
	}
	return ""
}

// ParseAllLinks extracts every (rel, url) pair from a Link header.
func ParseAllLinks(linkHeader string) map[string]string {
	links := make(map[string]string)
	if linkHeader == "" {
		return links
	}

	for _, part := range strings.Split(linkHeader, ",") {
		matches := linkRegex.FindStringSubmatch(strings.TrimSpace(part))
		if len(matches) == 3 {
			links[matches[2]] = matches[1]
		}
	}
	return links
}
