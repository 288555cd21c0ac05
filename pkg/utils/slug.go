package utils

import (
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile("[^a-z0-9]+")

const maxSlugLen = 48

// Slugify lowercases s and collapses anything outside [a-z0-9] into single
// hyphens. Used for tenant subdomains.
func Slugify(s string) string {
	s = nonSlug.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	return s
}
