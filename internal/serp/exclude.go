package serp

import "regexp"

// excludePatterns drops engine-internal pages, verticals and trackers. The
// list is tied to current engine markup and degrades silently as it drifts;
// zero-link pages are logged and counted so drift shows up in metrics.
var excludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(google|bing|duckduckgo)\.(com|cn)/search`),
	regexp.MustCompile(`duckduckgo\.com/(html|l)/`),
	regexp.MustCompile(`accounts\.google\.com`),
	regexp.MustCompile(`google\.com/(images|news|maps|shopping|travel|finance)`),
	regexp.MustCompile(`youtube\.com/watch`),
	regexp.MustCompile(`support\.google\.com`),
	regexp.MustCompile(`policies\.google\.com`),
	regexp.MustCompile(`translate\.google\.com`),
	regexp.MustCompile(`webcache\.googleusercontent\.com`),
	regexp.MustCompile(`google\.com/imgres`),
	regexp.MustCompile(`bing\.com/(images|news|maps)`),
	regexp.MustCompile(`microsoft\.com`),
	regexp.MustCompile(`facebook\.com/tr`),
	regexp.MustCompile(`googletagmanager\.com`),
	regexp.MustCompile(`doubleclick\.net`),
}

// Excluded reports whether u matches the static exclusion list.
func Excluded(u string) bool {
	for _, re := range excludePatterns {
		if re.MatchString(u) {
			return true
		}
	}
	return false
}
