package bluesky

import (
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"'）」】』]+`)

// Trailing characters the greedy pattern tends to swallow, including the
// full-width terminators used around links in Japanese post text.
const trailingJunk = ".,;:!?)]}>'\"。、．！？）」】』・…"

// ExtractURLs returns every candidate URL in a post: facet links first, then
// embed externals (including ones nested in composite embeds), then bare
// URLs from the text body. The result is deduplicated preserving the first
// occurrence of each URL. Pure function of its input.
func ExtractURLs(p Post) []string {
	var urls []string

	for _, facet := range p.Record.Facets {
		for _, feature := range facet.Features {
			if feature.URI != "" {
				urls = append(urls, feature.URI)
			}
		}
	}

	urls = append(urls, embedURLs(p.Record.Embed)...)

	for _, match := range urlPattern.FindAllString(p.Record.Text, -1) {
		urls = append(urls, strings.TrimRight(match, trailingJunk))
	}

	return dedupe(urls)
}

func embedURLs(e *Embed) []string {
	if e == nil {
		return nil
	}
	var urls []string
	if e.External != nil && e.External.URI != "" {
		urls = append(urls, e.External.URI)
	}
	urls = append(urls, embedURLs(e.Media)...)
	return urls
}

func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	var out []string
	for _, u := range urls {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
