package bluesky

import "time"

// Types below mirror the subset of app.bsky.feed.getAuthorFeed responses the
// pipeline reads. Every field is optional: the upstream schema has changed
// shape before, so decoding must tolerate missing keys everywhere.

type FeedResponse struct {
	Feed   []FeedItem `json:"feed"`
	Cursor string     `json:"cursor"`
}

type FeedItem struct {
	Post Post `json:"post"`
}

type Post struct {
	Record Record `json:"record"`
}

type Record struct {
	Text      string  `json:"text"`
	CreatedAt string  `json:"createdAt"`
	Facets    []Facet `json:"facets"`
	Embed     *Embed  `json:"embed"`
}

// Facet is a structured annotation marking a link or mention in the post
// text.
type Facet struct {
	Features []Feature `json:"features"`
}

type Feature struct {
	Type string `json:"$type"`
	URI  string `json:"uri"`
}

// Embed covers both external link cards and recordWithMedia composites,
// which nest another embed under "media".
type Embed struct {
	External *External `json:"external"`
	Media    *Embed    `json:"media"`
}

type External struct {
	URI string `json:"uri"`
}

// CreatedAtTime parses the record timestamp, substituting the supplied
// instant when the field is missing or malformed so that comparisons within
// one run stay consistent.
func (r Record) CreatedAtTime(fallback time.Time) time.Time {
	if r.CreatedAt == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return fallback
	}
	return t
}
