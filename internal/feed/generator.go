package feed

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// Entry is one output item. Created once per surviving preprint and never
// mutated afterwards.
type Entry struct {
	Title       string
	Link        string
	GUID        string
	PubDate     time.Time
	Description string
}

// NewEntry builds an item from resolved metadata. The title is bilingual
// when a distinct Japanese translation exists. The guid carries a language
// marker so readers treat the translated item as distinct from any upstream
// feed of the same link.
func NewEntry(jaTitle, enTitle, link string, pubDate time.Time, description string) Entry {
	title := enTitle
	if jaTitle != "" && jaTitle != enTitle {
		title = fmt.Sprintf("%s (%s)", jaTitle, enTitle)
	}
	return Entry{
		Title:       title,
		Link:        link,
		GUID:        link + "#ja",
		PubDate:     pubDate,
		Description: description,
	}
}

// PlaceholderEntries converts the configured placeholder pair into items
// dated at the given instant. These are emitted when the pipeline produced
// no real entries, so failure windows stay visible instead of silently
// shipping an empty feed.
func PlaceholderEntries(cfg ChannelConfig, now time.Time) []Entry {
	entries := make([]Entry, 0, len(cfg.Placeholders))
	for _, p := range cfg.Placeholders {
		entries = append(entries, Entry{
			Title:   p.Title,
			Link:    p.Link,
			GUID:    p.Link + "#ja",
			PubDate: now,
		})
	}
	return entries
}

// BuildRSS renders a complete RSS 2.0 document. An empty entry slice still
// yields a well-formed feed with an empty item list.
func BuildRSS(cfg ChannelConfig, entries []Entry) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<rss version=\"2.0\">\n")
	b.WriteString("<channel>\n")
	writeElement(&b, "title", cfg.Channel.Title, 2)
	writeElement(&b, "link", cfg.Channel.Link, 2)
	writeElement(&b, "description", cfg.Channel.Description, 2)
	writeElement(&b, "language", cfg.Channel.Language, 2)
	for _, e := range entries {
		writeItem(&b, e)
	}
	b.WriteString("</channel>\n</rss>\n")
	return b.String()
}

func writeItem(b *strings.Builder, e Entry) {
	b.WriteString("  <item>\n")
	writeElement(b, "title", e.Title, 4)
	writeElement(b, "link", e.Link, 4)
	fmt.Fprintf(b, "    <guid isPermaLink=\"false\">%s</guid>\n", html.EscapeString(e.GUID))
	writeElement(b, "pubDate", e.PubDate.UTC().Format(time.RFC1123Z), 4)
	if e.Description != "" {
		writeElement(b, "description", e.Description, 4)
	}
	b.WriteString("  </item>\n")
}

func writeElement(b *strings.Builder, tag, value string, indent int) {
	fmt.Fprintf(b, "%s<%s>%s</%s>\n", strings.Repeat(" ", indent), tag, html.EscapeString(value), tag)
}
