package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/psyarxivbot/psyfeed/internal/logger"
	"github.com/psyarxivbot/psyfeed/internal/preprint"
)

// Source names accepted in the configurable resolution order.
const (
	SourceAPI    = "api"
	SourceScrape = "scrape"
	SourcePost   = "post"
)

// Meta is the resolved description of one preprint.
type Meta struct {
	Title   string
	Authors []string
}

// Resolver fetches a preprint's English title, trying each configured
// source in order. Failures of individual sources degrade to the next one;
// the final post-text fallback always yields some title.
type Resolver struct {
	APIBase string // JSON:API base, e.g. https://api.osf.io/v2/preprints
	Order   []string
	Client  *http.Client
	PageURL func(preprint.CanonicalID) string
}

func (r *Resolver) Resolve(ctx context.Context, entry preprint.Entry) Meta {
	for _, source := range r.Order {
		var meta Meta
		var err error
		switch source {
		case SourceAPI:
			meta, err = r.lookupAPI(ctx, entry.ID)
		case SourceScrape:
			meta, err = r.scrapePage(ctx, entry.ID)
		case SourcePost:
			meta = Meta{Title: titleFromPost(entry)}
		}
		if err != nil {
			logger.Debug("metadata source failed", "source", source, "id", string(entry.ID), "err", err)
			continue
		}
		if meta.Title != "" {
			return meta
		}
	}
	return Meta{Title: titleFromPost(entry)}
}

// apiResponse covers the JSON:API shape of the metadata service. Fields
// beyond title and contributor names are ignored; everything is optional.
type apiResponse struct {
	Data struct {
		Attributes struct {
			Title string `json:"title"`
		} `json:"attributes"`
	} `json:"data"`
	Included []struct {
		Attributes struct {
			FullName string `json:"full_name"`
		} `json:"attributes"`
	} `json:"included"`
}

func (r *Resolver) lookupAPI(ctx context.Context, id preprint.CanonicalID) (Meta, error) {
	u := r.APIBase + "/" + id.Slug() + "/?include=contributors"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Meta{}, err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return Meta{}, fmt.Errorf("metadata request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Meta{}, fmt.Errorf("metadata request returned status %d", resp.StatusCode)
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Meta{}, fmt.Errorf("decoding metadata response: %w", err)
	}

	meta := Meta{Title: strings.TrimSpace(decoded.Data.Attributes.Title)}
	for _, inc := range decoded.Included {
		if name := strings.TrimSpace(inc.Attributes.FullName); name != "" {
			meta.Authors = append(meta.Authors, name)
		}
	}
	return meta, nil
}

// genericTitles are placeholder values some pages put in meta tags; they
// must not win over a lower-priority tag carrying the real title.
var genericTitles = map[string]bool{
	"osf":                    true,
	"osf preprints":          true,
	"psyarxiv":               true,
	"psyarxiv preprints":     true,
	"open science framework": true,
}

func (r *Resolver) scrapePage(ctx context.Context, id preprint.CanonicalID) (Meta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.PageURL(id), nil)
	if err != nil {
		return Meta{}, err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return Meta{}, fmt.Errorf("page request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Meta{}, fmt.Errorf("page request returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Meta{}, fmt.Errorf("parsing page HTML: %w", err)
	}
	return Meta{Title: pickTitle(doc)}, nil
}

// pickTitle scans meta tags in priority order, rejecting generic
// placeholder values at every level.
func pickTitle(doc *goquery.Document) string {
	candidates := []func() string{
		func() string {
			v, _ := doc.Find(`meta[name="citation_title"]`).First().Attr("content")
			return v
		},
		func() string {
			v, _ := doc.Find(`meta[property="og:title"]`).First().Attr("content")
			return v
		},
		func() string { return doc.Find("h1").First().Text() },
		func() string { return doc.Find("title").First().Text() },
	}

	for _, candidate := range candidates {
		title := strings.TrimSpace(candidate())
		if title == "" || genericTitles[strings.ToLower(title)] {
			continue
		}
		return title
	}
	return ""
}

// titleFromPost derives a last-resort title from the originating post:
// strip the matched URL out of the text and trim trailing separators. When
// nothing remains the URL itself is the title.
func titleFromPost(entry preprint.Entry) string {
	text := entry.PostText
	if entry.SourceURL != "" {
		text = strings.ReplaceAll(text, entry.SourceURL, "")
	}
	text = strings.Join(strings.Fields(text), " ")
	text = strings.TrimRight(text, " -–—:：|・")
	text = strings.TrimSpace(text)
	if text == "" {
		if entry.SourceURL != "" {
			return entry.SourceURL
		}
		return string(entry.ID)
	}
	return text
}
