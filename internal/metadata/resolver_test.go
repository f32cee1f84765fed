package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/psyarxivbot/psyfeed/internal/preprint"
)

func testEntry(id preprint.CanonicalID) preprint.Entry {
	return preprint.Entry{
		ID:        id,
		SeenAt:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		PostText:  "Great new preprint! https://psyarxiv.com/" + id.Slug(),
		SourceURL: "https://psyarxiv.com/" + id.Slug(),
	}
}

func TestResolve_APISuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/abcd1/" {
			t.Errorf("API hit %q, want /abcd1/", r.URL.Path)
		}
		if r.URL.Query().Get("include") != "contributors" {
			t.Errorf("missing include=contributors in %q", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{
			"data": {"attributes": {"title": "Attention and Memory in Adults"}},
			"included": [
				{"attributes": {"full_name": "Jane Smith"}},
				{"attributes": {"full_name": "Taro Yamada"}}
			]
		}`)
	}))
	defer srv.Close()

	r := &Resolver{APIBase: srv.URL, Order: []string{SourceAPI}, Client: srv.Client()}
	meta := r.Resolve(context.Background(), testEntry("psyarxiv:abcd1"))

	if meta.Title != "Attention and Memory in Adults" {
		t.Errorf("Title = %q", meta.Title)
	}
	if len(meta.Authors) != 2 || meta.Authors[0] != "Jane Smith" || meta.Authors[1] != "Taro Yamada" {
		t.Errorf("Authors = %v", meta.Authors)
	}
}

func TestResolve_APIFailureFallsThroughToScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/page/abcd1/" {
			fmt.Fprint(w, `<html><head>
				<meta property="og:title" content="OSF">
			</head><body><h1>Real Paper Title</h1></body></html>`)
			return
		}
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r := &Resolver{
		APIBase: srv.URL + "/api",
		Order:   []string{SourceAPI, SourceScrape},
		Client:  srv.Client(),
		PageURL: func(id preprint.CanonicalID) string { return srv.URL + "/page/" + id.Slug() + "/" },
	}
	meta := r.Resolve(context.Background(), testEntry("psyarxiv:abcd1"))

	// The og:title placeholder is generic and must lose to the h1.
	if meta.Title != "Real Paper Title" {
		t.Errorf("Title = %q, want scraped h1", meta.Title)
	}
}

func TestResolve_ScrapePrefersCitationTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head>
			<meta name="citation_title" content="Citation Wins">
			<meta property="og:title" content="OG Loses">
			<title>Page Title Loses</title>
		</head><body><h1>H1 Loses</h1></body></html>`)
	}))
	defer srv.Close()

	r := &Resolver{
		Order:   []string{SourceScrape},
		Client:  srv.Client(),
		PageURL: func(preprint.CanonicalID) string { return srv.URL },
	}
	meta := r.Resolve(context.Background(), testEntry("psyarxiv:abcd1"))

	if meta.Title != "Citation Wins" {
		t.Errorf("Title = %q, want citation_title", meta.Title)
	}
}

func TestResolve_PostFallback(t *testing.T) {
	r := &Resolver{Order: []string{SourcePost}}
	meta := r.Resolve(context.Background(), testEntry("psyarxiv:abcd1"))

	if meta.Title != "Great new preprint!" {
		t.Errorf("Title = %q, want post text with URL removed", meta.Title)
	}
}

func TestResolve_AllSourcesExhaustedUsesPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r := &Resolver{
		APIBase: srv.URL,
		Order:   []string{SourceAPI, SourceScrape},
		Client:  srv.Client(),
		PageURL: func(preprint.CanonicalID) string { return srv.URL },
	}
	meta := r.Resolve(context.Background(), testEntry("psyarxiv:abcd1"))

	if meta.Title != "Great new preprint!" {
		t.Errorf("Title = %q, want post fallback after exhausted sources", meta.Title)
	}
}

func TestTitleFromPost_URLOnlyPost(t *testing.T) {
	entry := preprint.Entry{
		ID:        "psyarxiv:abcd1",
		PostText:  "https://psyarxiv.com/abcd1",
		SourceURL: "https://psyarxiv.com/abcd1",
	}
	if got := titleFromPost(entry); got != "https://psyarxiv.com/abcd1" {
		t.Errorf("titleFromPost = %q, want the URL itself", got)
	}
}

func TestTitleFromPost_TrimsTrailingSeparators(t *testing.T) {
	entry := preprint.Entry{
		ID:        "psyarxiv:abcd1",
		PostText:  "新着論文：Memory and Sleep - https://psyarxiv.com/abcd1",
		SourceURL: "https://psyarxiv.com/abcd1",
	}
	if got := titleFromPost(entry); got != "新着論文：Memory and Sleep" {
		t.Errorf("titleFromPost = %q", got)
	}
}

func TestFormatAuthors(t *testing.T) {
	cases := []struct {
		names []string
		limit int
		want  string
	}{
		{nil, 3, ""},
		{[]string{"Jane Smith"}, 3, "Jane Smith"},
		{[]string{"A", "B", "C"}, 3, "A, B, C"},
		{[]string{"A", "B", "C", "D"}, 3, "A, B, C et al."},
		{[]string{"A", "A", "B"}, 3, "A, B"},
		{[]string{"", "  ", "A"}, 3, "A"},
		{[]string{"A", "B", "C", "D"}, 0, "A, B, C, D"},
	}
	for _, tc := range cases {
		if got := FormatAuthors(tc.names, tc.limit); got != tc.want {
			t.Errorf("FormatAuthors(%v, %d) = %q, want %q", tc.names, tc.limit, got, tc.want)
		}
	}
}
