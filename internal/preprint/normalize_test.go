package preprint

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNormalize_PreferredMirrorNeedsNoProbe(t *testing.T) {
	// No Client at all: a preferred-mirror URL must resolve without
	// touching the network.
	n := NewNormalizer(nil)

	cases := []struct {
		raw  string
		want CanonicalID
	}{
		{"https://psyarxiv.com/abcd1", "psyarxiv:abcd1"},
		{"https://psyarxiv.com/abcd1/", "psyarxiv:abcd1"},
		{"https://www.psyarxiv.com/ABCD1", "psyarxiv:abcd1"},
		{"https://PSYARXIV.COM/abcd1", "psyarxiv:abcd1"},
	}
	for _, tc := range cases {
		got, ok := n.Normalize(tc.raw)
		if !ok || got != tc.want {
			t.Errorf("Normalize(%q) = %q, %v; want %q, true", tc.raw, got, ok, tc.want)
		}
	}
}

func TestNormalize_RejectsUnrelatedURLs(t *testing.T) {
	n := NewNormalizer(nil)

	for _, raw := range []string{
		"https://example.com/abcd1",
		"https://psyarxiv.com/",
		"https://osf.io/preprints/",
		"https://psyarxiv.com/this-is-not-a-slug",
		"not a url",
		"",
	} {
		if id, ok := n.Normalize(raw); ok {
			t.Errorf("Normalize(%q) = %q, want rejection", raw, id)
		}
	}
}

func TestNormalize_SecondaryPromotedWhenPreferredReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/abcd1/" {
			t.Errorf("probe hit %q, want /abcd1/", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := &Normalizer{
		PreferredBase: srv.URL,
		SecondaryBase: "https://osf.io",
		Client:        srv.Client(),
	}

	got, ok := n.Normalize("https://osf.io/abcd1")
	if !ok || got != "psyarxiv:abcd1" {
		t.Errorf("Normalize = %q, %v; want psyarxiv:abcd1 after reachable probe", got, ok)
	}
}

func TestNormalize_SecondaryKeptWhenPreferredUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	n := &Normalizer{
		PreferredBase: srv.URL,
		SecondaryBase: "https://osf.io",
		Client:        srv.Client(),
	}

	got, ok := n.Normalize("https://osf.io/xyz99")
	if !ok || got != "osf:xyz99" {
		t.Errorf("Normalize = %q, %v; want osf:xyz99 after 404 probe", got, ok)
	}
}

func TestNormalize_SecondaryKeptWhenProbeFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	n := &Normalizer{
		PreferredBase: srv.URL,
		SecondaryBase: "https://osf.io",
		Client:        &http.Client{Timeout: time.Second},
	}

	got, ok := n.Normalize("https://osf.io/xyz99")
	if !ok || got != "osf:xyz99" {
		t.Errorf("Normalize = %q, %v; want osf:xyz99 when probe errors", got, ok)
	}
}

func TestNormalize_SecondaryPreprintRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := &Normalizer{
		PreferredBase: srv.URL,
		SecondaryBase: "https://osf.io",
		Client:        srv.Client(),
	}

	got, ok := n.Normalize("https://osf.io/preprints/psyarxiv/abcd1")
	if !ok || got != "psyarxiv:abcd1" {
		t.Errorf("Normalize(preprint route) = %q, %v; want psyarxiv:abcd1", got, ok)
	}
}

func TestPageURL(t *testing.T) {
	n := NewNormalizer(nil)

	cases := []struct {
		id   CanonicalID
		want string
	}{
		{"psyarxiv:abcd1", "https://psyarxiv.com/abcd1/"},
		{"osf:xyz99", "https://osf.io/xyz99/"},
	}
	for _, tc := range cases {
		if got := n.PageURL(tc.id); got != tc.want {
			t.Errorf("PageURL(%q) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestSlug(t *testing.T) {
	if got := CanonicalID("psyarxiv:abcd1").Slug(); got != "abcd1" {
		t.Errorf("Slug = %q, want abcd1", got)
	}
}
