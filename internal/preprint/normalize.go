// Package preprint maps raw URLs to canonical preprint identities and
// reduces repeated mentions to the most recent one per identity.
package preprint

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// CanonicalID identifies one preprint independent of which mirror URL
// mentioned it. The string form is "<repo>:<slug>", e.g. "psyarxiv:abcd1".
type CanonicalID string

const (
	repoPreferred = "psyarxiv"
	repoSecondary = "osf"
)

func (id CanonicalID) Slug() string {
	_, slug, _ := strings.Cut(string(id), ":")
	return slug
}

// Reachability is the outcome of a best-effort mirror probe.
type Reachability int

const (
	Reachable Reachability = iota
	Unreachable
	// Indeterminate means the probe itself failed (network error). It is
	// treated exactly like Unreachable.
	Indeterminate
)

// Normalizer resolves raw URLs against the two preprint mirrors. The bases
// are exported so tests can point the probe at a local server.
type Normalizer struct {
	PreferredBase string // branded mirror, e.g. https://psyarxiv.com
	SecondaryBase string // repository origin, e.g. https://osf.io
	Client        *http.Client
}

func NewNormalizer(client *http.Client) *Normalizer {
	return &Normalizer{
		PreferredBase: "https://psyarxiv.com",
		SecondaryBase: "https://osf.io",
		Client:        client,
	}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]{3,12}$`)

// Normalize maps a raw URL to a canonical identity. The second return is
// false when the URL is unrelated to either mirror. A preferred-mirror URL
// resolves without a network call; a secondary-mirror URL triggers a probe
// of the preferred mirror and keeps the secondary form only when the probe
// does not succeed.
func (n *Normalizer) Normalize(raw string) (CanonicalID, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	slug := extractSlug(u.Path)
	if slug == "" {
		return "", false
	}

	switch host {
	case hostOf(n.PreferredBase):
		return CanonicalID(repoPreferred + ":" + slug), true
	case hostOf(n.SecondaryBase):
		if n.ProbePreferred(slug) == Reachable {
			return CanonicalID(repoPreferred + ":" + slug), true
		}
		return CanonicalID(repoSecondary + ":" + slug), true
	}
	return "", false
}

// PageURL returns the public page for a canonical identity.
func (n *Normalizer) PageURL(id CanonicalID) string {
	repo, slug, _ := strings.Cut(string(id), ":")
	if repo == repoSecondary {
		return n.SecondaryBase + "/" + slug + "/"
	}
	return n.PreferredBase + "/" + slug + "/"
}

// ProbePreferred checks whether the preferred mirror serves the slug. Probe
// failures never propagate: an unreachable mirror only means the secondary
// canonical form is kept.
func (n *Normalizer) ProbePreferred(slug string) Reachability {
	resp, err := n.Client.Get(n.PreferredBase + "/" + slug + "/")
	if err != nil {
		return Indeterminate
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Reachable
	}
	return Unreachable
}

// extractSlug pulls the identifier segment out of a mirror URL path,
// skipping the repository prefixes used by osf.io preprint routes
// (/preprints/psyarxiv/<slug>).
func extractSlug(path string) string {
	for _, seg := range strings.Split(path, "/") {
		seg = strings.ToLower(strings.TrimSpace(seg))
		switch seg {
		case "", "preprints", repoPreferred:
			continue
		}
		if slugPattern.MatchString(seg) {
			return seg
		}
		return ""
	}
	return ""
}

func hostOf(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
