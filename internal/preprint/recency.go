package preprint

import (
	"sort"
	"time"
)

// Observation is one mention of a preprint in one post.
type Observation struct {
	ID        CanonicalID
	SeenAt    time.Time
	PostText  string
	SourceURL string // the raw URL that matched in the post
}

// Entry is the surviving record for one canonical identity.
type Entry struct {
	ID        CanonicalID
	SeenAt    time.Time
	PostText  string
	SourceURL string
}

// RecencyIndex maps each canonical identity to its most recent mention.
// Built fresh each run; nothing is persisted.
type RecencyIndex map[CanonicalID]Entry

// Reduce folds observations into a recency index. A later observation
// replaces an existing entry only when its timestamp is strictly greater,
// so ties keep the first-seen mention and repeated runs over the same input
// are deterministic.
func Reduce(observations []Observation) RecencyIndex {
	idx := make(RecencyIndex, len(observations))
	for _, obs := range observations {
		if cur, ok := idx[obs.ID]; ok && !obs.SeenAt.After(cur.SeenAt) {
			continue
		}
		idx[obs.ID] = Entry{
			ID:        obs.ID,
			SeenAt:    obs.SeenAt,
			PostText:  obs.PostText,
			SourceURL: obs.SourceURL,
		}
	}
	return idx
}

// Top returns at most n entries ordered by timestamp descending. Equal
// timestamps fall back to lexical canonical-id order.
func (idx RecencyIndex) Top(n int) []Entry {
	entries := make([]Entry, 0, len(idx))
	for _, e := range idx {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].SeenAt.Equal(entries[j].SeenAt) {
			return entries[i].SeenAt.After(entries[j].SeenAt)
		}
		return entries[i].ID < entries[j].ID
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
