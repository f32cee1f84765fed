package metadata

import "strings"

// FormatAuthors renders a contributor list for display. Names are
// deduplicated preserving first occurrence; lists longer than limit are
// truncated with an "et al." marker.
func FormatAuthors(names []string, limit int) string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	if len(out) == 0 {
		return ""
	}
	if limit > 0 && len(out) > limit {
		return strings.Join(out[:limit], ", ") + " et al."
	}
	return strings.Join(out, ", ")
}
