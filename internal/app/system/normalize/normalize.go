// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email trims and lower-cases an address for lookup and storage.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace; case is preserved.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role trims and lower-cases a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a raw query value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Tags splits a comma-separated tag list, trims, lower-cases, and drops blanks and repeats.
func Tags(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	return TagList(strings.Split(csv, ","))
}

// TagList normalizes an already-split tag list the same way Tags does.
func TagList(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
