package snapshot

import (
	"strings"
)

// camelizeKeys rewrites snake_case object keys to camelCase throughout a decoded
// JSON value. Scraper output is snake_case while dashboard snapshots are camelCase;
// when both spellings appear in one object the camelCase value is kept.
func camelizeKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			ck := snakeToCamel(k)
			if ck != k {
				if _, exists := t[ck]; exists {
					continue
				}
			}
			out[ck] = camelizeKeys(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = camelizeKeys(t[i])
		}
		return t
	default:
		return v
	}
}

// snakeToCamel converts "source_platform" to "sourcePlatform". Keys without
// underscores are returned unchanged.
func snakeToCamel(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	upper := false
	for i, r := range s {
		if r == '_' {
			upper = i > 0
			continue
		}
		if upper && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		upper = false
		b.WriteRune(r)
	}
	return b.String()
}
