package cfobrain

import (
	"fmt"
	"sort"
	"strings"

	"financial-query-pipeline/internal/model"
)

// dedupe drops recommendations whose signature repeats, keeping the first.
func dedupe(recs []model.Recommendation) []model.Recommendation {
	seen := make(map[string]bool, len(recs))
	out := recs[:0]
	for _, rec := range recs {
		sig := signature(rec)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, rec)
	}
	return out
}

// signature identifies a recommendation by type, category and its impact
// pairs in sorted order, so field ordering never affects identity.
func signature(rec model.Recommendation) string {
	keys := make([]string, 0, len(rec.Impact))
	for k := range rec.Impact {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(rec.Type)
	sb.WriteByte('|')
	sb.WriteString(rec.Category)
	for _, k := range keys {
		fmt.Fprintf(&sb, "|%s=%g", k, rec.Impact[k])
	}
	return sb.String()
}
