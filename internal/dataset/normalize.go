package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yogeshc/csv2rds/internal/errs"
)

// labelReplacer rewrites the characters that are unsafe in database
// identifiers. Spaces, hyphens and dots all become underscores.
var labelReplacer = strings.NewReplacer(" ", "_", "-", "_", ".", "_")

// NormalizeColumns maps raw header labels to database-safe column
// names: trimmed, lowercased, with spaces, hyphens and dots replaced by
// underscores. The mapping is positional and order-preserving, and it
// is idempotent: normalizing an already-normalized label is a no-op.
func NormalizeColumns(labels []string) []string {
	out := make([]string, len(labels))
	for i, label := range labels {
		out[i] = labelReplacer.Replace(strings.ToLower(strings.TrimSpace(label)))
	}
	return out
}

// CheckColumnCollisions reports a validation error when two distinct
// source labels normalized to the same column name. Loading such a
// dataset would silently overwrite one column with the other.
func CheckColumnCollisions(normalized []string) error {
	seen := make(map[string]int, len(normalized))
	var dups []string
	for _, name := range normalized {
		seen[name]++
		if seen[name] == 2 {
			dups = append(dups, name)
		}
	}
	if len(dups) == 0 {
		return nil
	}
	sort.Strings(dups)
	return errs.Validation("column names collide after normalization: %s",
		strings.Join(quoteAll(dups), ", "))
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = fmt.Sprintf("%q", n)
	}
	return out
}
