// Package grouper partitions filenames by the first rule whose prefix
// matches.
package grouper

import (
	"strings"

	"github.com/spachava753/check-load-module/internal/models"
)

// Match returns the index of the first rule whose prefix is a prefix of
// filename, or -1.
func Match(rules []models.Rule, filename string) int {
	for i, rule := range rules {
		if strings.HasPrefix(filename, rule.Prefix) {
			return i
		}
	}
	return -1
}

// Partition buckets filenames by matching rule. Groups are ordered by the
// first file routed to them and keep input order within a group. Files no
// rule matches are returned in skipped.
func Partition(rules []models.Rule, filenames []string) (groups []models.Group, skipped []string) {
	byRule := make(map[int]int) // rule index -> position in groups

	for _, filename := range filenames {
		idx := Match(rules, filename)
		if idx < 0 {
			skipped = append(skipped, filename)
			continue
		}

		pos, ok := byRule[idx]
		if !ok {
			pos = len(groups)
			byRule[idx] = pos
			groups = append(groups, models.Group{Rule: rules[idx]})
		}
		groups[pos].Filenames = append(groups[pos].Filenames, filename)
	}

	return groups, skipped
}
