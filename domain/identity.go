// Package domain contains the core concepts of the messaging layer:
// channels, messages, media items and the canonical participant identity.
// No storage, network or UI logic should be added here.
package domain

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// KeySeparator joins the sorted participant identifiers into the usersKey
// stored alongside every channel and message. Identifiers containing the
// separator would break key equality, so callers are expected to use
// opaque user IDs (UUIDs, auth UIDs).
const KeySeparator = ","

// Canonicalize maps a set of participant identifiers to its canonical
// form: trimmed, blanks dropped, lexicographically sorted, deduplicated.
// The returned key is stable under any input ordering and is the value
// used for channel equality lookups.
func Canonicalize(users []string) (sorted []string, key string) {
	trimmed := lo.FilterMap(users, func(u string, _ int) (string, bool) {
		t := strings.TrimSpace(u)
		return t, t != ""
	})
	slices.Sort(trimmed)
	sorted = slices.Compact(trimmed)
	return sorted, strings.Join(sorted, KeySeparator)
}
