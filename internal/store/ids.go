package store

import (
	"strings"

	"github.com/google/uuid"
)

// newID returns prefix-<12 hex chars> taken from a random UUID.
func newID(prefix string) string {
	u := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + u[:12]
}

// IsRowID reports whether s looks like a row id.
func IsRowID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "row-") && len(s) > len("row-")
}
