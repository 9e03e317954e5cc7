// Package tags aggregates tag usage across resources.
package tags

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// TagFrequency counts how often a tag appears across all resources.
type TagFrequency struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// CategoryTagFrequency counts tag usage within a resource category.
type CategoryTagFrequency struct {
	Category string `json:"category"`
	Tag      string `json:"tag"`
	Count    int    `json:"count"`
}

var tagCaser = cases.Fold()

// NormalizeTag canonicalises user-entered tag names so "SQL", "sql" and a
// decomposed "são-paulo" count as one tag.
func NormalizeTag(tag string) string {
	return tagCaser.String(norm.NFC.String(strings.TrimSpace(tag)))
}
