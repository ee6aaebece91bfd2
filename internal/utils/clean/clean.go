package clean

import (
	"strings"
)

// Keywords splits a comma separated keyword list, trimming each entry and
// dropping blank ones.
func Keywords(raw string) []string {
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		keywords = append(keywords, part)
	}
	return keywords
}
