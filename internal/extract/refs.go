package extract

import (
	"regexp"
	"sort"
	"strings"
)

const extendedSuffix = " (Extended)"

var (
	// "Idea B", "Idea E.1", "Idea L2", "Idea RS", "Idea C (Extended)"
	referencePattern = regexp.MustCompile(`\bIdea\s+([A-Z]{1,2}[0-9]*(?:\.[0-9]+)?)\b(\s*\(Extended\))?`)

	// "Idea A — Title", "idea e.1 - Title", "Idea L2 – Title"
	titlePrefixPattern = regexp.MustCompile(`(?i)^Idea\s+[A-Z0-9.]+\s*[—–-]+\s*`)
)

// References returns every idea ID mentioned in text, in order of appearance, deduplicated
func References(text string) []string {
	var refs []string
	seen := make(map[string]bool)

	for _, m := range referencePattern.FindAllStringSubmatch(text, -1) {
		ref := m[1]
		if m[2] != "" {
			ref += extendedSuffix
		}
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}

	return refs
}

// RelatedIDs returns the sorted set of IDs referenced by a document, excluding selfID
func RelatedIDs(selfID, content string) []string {
	var related []string
	for _, ref := range References(content) {
		if ref != selfID {
			related = append(related, ref)
		}
	}
	sort.Strings(related)
	return related
}

// CleanTitle strips leading "Idea <ID> —" prefixes.
// The result is a fixed point: CleanTitle(CleanTitle(s)) == CleanTitle(s).
// A prefix whose removal would leave nothing is kept.
func CleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	for {
		loc := titlePrefixPattern.FindStringIndex(title)
		if loc == nil {
			return title
		}
		next := strings.TrimSpace(title[loc[1]:])
		if next == "" {
			return title
		}
		title = next
	}
}
