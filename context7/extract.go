package context7

import (
	"regexp"
	"strconv"
	"strings"
)

// The resolve response is human-readable text with one block per candidate
// library, separated by dashed lines. Fields are extracted positionally.
var (
	explicitIDPattern = regexp.MustCompile(`Context7-compatible library ID:\s*([/\w.-]+/[\w.-]+(?:/[\w.-]+)?)`)
	anyIDPattern      = regexp.MustCompile(`/[\w-]+/[\w.-]+(?:/[\w.-]+)?`)

	titlePattern       = regexp.MustCompile(`Title:\s*(.+)`)
	descriptionPattern = regexp.MustCompile(`(?s)Description:\s*(.+?)(?:\n-|\n\n|$)`)
	snippetsPattern    = regexp.MustCompile(`Code Snippets:\s*(\d+)`)
	reputationPattern  = regexp.MustCompile(`Source Reputation:\s*(\w+)`)
	scorePattern       = regexp.MustCompile(`Benchmark Score:\s*([\d.]+)`)
)

const sectionSeparator = "----------"

// extractLibraryID pulls the first library ID out of a resolve response,
// preferring the explicitly labelled form and falling back to the first
// /org/project-shaped token that is not the generic placeholder.
func extractLibraryID(text string) string {
	if m := explicitIDPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}

	for _, candidate := range anyIDPattern.FindAllString(text, -1) {
		if candidate != "/org/project" {
			return candidate
		}
	}
	return ""
}

// extractLibraryMetadata parses the metadata block belonging to libraryID.
// Fields that do not appear keep zero-ish defaults, matching a service that
// omits them for low-quality sources.
func extractLibraryMetadata(text, libraryID string) *Library {
	library := &Library{
		ID:         libraryID,
		Reputation: "Unknown",
	}

	var section string
	for _, candidate := range strings.Split(text, sectionSeparator) {
		if strings.Contains(candidate, libraryID) {
			section = candidate
			break
		}
	}
	if section == "" {
		// No dedicated block; derive a name from the ID path.
		parts := strings.Split(libraryID, "/")
		library.Name = parts[len(parts)-1]
		return library
	}

	if m := titlePattern.FindStringSubmatch(section); m != nil {
		library.Name = strings.TrimSpace(m[1])
	}
	if m := descriptionPattern.FindStringSubmatch(section); m != nil {
		library.Description = strings.TrimSpace(m[1])
	}
	if m := snippetsPattern.FindStringSubmatch(section); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			library.SnippetCount = n
		}
	}
	if m := reputationPattern.FindStringSubmatch(section); m != nil {
		library.Reputation = m[1]
	}
	if m := scorePattern.FindStringSubmatch(section); m != nil {
		if score, err := strconv.ParseFloat(m[1], 64); err == nil {
			library.BenchmarkScore = score
		}
	}

	return library
}
