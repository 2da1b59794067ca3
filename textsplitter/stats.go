package textsplitter

import "unicode/utf8"

// Stats summarizes a produced chunk sequence. Lengths are measured in
// characters (runes), matching the character splitter's size accounting.
type Stats struct {
	Count      int     `json:"count"`
	TotalChars int     `json:"total_chars"`
	AvgLength  float64 `json:"avg_length"`
	MinLength  int     `json:"min_length"`
	MaxLength  int     `json:"max_length"`
}

// ComputeStats derives summary statistics for a chunk sequence. An empty
// input yields a zero-filled Stats rather than an error; zero (not NaN or a
// sentinel) is the documented convention for the numeric fields.
func ComputeStats(chunks []string) Stats {
	if len(chunks) == 0 {
		return Stats{}
	}

	stats := Stats{Count: len(chunks)}
	stats.MinLength = utf8.RuneCountInString(chunks[0])

	for _, chunk := range chunks {
		length := utf8.RuneCountInString(chunk)
		stats.TotalChars += length
		if length < stats.MinLength {
			stats.MinLength = length
		}
		if length > stats.MaxLength {
			stats.MaxLength = length
		}
	}

	stats.AvgLength = float64(stats.TotalChars) / float64(stats.Count)
	return stats
}
