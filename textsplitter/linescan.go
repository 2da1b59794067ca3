package textsplitter

import (
	"sort"
	"strings"
)

// lineScanHeaderSplitter is the dependency-free markdown backend: a scan over
// raw lines, matching configured markers at the start of a line and skipping
// fenced code blocks. It does not attempt full markdown fidelity (indented
// code blocks and nested fences are not understood), which is acceptable for
// the degraded path.
type lineScanHeaderSplitter struct{}

// NewLineScanHeaderSplitter creates the fallback markdown backend.
func NewLineScanHeaderSplitter() HeaderSplitter {
	return &lineScanHeaderSplitter{}
}

func (l *lineScanHeaderSplitter) Split(text string, specs []HeaderSpec, stripHeaders bool) ([]Chunk, error) {
	lines := strings.Split(text, "\n")

	// Longest marker first so "##" is not claimed by "#".
	order := make([]int, len(specs))
	for i := range specs {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return len(specs[order[a]].Marker) > len(specs[order[b]].Marker)
	})

	var marks []headerMark
	inFence := false
	var fenceChar byte

	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")

		if inFence {
			if len(trimmed) >= 3 && trimmed[0] == fenceChar && strings.HasPrefix(trimmed, strings.Repeat(string(fenceChar), 3)) {
				inFence = false
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = true
			fenceChar = trimmed[0]
			continue
		}

		for _, idx := range order {
			marker := specs[idx].Marker
			if line != marker && !strings.HasPrefix(line, marker+" ") {
				continue
			}
			title := strings.TrimSpace(strings.TrimPrefix(line, marker))
			title = atxClosing.ReplaceAllString(title, "")
			marks = append(marks, headerMark{specIndex: idx, title: title, line: i})
			break
		}
	}

	return assembleSections(lines, marks, specs, stripHeaders), nil
}
