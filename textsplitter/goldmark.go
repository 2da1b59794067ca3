package textsplitter

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gtext "github.com/yuin/goldmark/text"
)

// optional ATX closing sequence, e.g. "## Title ##"
var atxClosing = regexp.MustCompile(`\s+#+\s*$`)

// goldmarkHeaderSplitter detects headers by parsing the document with
// goldmark, so anything the parser does not consider a heading (header-like
// lines inside fenced code blocks, indented code, link titles) is content.
// It only understands ATX '#' markers; other markers are reported as an
// error so the caller can degrade to the line scanner.
type goldmarkHeaderSplitter struct {
	md goldmark.Markdown
}

// NewGoldmarkHeaderSplitter creates the parser-backed markdown backend.
func NewGoldmarkHeaderSplitter() HeaderSplitter {
	return &goldmarkHeaderSplitter{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (g *goldmarkHeaderSplitter) Split(text string, specs []HeaderSpec, stripHeaders bool) ([]Chunk, error) {
	specByLevel := make(map[int]int, len(specs))
	for i, spec := range specs {
		if strings.Count(spec.Marker, "#") != len(spec.Marker) {
			return nil, fmt.Errorf("marker %q is not an ATX heading marker", spec.Marker)
		}
		specByLevel[len(spec.Marker)] = i
	}

	source := []byte(text)
	doc := g.md.Parser().Parse(gtext.NewReader(source))
	lines := strings.Split(text, "\n")

	var marks []headerMark
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		heading, ok := node.(*ast.Heading)
		if !ok || heading.Lines().Len() == 0 {
			continue
		}
		idx, ok := specByLevel[heading.Level]
		if !ok {
			continue
		}

		seg := heading.Lines().At(0)
		lineIdx := bytes.Count(source[:seg.Start], []byte("\n"))
		if lineIdx >= len(lines) {
			continue
		}

		// Setext headings carry a level but no marker line; only split on
		// headers that literally start with the configured marker.
		if !strings.HasPrefix(lines[lineIdx], specs[idx].Marker+" ") && lines[lineIdx] != specs[idx].Marker {
			continue
		}

		title := strings.TrimSpace(string(source[seg.Start:seg.Stop]))
		title = atxClosing.ReplaceAllString(title, "")

		marks = append(marks, headerMark{specIndex: idx, title: title, line: lineIdx})
	}

	return assembleSections(lines, marks, specs, stripHeaders), nil
}
