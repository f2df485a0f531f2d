// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import "strings"

// Translation holds the translated fields for one paper. Fields the
// response did not cover keep their original values.
type Translation struct {
	Title    string
	Abstract string

	// Keywords are positionally aligned with the original keyword list
	// when the model honored the requested count.
	Keywords []string
}

// Field markers the model is instructed to emit, one per line.
const (
	markerTitle    = "TITLE:"
	markerAbstract = "ABSTRACT:"
	markerKeywords = "KEYWORDS:"
)

// activeField tracks which field is currently accumulating lines.
type activeField int

const (
	fieldNone activeField = iota
	fieldTitle
	fieldAbstract
)

// ParseResponse runs a line-oriented state machine over the model's
// free-form reply. A marker line flushes the previously accumulated field
// and starts a new one with the remainder of that line; non-marker lines
// append to the active field, which lets titles and abstracts span
// multiple lines. The keywords marker is terminal: its line is split on
// commas immediately and never accumulates. Lines outside any field are
// discarded. Fields never seen keep their values from orig, so a reply
// with no markers at all leaves the paper untranslated.
func ParseResponse(text string, orig Translation) Translation {
	result := orig

	field := fieldNone
	var buf []string

	flush := func() {
		if field == fieldNone || buf == nil {
			return
		}
		joined := strings.TrimSpace(strings.Join(buf, "\n"))
		switch field {
		case fieldTitle:
			result.Title = joined
		case fieldAbstract:
			result.Abstract = joined
		}
	}

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		switch {
		case strings.HasPrefix(line, markerTitle):
			flush()
			field = fieldTitle
			buf = []string{strings.TrimSpace(line[len(markerTitle):])}

		case strings.HasPrefix(line, markerAbstract):
			flush()
			field = fieldAbstract
			buf = []string{strings.TrimSpace(line[len(markerAbstract):])}

		case strings.HasPrefix(line, markerKeywords):
			flush()
			result.Keywords = splitKeywords(line[len(markerKeywords):])
			field = fieldNone
			buf = nil

		default:
			if field != fieldNone {
				buf = append(buf, line)
			}
		}
	}

	flush()
	return result
}

// splitKeywords parses a comma-delimited keyword line, trimming
// whitespace and discarding empty segments.
func splitKeywords(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if kw := strings.TrimSpace(part); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
