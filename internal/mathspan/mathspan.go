// Package mathspan locates inline math markup embedded in plain text.
package mathspan

import "strings"

// Delimiter marks the start and end of an inline math span.
const Delimiter = "$"

// Span is a half-open byte range [Start, End) into the source text whose
// enclosed content (delimiters excluded) is math markup.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Latex string `json:"latex"`
}

// Find returns every delimited math span in text, non-overlapping and in
// left-to-right order. Content between the delimiters is not validated;
// a trailing unmatched delimiter yields no span.
func Find(text string) []Span {
	var spans []Span
	offset := 0
	for {
		rest := text[offset:]
		open := strings.Index(rest, Delimiter)
		if open < 0 {
			return spans
		}
		close := strings.Index(rest[open+len(Delimiter):], Delimiter)
		if close < 0 {
			return spans
		}

		start := offset + open
		end := start + len(Delimiter) + close + len(Delimiter)
		latex := text[start+len(Delimiter) : end-len(Delimiter)]
		// Empty spans ($$) carry no markup and are skipped.
		if latex != "" {
			spans = append(spans, Span{Start: start, End: end, Latex: latex})
		}
		offset = end
	}
}
