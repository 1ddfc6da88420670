package loader

import (
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"decaf/internal/source"
)

// spanOf maps a node position onto the file. YAML columns count runes, so
// the column is walked over the line's bytes.
func spanOf(file *source.File, node *yaml.Node) source.Span {
	if file == nil || node == nil || node.Line <= 0 {
		return source.Span{}
	}
	start := file.Offset(source.LineCol{Line: uint32(node.Line), Col: 1}) // #nosec G115 -- yaml lines are positive
	for col := 1; col < node.Column && int(start) < len(file.Content); col++ {
		if file.Content[start] == '\n' {
			break
		}
		_, size := utf8.DecodeRune(file.Content[start:])
		start += uint32(size) // #nosec G115 -- rune size is at most 4
	}
	end := start
	if node.Kind == yaml.ScalarNode {
		end = start + uint32(len(node.Value)) // #nosec G115 -- bounded by file size below
		if node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
			end += 2
		}
	}
	if limit := uint32(len(file.Content)); end > limit { // #nosec G115 -- checked when the file was added
		end = limit
	}
	return source.Span{File: file.ID, Start: start, End: end}
}
