package markup

import (
	"strings"
)

// DefaultIndentWidth is the indent width used when Options does not
// override it.
const DefaultIndentWidth = 2

// MaxIndentWidth is the largest accepted indent width; wider requests
// are clamped, not rejected.
const MaxIndentWidth = 8

// Options controls serialization.
type Options struct {
	// IndentWidth is the number of spaces per nesting level. Values
	// outside [0, MaxIndentWidth] are clamped silently.
	IndentWidth int
}

// ClampIndentWidth normalizes w into the supported [0, MaxIndentWidth]
// range.
func ClampIndentWidth(w int) int {
	if w < 0 {
		return 0
	}
	if w > MaxIndentWidth {
		return MaxIndentWidth
	}
	return w
}

// Serialize renders blocks as indented markup text. Every block is a
// top-level element; blocks are joined by newlines with no trailing
// newline. Serialize never fails: an empty list yields an empty
// string, and an empty tag is emitted literally as <>...</> (tag
// validation belongs to the caller).
func Serialize(blocks []Block, opts Options) string {
	width := ClampIndentWidth(opts.IndentWidth)

	var out strings.Builder
	for i, b := range blocks {
		if i > 0 {
			out.WriteByte('\n')
		}
		writeBlock(&out, b, 0, width)
	}
	return out.String()
}

// writeBlock emits one block at the given nesting level. The current
// data model only ever passes level 0; the parameter keeps the
// emission logic ready for nested blocks.
func writeBlock(out *strings.Builder, b Block, level, width int) {
	indent := strings.Repeat(" ", level*width)
	inner := strings.Repeat(" ", (level+1)*width)

	out.WriteString(indent)
	out.WriteByte('<')
	out.WriteString(b.Tag)
	if frag := attrFragment(b.Attrs); frag != "" {
		out.WriteByte(' ')
		out.WriteString(frag)
	}
	out.WriteByte('>')

	// Emptiness is judged on the trimmed content, but the emitted
	// lines keep the original segment whitespace.
	if strings.TrimSpace(b.Content) != "" {
		for _, line := range strings.Split(b.Content, "\n") {
			out.WriteByte('\n')
			out.WriteString(inner)
			out.WriteString(EscapeContent(line))
		}
	}

	out.WriteByte('\n')
	out.WriteString(indent)
	out.WriteString("</")
	out.WriteString(b.Tag)
	out.WriteByte('>')
}

// attrFragment renders the attribute list of a block, dropping
// attributes whose trimmed name is empty and preserving the order of
// the rest.
func attrFragment(attrs []Attr) string {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if strings.TrimSpace(a.Name) == "" {
			continue
		}
		parts = append(parts, a.Name+`="`+EscapeAttribute(a.Value)+`"`)
	}
	return strings.Join(parts, " ")
}
