package markup

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// FallbackWrapperTag is the synthetic root element wrapped around input
// that does not parse as a single-root document. It leaks into the
// result only when the wrapped input has no element children at all
// (pure text), in which case the wrapper itself becomes the sole block.
const FallbackWrapperTag = "promptml-wrapper"

// parseAttempt identifies which strategy produced a parse tree.
type parseAttempt int

const (
	attemptDirect parseAttempt = iota
	attemptWrapped
	attemptFailed
)

// element is a minimal parse-tree node. Only what block extraction
// needs is kept: tag, ordered attributes, child elements and the text
// chunks interleaved with them.
type element struct {
	tag      string
	attrs    []Attr
	children []*element
	chunks   []string
}

// textContent concatenates the element's text, including descendant
// text, in document order.
func (e *element) textContent() string {
	var out strings.Builder
	e.appendText(&out)
	return out.String()
}

func (e *element) appendText(out *strings.Builder) {
	for _, c := range e.chunks {
		out.WriteString(c)
	}
	for _, child := range e.children {
		child.appendText(out)
	}
}

// Parse recovers a flat block list from raw markup text. It first
// attempts a strict single-root parse; if the text is a sequence of
// sibling elements (the shape Serialize produces) or otherwise lacks a
// single root, it retries with a synthetic wrapper element around the
// input. A failure after both attempts is reported as a non-nil error
// with an empty block list; Parse never panics on malformed input.
//
// Empty or whitespace-only input is not an error: it yields an empty
// Result.
func Parse(text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{Blocks: []Block{}}, nil
	}

	root, attempt, err := parseTree(text)
	if attempt == attemptFailed {
		return Result{Blocks: []Block{}}, err
	}

	res := Result{UsedFallbackWrapper: attempt == attemptWrapped}

	// A root with element children is a container: its children are
	// the blocks. A childless root is itself the sole block.
	if len(root.children) > 0 {
		res.Blocks = make([]Block, 0, len(root.children))
		for _, child := range root.children {
			res.Blocks = append(res.Blocks, blockFromElement(child))
		}
		if attempt == attemptDirect {
			res.RootTag = root.tag
		}
	} else {
		res.Blocks = []Block{blockFromElement(root)}
	}
	return res, nil
}

// parseTree runs the two-attempt strategy and reports which attempt
// succeeded. On attemptFailed the returned error comes from the
// fallback attempt, the last one made.
func parseTree(text string) (*element, parseAttempt, error) {
	if root, err := decodeDocument(text); err == nil {
		return root, attemptDirect, nil
	}

	wrapped := "<" + FallbackWrapperTag + ">" + text + "</" + FallbackWrapperTag + ">"
	root, err := decodeDocument(wrapped)
	if err != nil {
		return nil, attemptFailed, fmt.Errorf("parse markup: %w", err)
	}
	return root, attemptWrapped, nil
}

// decodeDocument parses text as a strict single-root XML document.
// Comments, processing instructions and directives are skipped.
// Anything other than whitespace outside the root element, a second
// top-level element included, is an error so that multi-sibling input
// is routed to the wrapper fallback.
func decodeDocument(text string) (*element, error) {
	dec := xml.NewDecoder(strings.NewReader(text))

	var root *element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil {
				return nil, fmt.Errorf("unexpected second root element <%s>", t.Name.Local)
			}
			el, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			root = el
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				return nil, fmt.Errorf("text outside of root element")
			}
		case xml.EndElement:
			return nil, fmt.Errorf("unexpected closing tag </%s>", t.Name.Local)
		default:
			// Comment, ProcInst, Directive: not part of the block
			// model, skipped.
		}
	}

	if root == nil {
		return nil, fmt.Errorf("no root element")
	}
	return root, nil
}

// decodeElement consumes tokens up to and including the matching end
// tag of start, building the subtree.
func decodeElement(dec *xml.Decoder, start xml.StartElement) (*element, error) {
	el := &element{tag: xmlName(start.Name)}
	for _, a := range start.Attr {
		el.attrs = append(el.attrs, Attr{Name: xmlName(a.Name), Value: a.Value})
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			el.children = append(el.children, child)
		case xml.EndElement:
			return el, nil
		case xml.CharData:
			el.chunks = append(el.chunks, string(t))
		default:
			// skipped, as in decodeDocument
		}
	}
}

// xmlName flattens a possibly prefixed XML name. Namespaces are not a
// supported feature; a prefix is kept as plain text so nothing is lost.
func xmlName(n xml.Name) string {
	if n.Space != "" {
		return n.Space + ":" + n.Local
	}
	return n.Local
}

// blockFromElement builds a Block from a parsed element: tag as
// parsed, attributes in document order, text content trimmed. Nested
// elements are flattened into the text content; the block model is
// strictly flat.
func blockFromElement(el *element) Block {
	b := Block{
		Tag:     el.tag,
		Content: strings.TrimSpace(el.textContent()),
	}
	if len(el.attrs) > 0 {
		b.Attrs = append(b.Attrs, el.attrs...)
	}
	return b
}
