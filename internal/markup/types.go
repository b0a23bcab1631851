// Package markup implements the block/markup transformation engine:
// serializing an ordered list of tagged text blocks to indented
// XML-like text, and parsing such text (well-formed or not) back into
// a flat block list. Both directions are pure functions over their
// arguments; the package holds no state between calls.
package markup

// Attr is a single name/value attribute of a block. Attribute order is
// insertion order and survives a serialize/parse round trip. Names are
// not required to be unique within a block.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Block is one flat unit of a prompt document: a tag name, free-form
// text content and an ordered attribute list. Blocks never nest.
type Block struct {
	Tag     string `json:"tag"`
	Content string `json:"content"`
	Attrs   []Attr `json:"attributes,omitempty"`
}

// Result is the outcome of a successful Parse call.
type Result struct {
	Blocks []Block `json:"blocks"`

	// RootTag is the tag name of the input's root element. It is set
	// only when the input parsed directly (no fallback wrapper) and
	// the root had element children; the primary flow flattens blocks
	// and does not consume it, but it is part of the parse contract.
	RootTag string `json:"root_tag,omitempty"`

	// UsedFallbackWrapper reports that the input only parsed after
	// being wrapped in a synthetic root element.
	UsedFallbackWrapper bool `json:"used_fallback_wrapper"`
}
