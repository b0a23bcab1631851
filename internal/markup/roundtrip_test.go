package markup

import (
	"reflect"
	"testing"
)

func roundTripBlocks() []Block {
	return []Block{
		{Tag: "system", Content: "Be concise. Never apologize.", Attrs: []Attr{
			{Name: "role", Value: "assistant"},
			{Name: "tone", Value: `calm & "steady"`},
		}},
		{Tag: "task", Content: "Summarize the attached report."},
		{Tag: "constraints", Content: "", Attrs: []Attr{{Name: "max_words", Value: "100"}}},
		{Tag: "example", Content: "input: 4, output: four"},
	}
}

func TestRoundTripAcrossIndentWidths(t *testing.T) {
	blocks := roundTripBlocks()
	for k := 0; k <= MaxIndentWidth; k++ {
		text := Serialize(blocks, Options{IndentWidth: k})
		res, err := Parse(text)
		if err != nil {
			t.Fatalf("k=%d: Parse failed: %v\ninput:\n%s", k, err, text)
		}
		if len(res.Blocks) != len(blocks) {
			t.Fatalf("k=%d: got %d blocks, want %d", k, len(res.Blocks), len(blocks))
		}
		for i, want := range blocks {
			got := res.Blocks[i]
			if got.Tag != want.Tag {
				t.Errorf("k=%d block %d: tag %q, want %q", k, i, got.Tag, want.Tag)
			}
			if got.Content != want.Content {
				t.Errorf("k=%d block %d: content %q, want %q", k, i, got.Content, want.Content)
			}
			if !reflect.DeepEqual(got.Attrs, want.Attrs) && (len(got.Attrs) != 0 || len(want.Attrs) != 0) {
				t.Errorf("k=%d block %d: attrs %+v, want %+v", k, i, got.Attrs, want.Attrs)
			}
		}
	}
}

func TestRoundTripMultilineContentAtZeroIndent(t *testing.T) {
	// Interior lines of multiline content are emitted with the indent
	// prefix and the parse trim only strips the ends, so the exact
	// round trip of multiline content holds at indent width 0.
	blocks := []Block{{Tag: "rules", Content: "one\ntwo\nthree"}}
	res, err := Parse(Serialize(blocks, Options{IndentWidth: 0}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.Blocks[0].Content != "one\ntwo\nthree" {
		t.Errorf("content = %q", res.Blocks[0].Content)
	}
}

func TestRoundTripMultilineContentKeepsInteriorIndent(t *testing.T) {
	blocks := []Block{{Tag: "rules", Content: "one\ntwo"}}
	res, err := Parse(Serialize(blocks, Options{IndentWidth: 2}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.Blocks[0].Content != "one\n  two" {
		t.Errorf("content = %q, want interior indent preserved", res.Blocks[0].Content)
	}
}

func TestRoundTripDropsBlankAttributeNames(t *testing.T) {
	blocks := []Block{{Tag: "x", Content: "c", Attrs: []Attr{
		{Name: " ", Value: "gone"},
		{Name: "kept", Value: "v"},
	}}}
	res, err := Parse(Serialize(blocks, Options{IndentWidth: 2}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []Attr{{Name: "kept", Value: "v"}}
	if !reflect.DeepEqual(res.Blocks[0].Attrs, want) {
		t.Errorf("attrs = %+v, want %+v", res.Blocks[0].Attrs, want)
	}
}

func TestReserializationIsStable(t *testing.T) {
	// Content with no leading/trailing whitespace survives the parse
	// trim, so a second round trip is byte-identical.
	blocks := roundTripBlocks()
	opts := Options{IndentWidth: 2}

	first := Serialize(blocks, opts)
	res, err := Parse(first)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	second := Serialize(res.Blocks, opts)
	if second != first {
		t.Fatalf("re-serialization drifted:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestRoundTripSingleBlockUsesDirectParse(t *testing.T) {
	// One serialized block is a valid single-root document, so the
	// parser takes the direct path; more than one needs the wrapper.
	one := Serialize(roundTripBlocks()[:1], Options{IndentWidth: 2})
	res, err := Parse(one)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.UsedFallbackWrapper {
		t.Error("single serialized block should parse directly")
	}

	many := Serialize(roundTripBlocks(), Options{IndentWidth: 2})
	res, err = Parse(many)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !res.UsedFallbackWrapper {
		t.Error("sibling serialized blocks should need the wrapper")
	}
}
