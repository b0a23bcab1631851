package markup

import (
	"strings"
	"testing"
)

func TestSerializeSingleBlock(t *testing.T) {
	got := Serialize([]Block{{Tag: "system", Content: "Be terse."}}, Options{IndentWidth: 2})
	want := "<system>\n  Be terse.\n</system>"
	if got != want {
		t.Fatalf("Serialize = %q, want %q", got, want)
	}
}

func TestSerializeEmptyList(t *testing.T) {
	if got := Serialize(nil, Options{IndentWidth: 2}); got != "" {
		t.Fatalf("Serialize(nil) = %q, want empty", got)
	}
}

func TestSerializeEmptyContent(t *testing.T) {
	got := Serialize([]Block{{Tag: "task"}}, Options{IndentWidth: 2})
	want := "<task>\n</task>"
	if got != want {
		t.Fatalf("Serialize = %q, want %q", got, want)
	}
}

func TestSerializeWhitespaceOnlyContentTreatedAsEmpty(t *testing.T) {
	got := Serialize([]Block{{Tag: "task", Content: "  \n\t "}}, Options{IndentWidth: 2})
	want := "<task>\n</task>"
	if got != want {
		t.Fatalf("Serialize = %q, want %q", got, want)
	}
}

func TestSerializeMultilineContent(t *testing.T) {
	got := Serialize([]Block{{Tag: "rules", Content: "one\ntwo\n three"}}, Options{IndentWidth: 3})
	want := "<rules>\n   one\n   two\n    three\n</rules>"
	if got != want {
		t.Fatalf("Serialize = %q, want %q", got, want)
	}
}

func TestSerializeJoinsBlocksWithSingleNewline(t *testing.T) {
	blocks := []Block{
		{Tag: "a", Content: "1"},
		{Tag: "b", Content: "2"},
	}
	got := Serialize(blocks, Options{IndentWidth: 2})
	want := "<a>\n  1\n</a>\n<b>\n  2\n</b>"
	if got != want {
		t.Fatalf("Serialize = %q, want %q", got, want)
	}
	if strings.HasSuffix(got, "\n") {
		t.Fatal("output must not end with a newline")
	}
}

func TestSerializeAttributes(t *testing.T) {
	blocks := []Block{{
		Tag:     "context",
		Content: "body",
		Attrs: []Attr{
			{Name: "source", Value: "user"},
			{Name: "priority", Value: "high"},
		},
	}}
	got := Serialize(blocks, Options{IndentWidth: 2})
	want := "<context source=\"user\" priority=\"high\">\n  body\n</context>"
	if got != want {
		t.Fatalf("Serialize = %q, want %q", got, want)
	}
}

func TestSerializeDropsBlankAttributeNames(t *testing.T) {
	blocks := []Block{{
		Tag: "x",
		Attrs: []Attr{
			{Name: "", Value: "dropped"},
			{Name: "   ", Value: "also dropped"},
			{Name: "kept", Value: "v"},
		},
	}}
	got := Serialize(blocks, Options{IndentWidth: 0})
	want := "<x kept=\"v\">\n</x>"
	if got != want {
		t.Fatalf("Serialize = %q, want %q", got, want)
	}
}

func TestSerializeEscapingAsymmetry(t *testing.T) {
	blocks := []Block{{
		Tag:     "x",
		Content: "<b>",
		Attrs:   []Attr{{Name: "hint", Value: "<b>"}},
	}}
	got := Serialize(blocks, Options{IndentWidth: 2})
	if !strings.Contains(got, "hint=\"&lt;b&gt;\"") {
		t.Errorf("attribute value not escaped: %q", got)
	}
	if !strings.Contains(got, "\n  <b>\n") {
		t.Errorf("content angle brackets must stay verbatim: %q", got)
	}
}

func TestSerializeEscapesAmpersandInContent(t *testing.T) {
	got := Serialize([]Block{{Tag: "x", Content: "a & b"}}, Options{IndentWidth: 0})
	want := "<x>\na &amp; b\n</x>"
	if got != want {
		t.Fatalf("Serialize = %q, want %q", got, want)
	}
}

func TestSerializeEmptyTag(t *testing.T) {
	got := Serialize([]Block{{Tag: "", Content: "orphan"}}, Options{IndentWidth: 2})
	want := "<>\n  orphan\n</>"
	if got != want {
		t.Fatalf("Serialize = %q, want %q", got, want)
	}
}

func TestSerializeClampsIndentWidth(t *testing.T) {
	blocks := []Block{{Tag: "a", Content: "x"}}

	neg := Serialize(blocks, Options{IndentWidth: -3})
	zero := Serialize(blocks, Options{IndentWidth: 0})
	if neg != zero {
		t.Errorf("negative width: got %q, want %q", neg, zero)
	}

	huge := Serialize(blocks, Options{IndentWidth: 99})
	max := Serialize(blocks, Options{IndentWidth: MaxIndentWidth})
	if huge != max {
		t.Errorf("oversized width: got %q, want %q", huge, max)
	}
}

func TestSerializeDeterministic(t *testing.T) {
	blocks := []Block{
		{Tag: "a", Content: "x\ny", Attrs: []Attr{{Name: "k", Value: "v"}}},
		{Tag: "b"},
	}
	first := Serialize(blocks, Options{IndentWidth: 4})
	for i := 0; i < 5; i++ {
		if again := Serialize(blocks, Options{IndentWidth: 4}); again != first {
			t.Fatalf("run %d differs: %q vs %q", i, again, first)
		}
	}
}
