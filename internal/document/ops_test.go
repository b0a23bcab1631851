package document

import (
	"reflect"
	"testing"

	"github.com/promptml/promptml/internal/markup"
)

func tags(blocks []markup.Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Tag
	}
	return out
}

func sampleBlocks() []markup.Block {
	return []markup.Block{{Tag: "a"}, {Tag: "b"}, {Tag: "c"}, {Tag: "d"}}
}

func TestMove(t *testing.T) {
	cases := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"b", "c", "a", "d"}},
		{"backward", 3, 1, []string{"a", "d", "b", "c"}},
		{"same index", 2, 2, []string{"a", "b", "c", "d"}},
		{"from clamped", -5, 1, []string{"b", "a", "c", "d"}},
		{"to clamped", 1, 99, []string{"a", "c", "d", "b"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := sampleBlocks()
			got := Move(in, c.from, c.to)
			if !reflect.DeepEqual(tags(got), c.want) {
				t.Errorf("Move(%d, %d) = %v, want %v", c.from, c.to, tags(got), c.want)
			}
			if !reflect.DeepEqual(in, sampleBlocks()) {
				t.Error("Move mutated its input")
			}
		})
	}
}

func TestMoveEmpty(t *testing.T) {
	if got := Move(nil, 0, 1); len(got) != 0 {
		t.Errorf("Move(nil) = %v", got)
	}
}

func TestInsert(t *testing.T) {
	in := sampleBlocks()
	got := Insert(in, 2, markup.Block{Tag: "x"})
	want := []string{"a", "b", "x", "c", "d"}
	if !reflect.DeepEqual(tags(got), want) {
		t.Errorf("Insert = %v, want %v", tags(got), want)
	}
	if !reflect.DeepEqual(in, sampleBlocks()) {
		t.Error("Insert mutated its input")
	}

	head := Insert(sampleBlocks(), -1, markup.Block{Tag: "x"})
	if tags(head)[0] != "x" {
		t.Errorf("negative index should clamp to head: %v", tags(head))
	}
	tail := Insert(sampleBlocks(), 99, markup.Block{Tag: "x"})
	if tags(tail)[4] != "x" {
		t.Errorf("oversized index should clamp to tail: %v", tags(tail))
	}
}

func TestRemove(t *testing.T) {
	in := sampleBlocks()
	got := Remove(in, 1)
	want := []string{"a", "c", "d"}
	if !reflect.DeepEqual(tags(got), want) {
		t.Errorf("Remove = %v, want %v", tags(got), want)
	}
	if !reflect.DeepEqual(in, sampleBlocks()) {
		t.Error("Remove mutated its input")
	}

	same := Remove(sampleBlocks(), 99)
	if !reflect.DeepEqual(tags(same), []string{"a", "b", "c", "d"}) {
		t.Errorf("out-of-range Remove changed the list: %v", tags(same))
	}
}

func TestReplace(t *testing.T) {
	in := sampleBlocks()
	got := Replace(in, 2, markup.Block{Tag: "x"})
	if !reflect.DeepEqual(tags(got), []string{"a", "b", "x", "d"}) {
		t.Errorf("Replace = %v", tags(got))
	}
	if in[2].Tag != "c" {
		t.Error("Replace mutated its input")
	}

	same := Replace(sampleBlocks(), -1, markup.Block{Tag: "x"})
	if !reflect.DeepEqual(tags(same), []string{"a", "b", "c", "d"}) {
		t.Errorf("out-of-range Replace changed the list: %v", tags(same))
	}
}
