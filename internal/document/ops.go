package document

import "github.com/promptml/promptml/internal/markup"

// The editing operations below never mutate their input slice; every
// call returns a fresh sequence so callers can keep the previous state
// (undo, optimistic UI) without copying themselves.

// Move relocates the block at from so it ends up at index to in the
// returned sequence. Both indices are clamped into range; a move on an
// empty list is a no-op copy.
func Move(blocks []markup.Block, from, to int) []markup.Block {
	out := clone(blocks)
	if len(out) == 0 {
		return out
	}
	from = clampIndex(from, len(out)-1)
	to = clampIndex(to, len(out)-1)
	if from == to {
		return out
	}

	b := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]markup.Block{b}, out[to:]...)...)
	return out
}

// Insert places b at index at; at is clamped to [0, len].
func Insert(blocks []markup.Block, at int, b markup.Block) []markup.Block {
	at = clampIndex(at, len(blocks))
	out := make([]markup.Block, 0, len(blocks)+1)
	out = append(out, blocks[:at]...)
	out = append(out, b)
	out = append(out, blocks[at:]...)
	return out
}

// Remove drops the block at index at. An out-of-range index leaves the
// sequence unchanged (still returned as a fresh copy).
func Remove(blocks []markup.Block, at int) []markup.Block {
	if at < 0 || at >= len(blocks) {
		return clone(blocks)
	}
	out := make([]markup.Block, 0, len(blocks)-1)
	out = append(out, blocks[:at]...)
	out = append(out, blocks[at+1:]...)
	return out
}

// Replace swaps the block at index at for b. An out-of-range index
// leaves the sequence unchanged.
func Replace(blocks []markup.Block, at int, b markup.Block) []markup.Block {
	out := clone(blocks)
	if at >= 0 && at < len(out) {
		out[at] = b
	}
	return out
}

func clone(blocks []markup.Block) []markup.Block {
	out := make([]markup.Block, len(blocks))
	copy(out, blocks)
	return out
}

func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}
