// Package position holds the source buffer and translates byte offsets into
// human-readable line/column positions.
//
// Line and column are both 1-indexed. Column counts BYTES since the last
// newline, not runes or grapheme clusters; the source is treated as opaque
// except where a regex pattern matches against it (see spec.md §1 and §6).
package position

import (
	"bytes"
	"sync"
)

// Position is a human-facing line/column pair.
type Position struct {
	Line int
	Col  int
}

// Code wraps a source buffer and lazily computes the offsets of its newline
// bytes so that byte positions can be translated to line/column pairs
// without rescanning the buffer on every lookup.
type Code struct {
	Value []byte

	once     sync.Once
	newlines []int // byte offset of every '\n' in Value, ascending
}

// New wraps src for position lookups. src is not copied.
func New(src []byte) *Code {
	return &Code{Value: src}
}

func (c *Code) index() []int {
	c.once.Do(func() {
		var offs []int
		start := 0
		for {
			i := bytes.IndexByte(c.Value[start:], '\n')
			if i < 0 {
				break
			}
			offs = append(offs, start+i)
			start = start + i + 1
		}
		c.newlines = offs
	})
	return c.newlines
}

// At translates a byte position into a 1-indexed (line, column) pair. A
// position at or past len(Value) is clamped to len(Value) for the purposes
// of the computation (callers typically pass an EOF-equal position).
func (c *Code) At(bytePos int) Position {
	if bytePos > len(c.Value) {
		bytePos = len(c.Value)
	}

	newlines := c.index()

	line := 1
	lineStart := 0
	for _, off := range newlines {
		if off >= bytePos {
			break
		}
		line++
		lineStart = off + 1
	}

	return Position{Line: line, Col: bytePos - lineStart + 1}
}

// Len is the number of bytes in the source.
func (c *Code) Len() int {
	return len(c.Value)
}
