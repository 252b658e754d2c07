package lexeme

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/dekarrin/packrat/perr"
	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/token"
)

// Constants matches the first (longest) literal prefix present at the
// cursor from a sorted-by-length list, without building a trie (spec.md
// §4.2). Construction fails on a duplicate literal.
//
// The Rust source's Constants::consume always returns the first element
// visited regardless of whether its bytes actually match, which is a bug
// in the source (it never checks the prefix at all); this checks the
// prefix, matching what spec.md §4.2 and §9's open-questions note specify.
type Constants[TL token.Tag] struct {
	entries []PunctuationEntry[TL] // sorted longest-literal-first
}

// NewConstants builds a Constants lexeme from entries, sorted internally
// longest-literal-first.
func NewConstants[TL token.Tag](entries []PunctuationEntry[TL]) (*Constants[TL], error) {
	if len(entries) == 0 {
		return nil, perr.Construction("constants set must not be empty")
	}

	seen := make(map[string]bool, len(entries))
	sorted := make([]PunctuationEntry[TL], len(entries))
	copy(sorted, entries)
	for _, e := range sorted {
		if seen[e.Literal] {
			return nil, perr.Constructionf("constant literal %q used more than once", e.Literal)
		}
		seen[e.Literal] = true
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Literal) > len(sorted[j].Literal)
	})

	return &Constants[TL]{entries: sorted}, nil
}

func (c *Constants[TL]) Consume(code *position.Code, cursor int, _ []token.Token[TL], _ *StateStack) (token.Token[TL], bool, bool) {
	rest := code.Value[cursor:]
	for _, e := range c.entries {
		if bytes.HasPrefix(rest, []byte(e.Literal)) {
			return token.Token[TL]{Tag: e.Tag, Start: cursor, End: cursor + len(e.Literal)}, true, false
		}
	}
	var zero token.Token[TL]
	return zero, false, false
}

func (c *Constants[TL]) GrammarFields() []GrammarField {
	fields := make([]GrammarField, len(c.entries))
	for i, e := range c.entries {
		fields[i] = GrammarField{Tag: fmt.Sprintf("%v", e.Tag), Syntax: fmt.Sprintf("%q", e.Literal)}
	}
	return fields
}
