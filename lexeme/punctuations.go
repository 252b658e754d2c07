package lexeme

import (
	"fmt"

	"github.com/dekarrin/packrat/perr"
	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/token"
	"github.com/dekarrin/packrat/trie"
)

// PunctuationEntry is one (literal, tag) pair of a Punctuations or Constants
// lexeme.
type PunctuationEntry[TL token.Tag] struct {
	Literal string
	Tag     TL
}

// Punctuations matches the LONGEST literal present at the cursor, using a
// field trie (spec.md §4.1, testable property 2). Duplicate literals are a
// construction error.
type Punctuations[TL token.Tag] struct {
	tree    *trie.Trie[TL]
	entries []PunctuationEntry[TL]
}

// NewPunctuations builds a Punctuations lexeme from entries. entries must
// be non-empty and literal-unique.
func NewPunctuations[TL token.Tag](entries []PunctuationEntry[TL]) (*Punctuations[TL], error) {
	if len(entries) == 0 {
		return nil, perr.Construction("punctuation set must not be empty")
	}

	t := trie.New[TL]()
	for _, e := range entries {
		if err := t.Insert([]byte(e.Literal), e.Tag); err != nil {
			return nil, perr.Constructionf("punctuation literal %q used more than once", e.Literal)
		}
	}

	return &Punctuations[TL]{tree: t, entries: entries}, nil
}

func (p *Punctuations[TL]) Consume(code *position.Code, cursor int, _ []token.Token[TL], _ *StateStack) (token.Token[TL], bool, bool) {
	tag, n, ok := p.tree.FindLongest(code.Value[cursor:])
	if !ok || n == 0 {
		var zero token.Token[TL]
		return zero, false, false
	}
	return token.Token[TL]{Tag: tag, Start: cursor, End: cursor + n}, true, false
}

func (p *Punctuations[TL]) GrammarFields() []GrammarField {
	fields := make([]GrammarField, len(p.entries))
	for i, e := range p.entries {
		fields[i] = GrammarField{Tag: fmt.Sprintf("%v", e.Tag), Syntax: fmt.Sprintf("%q", e.Literal)}
	}
	return fields
}
