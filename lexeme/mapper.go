package lexeme

import (
	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/token"
)

// Mapper wraps an inner lexeme and rewrites the tag of its matched token
// when the matched bytes appear in a literal-to-tag table, leaving the
// span untouched (spec.md §4.2, testable property 3). Used to demote
// identifiers to keywords.
type Mapper[TL token.Tag] struct {
	inner Lexeme[TL]
	table map[string]TL
}

// NewMapper wraps inner, rewriting any matched token whose text is a key of
// table to that key's tag.
func NewMapper[TL token.Tag](inner Lexeme[TL], table map[string]TL) *Mapper[TL] {
	return &Mapper[TL]{inner: inner, table: table}
}

func (m *Mapper[TL]) Consume(code *position.Code, cursor int, history []token.Token[TL], stack *StateStack) (token.Token[TL], bool, bool) {
	tok, matched, discard := m.inner.Consume(code, cursor, history, stack)
	if !matched {
		return tok, false, false
	}
	if tag, ok := m.table[string(tok.Text(code.Value))]; ok {
		tok.Tag = tag
	}
	return tok, true, discard
}

func (m *Mapper[TL]) GrammarFields() []GrammarField {
	return m.inner.GrammarFields()
}

// ThunkMapperFunc computes a replacement tag for tok given the source
// bytes and the tokens emitted so far in this tokenize call. It returns
// ok=false to leave tok's tag unchanged.
type ThunkMapperFunc[TL token.Tag] func(tok token.Token[TL], src []byte, history []token.Token[TL]) (tag TL, ok bool)

// ThunkMapper is a Mapper whose replacement tag is computed by a user
// function instead of looked up in a static table.
type ThunkMapper[TL token.Tag] struct {
	inner Lexeme[TL]
	fn    ThunkMapperFunc[TL]
}

// NewThunkMapper wraps inner, rewriting any matched token's tag to
// whatever fn returns.
func NewThunkMapper[TL token.Tag](inner Lexeme[TL], fn ThunkMapperFunc[TL]) *ThunkMapper[TL] {
	return &ThunkMapper[TL]{inner: inner, fn: fn}
}

func (m *ThunkMapper[TL]) Consume(code *position.Code, cursor int, history []token.Token[TL], stack *StateStack) (token.Token[TL], bool, bool) {
	tok, matched, discard := m.inner.Consume(code, cursor, history, stack)
	if !matched {
		return tok, false, false
	}
	if tag, ok := m.fn(tok, code.Value, history); ok {
		tok.Tag = tag
	}
	return tok, true, discard
}

func (m *ThunkMapper[TL]) GrammarFields() []GrammarField {
	return m.inner.GrammarFields()
}
