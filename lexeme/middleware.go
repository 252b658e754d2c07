package lexeme

import (
	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/token"
)

// MiddlewarePredicate decides, from the source bytes and the tokens emitted
// so far in the current tokenize call, whether the wrapped lexeme should be
// tried at all.
type MiddlewarePredicate[TL token.Tag] func(src []byte, cursor int, history []token.Token[TL]) bool

// Middleware guards an inner lexeme behind a predicate evaluated before the
// inner lexeme ever runs (spec.md §4.2). Used e.g. to enable a
// regex-literal lexeme only when the preceding token isn't an
// identifier/number/close-paren.
type Middleware[TL token.Tag] struct {
	inner Lexeme[TL]
	pred  MiddlewarePredicate[TL]
}

// NewMiddleware wraps inner so it is only consulted when pred returns true.
func NewMiddleware[TL token.Tag](inner Lexeme[TL], pred MiddlewarePredicate[TL]) *Middleware[TL] {
	return &Middleware[TL]{inner: inner, pred: pred}
}

func (m *Middleware[TL]) Consume(code *position.Code, cursor int, history []token.Token[TL], stack *StateStack) (token.Token[TL], bool, bool) {
	if !m.pred(code.Value, cursor, history) {
		var zero token.Token[TL]
		return zero, false, false
	}
	return m.inner.Consume(code, cursor, history, stack)
}

func (m *Middleware[TL]) GrammarFields() []GrammarField {
	return m.inner.GrammarFields()
}
