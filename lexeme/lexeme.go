// Package lexeme implements the combinators that turn source bytes into
// tokens: anchored regex patterns, punctuation and literal sets, keyword
// mappers, predicate middleware, and state-stack actions for multi-state
// tokenization (spec.md §4.2).
package lexeme

import (
	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/token"
)

// GrammarField names a single alternative a lexeme can match, used for
// documentation/grammar-printing purposes only.
type GrammarField struct {
	Tag    string
	Syntax string
}

// Lexeme is a combinator that maps (bytes, cursor, state) to at most one
// token. history is every token produced so far in the current tokenize
// call, oldest first; stack is the active tokenizer's state stack (always
// non-nil, but only meaningful to StateMixin/ThunkStateMixin; other
// lexemes ignore it).
//
// Consume returns matched=false if the lexeme does not apply at cursor. If
// matched is true and discard is true, the cursor still advances by
// tok.Len() but tok is not appended to the output stream — this is how
// StateMixin/ThunkStateMixin suppress tokens that exist only to drive a
// state transition.
type Lexeme[TL token.Tag] interface {
	Consume(code *position.Code, cursor int, history []token.Token[TL], stack *StateStack) (tok token.Token[TL], matched bool, discard bool)

	// GrammarFields lists the (tag, syntax) pairs this lexeme can produce,
	// for documentation purposes.
	GrammarFields() []GrammarField
}
