package lexeme

import (
	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/token"
)

// StateMixin wraps an inner lexeme and a per-tag Action table. After the
// inner lexeme emits a token, the matching Action (if any) is applied to
// the state stack, and its Discard flag decides whether the token itself
// is suppressed from the output stream (spec.md §4.2).
type StateMixin[TL token.Tag] struct {
	inner   Lexeme[TL]
	actions map[TL]Action
}

// NewStateMixin wraps inner, applying actions[tok.Tag] (if present) to the
// state stack after each match.
func NewStateMixin[TL token.Tag](inner Lexeme[TL], actions map[TL]Action) *StateMixin[TL] {
	return &StateMixin[TL]{inner: inner, actions: actions}
}

func (s *StateMixin[TL]) Consume(code *position.Code, cursor int, history []token.Token[TL], stack *StateStack) (token.Token[TL], bool, bool) {
	tok, matched, discard := s.inner.Consume(code, cursor, history, stack)
	if !matched {
		return tok, false, false
	}
	if act, ok := s.actions[tok.Tag]; ok {
		stack.Perform(act)
		discard = discard || act.Discard
	}
	return tok, true, discard
}

func (s *StateMixin[TL]) GrammarFields() []GrammarField {
	return s.inner.GrammarFields()
}

// ThunkStateMixinFunc computes the Action to apply for a matched token,
// given the source bytes and the tokens emitted so far. ok=false means no
// action is taken and the token is not discarded.
type ThunkStateMixinFunc[TL token.Tag] func(tok token.Token[TL], src []byte, history []token.Token[TL]) (act Action, ok bool)

// ThunkStateMixin is a StateMixin whose Action is computed by a user
// function instead of looked up in a static table.
type ThunkStateMixin[TL token.Tag] struct {
	inner Lexeme[TL]
	fn    ThunkStateMixinFunc[TL]
}

// NewThunkStateMixin wraps inner, applying whatever Action fn returns
// after each match.
func NewThunkStateMixin[TL token.Tag](inner Lexeme[TL], fn ThunkStateMixinFunc[TL]) *ThunkStateMixin[TL] {
	return &ThunkStateMixin[TL]{inner: inner, fn: fn}
}

func (s *ThunkStateMixin[TL]) Consume(code *position.Code, cursor int, history []token.Token[TL], stack *StateStack) (token.Token[TL], bool, bool) {
	tok, matched, discard := s.inner.Consume(code, cursor, history, stack)
	if !matched {
		return tok, false, false
	}
	if act, ok := s.fn(tok, code.Value, history); ok {
		stack.Perform(act)
		discard = discard || act.Discard
	}
	return tok, true, discard
}

func (s *ThunkStateMixin[TL]) GrammarFields() []GrammarField {
	return s.inner.GrammarFields()
}
