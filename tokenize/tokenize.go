// Package tokenize drives the lexeme combinators over a position.Code to
// produce a token vector, in either a single fixed-state or a
// state-stack-driven multi-state mode (spec.md §4.3).
package tokenize

import (
	"fmt"
	"sort"

	"github.com/dekarrin/packrat/lexeme"
	"github.com/dekarrin/packrat/perr"
	"github.com/dekarrin/packrat/plog"
	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/token"
)

// Tokenizer runs a single fixed ordered list of lexemes against every
// position, with no state stack. Lexemes are tried in declaration order;
// the first match wins.
type Tokenizer[TL token.Tag] struct {
	lexemes []lexeme.Lexeme[TL]
	eofTag  TL
	log     plog.Cell[plog.Label]
}

// NewTokenizer builds a single-state Tokenizer. eofTag is the tag attached
// to the synthetic end-of-file token appended on success.
func NewTokenizer[TL token.Tag](eofTag TL, lexemes []lexeme.Lexeme[TL]) *Tokenizer[TL] {
	return &Tokenizer[TL]{lexemes: lexemes, eofTag: eofTag}
}

// SetLog assigns a debug label, usable once.
func (t *Tokenizer[TL]) SetLog(label plog.Label) error {
	return t.log.Set(label)
}

// Tokenize runs the tokenization algorithm to completion or failure.
func (t *Tokenizer[TL]) Tokenize(code *position.Code) ([]token.Token[TL], error) {
	var stack lexeme.StateStack
	return runTokenize(code, t.eofTag, &stack, func() []lexeme.Lexeme[TL] {
		return t.lexemes
	})
}

// BuildGrammar renders every lexeme's grammar fields as a single unnamed
// fragment, one field per line.
func (t *Tokenizer[TL]) BuildGrammar() string {
	return renderFragment("", t.lexemes)
}

// StatefulTokenizer runs a state-stack-driven tokenizer: the active lexeme
// list is chosen by the state at the top of the stack (spec.md §4.3),
// defaulting to defaultState when the stack is empty. Unknown states are a
// fatal implementation error, caught at Tokenize time via panic to mirror
// the teacher's assert-style invariants.
type StatefulTokenizer[TL token.Tag] struct {
	defaultState lexeme.State
	states       []stateEntry[TL]
	eofTag       TL
	log          plog.Cell[plog.Label]
}

type stateEntry[TL token.Tag] struct {
	state   lexeme.State
	lexemes []lexeme.Lexeme[TL]
}

// NewStatefulTokenizer builds a multi-state tokenizer that starts in
// defaultState.
func NewStatefulTokenizer[TL token.Tag](eofTag TL, defaultState lexeme.State) *StatefulTokenizer[TL] {
	return &StatefulTokenizer[TL]{defaultState: defaultState, eofTag: eofTag}
}

// AddState registers the ordered lexeme list active while state is at the
// top of the stack. Re-registering an existing state replaces its list.
func (t *StatefulTokenizer[TL]) AddState(state lexeme.State, lexemes []lexeme.Lexeme[TL]) {
	i := sort.Search(len(t.states), func(i int) bool { return t.states[i].state >= state })
	if i < len(t.states) && t.states[i].state == state {
		t.states[i].lexemes = lexemes
		return
	}
	t.states = append(t.states, stateEntry[TL]{})
	copy(t.states[i+1:], t.states[i:])
	t.states[i] = stateEntry[TL]{state: state, lexemes: lexemes}
}

// SetLog assigns a debug label, usable once.
func (t *StatefulTokenizer[TL]) SetLog(label plog.Label) error {
	return t.log.Set(label)
}

func (t *StatefulTokenizer[TL]) lookup(state lexeme.State) []lexeme.Lexeme[TL] {
	i := sort.Search(len(t.states), func(i int) bool { return t.states[i].state >= state })
	if i >= len(t.states) || t.states[i].state != state {
		panic(fmt.Sprintf("packrat/tokenize: tokenization state %q is not implemented", state))
	}
	return t.states[i].lexemes
}

// Tokenize runs the tokenization algorithm to completion or failure.
func (t *StatefulTokenizer[TL]) Tokenize(code *position.Code) ([]token.Token[TL], error) {
	stack := &lexeme.StateStack{}
	currentState := t.defaultState
	current := t.lookup(currentState)

	return runTokenizeStateful(code, t.eofTag, stack, func() []lexeme.Lexeme[TL] {
		return current
	}, func() {
		next, ok := stack.Top()
		if !ok {
			next = t.defaultState
		}
		if next != currentState {
			currentState = next
			current = t.lookup(currentState)
		}
	})
}

// BuildGrammar renders each state's lexemes as its own named fragment.
func (t *StatefulTokenizer[TL]) BuildGrammar() string {
	var out string
	for _, e := range t.states {
		out += renderFragment(fmt.Sprintf("%v", e.state), e.lexemes)
	}
	return out
}

func renderFragment[TL token.Tag](name string, lexemes []lexeme.Lexeme[TL]) string {
	out := fmt.Sprintf("fragment %s {\n", name)
	for _, l := range lexemes {
		for _, f := range l.GrammarFields() {
			out += fmt.Sprintf("      %s : %s ,\n", f.Tag, f.Syntax)
		}
	}
	out += "}\n\n"
	return out
}

// runTokenize implements the single-state algorithm: resolve is called
// once, since a plain Tokenizer's active list never changes.
func runTokenize[TL token.Tag](code *position.Code, eofTag TL, stack *lexeme.StateStack, resolve func() []lexeme.Lexeme[TL]) ([]token.Token[TL], error) {
	return runTokenizeStateful(code, eofTag, stack, resolve, func() {})
}

// runTokenizeStateful implements the shared cursor-advance loop; afterMatch
// is called after every successful match so a stateful tokenizer can
// re-resolve its active lexeme list.
func runTokenizeStateful[TL token.Tag](code *position.Code, eofTag TL, stack *lexeme.StateStack, active func() []lexeme.Lexeme[TL], afterMatch func()) ([]token.Token[TL], error) {
	var tokens []token.Token[TL]
	cursor := 0
	eof := code.Len()

	for {
		var (
			tok     token.Token[TL]
			matched bool
			discard bool
		)
		for _, lx := range active() {
			tok, matched, discard = lx.Consume(code, cursor, tokens, stack)
			if matched {
				break
			}
		}

		if !matched {
			pos := code.At(cursor)
			return nil, perr.NewParseError(cursor, fmt.Sprintf("Failed to tokenize code @ %d:%d", pos.Line, pos.Col))
		}

		if tok.Start != cursor {
			panic(fmt.Sprintf("packrat/tokenize: lexeme returned token starting at %d, expected %d", tok.Start, cursor))
		}
		cursor = tok.End

		if !discard {
			tokens = append(tokens, tok)
		}

		if cursor == eof {
			tokens = append(tokens, token.Token[TL]{Tag: eofTag, Start: cursor, End: cursor})
			return tokens, nil
		}

		afterMatch()
	}
}
