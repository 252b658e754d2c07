package lexeme

// State names a tokenizer mode. The multi-state tokenizer looks up its
// active lexeme list by the state at the top of the state stack (spec.md
// §4.3); a nameable string is sufficient for every grammar in the corpus
// (e.g. spec.md S3's {MAIN, TEMPLATE}), so State is concrete rather than a
// type parameter threaded through every lexeme combinator.
type State string

// ActionKind enumerates the four state-stack operations a StateMixin
// lexeme may perform after a match (spec.md §4.2).
type ActionKind int

const (
	// ActionNone leaves the state stack unchanged.
	ActionNone ActionKind = iota
	// ActionPop removes the top of the state stack. Popping an empty
	// stack is a fatal error (spec.md testable property 4).
	ActionPop
	// ActionAppend pushes a new state onto the stack.
	ActionAppend
	// ActionSwitch replaces the top of the stack, or pushes if the stack
	// is empty.
	ActionSwitch
)

// Action describes what a StateMixin or ThunkStateMixin lexeme does to the
// tokenizer's state stack after a successful match, and whether the
// matched token should be suppressed from the output stream.
type Action struct {
	Kind    ActionKind
	State   State
	Discard bool
}

// NoneAction returns an Action that leaves the state stack alone.
func NoneAction(discard bool) Action {
	return Action{Kind: ActionNone, Discard: discard}
}

// PopAction returns an Action that pops the state stack.
func PopAction(discard bool) Action {
	return Action{Kind: ActionPop, Discard: discard}
}

// AppendAction returns an Action that pushes state onto the stack.
func AppendAction(state State, discard bool) Action {
	return Action{Kind: ActionAppend, State: state, Discard: discard}
}

// SwitchAction returns an Action that replaces the top of the stack with
// state (or pushes it, if the stack is empty).
func SwitchAction(state State, discard bool) Action {
	return Action{Kind: ActionSwitch, State: state, Discard: discard}
}

// StateStack is the tokenizer's LIFO of active states.
type StateStack struct {
	states []State
}

// Empty reports whether the stack holds no states.
func (s *StateStack) Empty() bool {
	return len(s.states) == 0
}

// Top returns the state at the top of the stack and true, or the zero value
// and false if the stack is empty.
func (s *StateStack) Top() (State, bool) {
	if s.Empty() {
		return "", false
	}
	return s.states[len(s.states)-1], true
}

// Perform applies act to the stack, panicking if act is a Pop on an empty
// stack.
func (s *StateStack) Perform(act Action) {
	switch act.Kind {
	case ActionNone:
		// no-op
	case ActionPop:
		if s.Empty() {
			panic("packrat/lexeme: Pop action on empty state stack")
		}
		s.states = s.states[:len(s.states)-1]
	case ActionAppend:
		s.states = append(s.states, act.State)
	case ActionSwitch:
		if s.Empty() {
			s.states = append(s.states, act.State)
		} else {
			s.states[len(s.states)-1] = act.State
		}
	}
}
