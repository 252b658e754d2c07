package lexeme

import (
	"testing"

	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/token"
)

type tag string

const (
	tagNumber tag = "NUMBER"
	tagPlus   tag = "PLUS"
	tagInc    tag = "INCREMENT"
	tagPlusEq tag = "PLUS_EQ"
	tagIdent  tag = "IDENT"
	tagIf     tag = "IF"
)

func code(src string) *position.Code {
	return position.New([]byte(src))
}

func Test_Pattern_MatchesAnchoredAtCursor(t *testing.T) {
	p, err := NewPattern("[0-9]+", tagNumber)
	if err != nil {
		t.Fatalf("NewPattern: %v", err)
	}
	tok, matched, discard := p.Consume(code("42abc"), 0, nil, nil)
	if !matched || discard {
		t.Fatalf("Consume() = (%v, %v, %v)", tok, matched, discard)
	}
	if tok.Tag != tagNumber || tok.Start != 0 || tok.End != 2 {
		t.Fatalf("got token %+v", tok)
	}
}

func Test_Pattern_NoMatchAtCursor(t *testing.T) {
	p, err := NewPattern("[0-9]+", tagNumber)
	if err != nil {
		t.Fatalf("NewPattern: %v", err)
	}
	_, matched, _ := p.Consume(code("abc"), 0, nil, nil)
	if matched {
		t.Fatal("expected no match")
	}
}

func Test_Pattern_RejectsEmptyMatchingRegex(t *testing.T) {
	if _, err := NewPattern("a*", tagNumber); err == nil {
		t.Fatal("expected a construction error for a regex that matches the empty string")
	}
}

func Test_Pattern_RejectsInvalidRegex(t *testing.T) {
	if _, err := NewPattern("(", tagNumber); err == nil {
		t.Fatal("expected a construction error for an invalid regex")
	}
}

func Test_Punctuations_PrefersLongestMatch(t *testing.T) {
	p, err := NewPunctuations([]PunctuationEntry[tag]{
		{Literal: "+", Tag: tagPlus},
		{Literal: "++", Tag: tagInc},
		{Literal: "+=", Tag: tagPlusEq},
	})
	if err != nil {
		t.Fatalf("NewPunctuations: %v", err)
	}
	tok, matched, _ := p.Consume(code("++x"), 0, nil, nil)
	if !matched || tok.Tag != tagInc || tok.End != 2 {
		t.Fatalf("got (%+v, %v)", tok, matched)
	}
}

func Test_Punctuations_RejectsEmptySet(t *testing.T) {
	if _, err := NewPunctuations[tag](nil); err == nil {
		t.Fatal("expected a construction error for an empty punctuation set")
	}
}

func Test_Punctuations_RejectsDuplicateLiteral(t *testing.T) {
	_, err := NewPunctuations([]PunctuationEntry[tag]{
		{Literal: "+", Tag: tagPlus},
		{Literal: "+", Tag: tagInc},
	})
	if err == nil {
		t.Fatal("expected a construction error for a duplicate literal")
	}
}

func Test_Constants_MatchesFirstPrefix(t *testing.T) {
	c, err := NewConstants([]PunctuationEntry[tag]{
		{Literal: "if", Tag: tagIf},
		{Literal: "i", Tag: tagIdent},
	})
	if err != nil {
		t.Fatalf("NewConstants: %v", err)
	}
	tok, matched, _ := c.Consume(code("if x"), 0, nil, nil)
	if !matched || tok.Tag != tagIf || tok.End != 2 {
		t.Fatalf("got (%+v, %v), want longest literal to win", tok, matched)
	}
}

func Test_Constants_NoMatch(t *testing.T) {
	c, err := NewConstants([]PunctuationEntry[tag]{{Literal: "if", Tag: tagIf}})
	if err != nil {
		t.Fatalf("NewConstants: %v", err)
	}
	_, matched, _ := c.Consume(code("else"), 0, nil, nil)
	if matched {
		t.Fatal("expected no match")
	}
}

func Test_Constants_RejectsDuplicateLiteral(t *testing.T) {
	_, err := NewConstants([]PunctuationEntry[tag]{
		{Literal: "if", Tag: tagIf},
		{Literal: "if", Tag: tagIdent},
	})
	if err == nil {
		t.Fatal("expected a construction error for a duplicate literal")
	}
}

func Test_StateStack_PushPopSwitch(t *testing.T) {
	var s StateStack
	if !s.Empty() {
		t.Fatal("expected a fresh stack to be empty")
	}
	s.Perform(AppendAction("MAIN", false))
	top, ok := s.Top()
	if !ok || top != "MAIN" {
		t.Fatalf("Top() = (%q, %v), want (MAIN, true)", top, ok)
	}
	s.Perform(SwitchAction("EXPR", false))
	top, _ = s.Top()
	if top != "EXPR" {
		t.Fatalf("Top() after switch = %q, want EXPR", top)
	}
	s.Perform(PopAction(false))
	if !s.Empty() {
		t.Fatal("expected stack to be empty after popping its only state")
	}
}

func Test_StateStack_SwitchOnEmptyPushes(t *testing.T) {
	var s StateStack
	s.Perform(SwitchAction("MAIN", false))
	top, ok := s.Top()
	if !ok || top != "MAIN" {
		t.Fatalf("Top() = (%q, %v), want (MAIN, true)", top, ok)
	}
}

func Test_StateStack_PopEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic popping an empty state stack")
		}
	}()
	var s StateStack
	s.Perform(PopAction(false))
}

type constLexeme struct {
	tag     tag
	discard bool
}

func (c constLexeme) Consume(_ *position.Code, cursor int, _ []token.Token[tag], _ *StateStack) (token.Token[tag], bool, bool) {
	return token.Token[tag]{Tag: c.tag, Start: cursor, End: cursor + 1}, true, c.discard
}
func (c constLexeme) GrammarFields() []GrammarField { return nil }

func Test_StateMixin_AppliesActionAndDiscard(t *testing.T) {
	mixin := NewStateMixin[tag](constLexeme{tag: tagPlus}, map[tag]Action{
		tagPlus: AppendAction("EXPR", true),
	})
	var stack StateStack
	tok, matched, discard := mixin.Consume(code("+"), 0, nil, &stack)
	if !matched || tok.Tag != tagPlus {
		t.Fatalf("got (%+v, %v)", tok, matched)
	}
	if !discard {
		t.Fatal("expected the action's Discard flag to propagate")
	}
	if top, ok := stack.Top(); !ok || top != "EXPR" {
		t.Fatalf("expected EXPR pushed onto the state stack, got (%q, %v)", top, ok)
	}
}

func Test_StateMixin_NoActionForUnlistedTag(t *testing.T) {
	mixin := NewStateMixin[tag](constLexeme{tag: tagIdent}, map[tag]Action{
		tagPlus: AppendAction("EXPR", true),
	})
	var stack StateStack
	_, matched, discard := mixin.Consume(code("x"), 0, nil, &stack)
	if !matched || discard {
		t.Fatalf("matched=%v discard=%v, want matched=true discard=false", matched, discard)
	}
	if !stack.Empty() {
		t.Fatal("expected the state stack to be untouched")
	}
}

func Test_ThunkStateMixin_AppliesComputedAction(t *testing.T) {
	mixin := NewThunkStateMixin[tag](constLexeme{tag: tagPlus}, func(tok token.Token[tag], _ []byte, _ []token.Token[tag]) (Action, bool) {
		return PopAction(false), true
	})
	stack := StateStack{}
	stack.Perform(AppendAction("MAIN", false))
	_, matched, _ := mixin.Consume(code("+"), 0, nil, &stack)
	if !matched {
		t.Fatal("expected a match")
	}
	if !stack.Empty() {
		t.Fatal("expected the computed Pop action to empty the stack")
	}
}

func Test_Mapper_RewritesKeyword(t *testing.T) {
	inner, _ := NewPattern("[a-z]+", tagIdent)
	mapped := NewMapper[tag](inner, map[string]tag{"if": tagIf})

	tok, matched, _ := mapped.Consume(code("if"), 0, nil, nil)
	if !matched || tok.Tag != tagIf {
		t.Fatalf("got (%+v, %v), want tag rewritten to IF", tok, matched)
	}

	tok, matched, _ = mapped.Consume(code("foo"), 0, nil, nil)
	if !matched || tok.Tag != tagIdent {
		t.Fatalf("got (%+v, %v), want tag left as IDENT", tok, matched)
	}
}

func Test_ThunkMapper_RewritesViaFunc(t *testing.T) {
	inner, _ := NewPattern("[a-z]+", tagIdent)
	mapped := NewThunkMapper[tag](inner, func(tok token.Token[tag], src []byte, _ []token.Token[tag]) (tag, bool) {
		if string(tok.Text(src)) == "if" {
			return tagIf, true
		}
		return "", false
	})
	tok, matched, _ := mapped.Consume(code("if"), 0, nil, nil)
	if !matched || tok.Tag != tagIf {
		t.Fatalf("got (%+v, %v)", tok, matched)
	}
}

func Test_Middleware_SkipsWhenPredicateFalse(t *testing.T) {
	inner, _ := NewPattern("[0-9]+", tagNumber)
	mw := NewMiddleware[tag](inner, func(_ []byte, _ int, _ []token.Token[tag]) bool { return false })
	_, matched, _ := mw.Consume(code("42"), 0, nil, nil)
	if matched {
		t.Fatal("expected the middleware to suppress the inner lexeme")
	}
}

func Test_Middleware_RunsWhenPredicateTrue(t *testing.T) {
	inner, _ := NewPattern("[0-9]+", tagNumber)
	mw := NewMiddleware[tag](inner, func(_ []byte, _ int, _ []token.Token[tag]) bool { return true })
	tok, matched, _ := mw.Consume(code("42"), 0, nil, nil)
	if !matched || tok.Tag != tagNumber {
		t.Fatalf("got (%+v, %v)", tok, matched)
	}
}
