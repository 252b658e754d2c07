package tokenize

import (
	"testing"

	"github.com/dekarrin/packrat/lexeme"
	"github.com/dekarrin/packrat/position"
)

type tag string

const (
	tagNumber tag = "NUMBER"
	tagPlus   tag = "PLUS"
	tagWS     tag = "WS"
	tagEOF    tag = "EOF"
)

func mustPattern(t *testing.T, src string, tg tag) *lexeme.Pattern[tag] {
	t.Helper()
	p, err := lexeme.NewPattern(src, tg)
	if err != nil {
		t.Fatalf("NewPattern(%q): %v", src, err)
	}
	return p
}

func Test_Tokenizer_ProducesTokensAndEOF(t *testing.T) {
	number := mustPattern(t, "[0-9]+", tagNumber)
	plus, err := lexeme.NewPunctuations([]lexeme.PunctuationEntry[tag]{{Literal: "+", Tag: tagPlus}})
	if err != nil {
		t.Fatalf("NewPunctuations: %v", err)
	}

	tz := NewTokenizer[tag](tagEOF, []lexeme.Lexeme[tag]{number, plus})
	toks, err := tz.Tokenize(position.New([]byte("12+3")))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	wantTags := []tag{tagNumber, tagPlus, tagNumber, tagEOF}
	if len(toks) != len(wantTags) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(wantTags), toks)
	}
	for i, wt := range wantTags {
		if toks[i].Tag != wt {
			t.Fatalf("token %d tag = %v, want %v", i, toks[i].Tag, wt)
		}
	}
	if toks[len(toks)-1].Start != 4 || toks[len(toks)-1].End != 4 {
		t.Fatalf("EOF token = %+v, want a zero-width token at 4", toks[len(toks)-1])
	}
}

func Test_Tokenizer_FailsOnUnrecognizedInput(t *testing.T) {
	number := mustPattern(t, "[0-9]+", tagNumber)
	tz := NewTokenizer[tag](tagEOF, []lexeme.Lexeme[tag]{number})
	if _, err := tz.Tokenize(position.New([]byte("12x"))); err == nil {
		t.Fatal("expected a tokenize error on unrecognized input")
	}
}

func Test_Tokenizer_DiscardsSuppressedTokens(t *testing.T) {
	number := mustPattern(t, "[0-9]+", tagNumber)
	wsInner := mustPattern(t, "[ \t]+", tagWS)
	ws := lexeme.NewStateMixin[tag](wsInner, map[tag]lexeme.Action{
		tagWS: lexeme.NoneAction(true),
	})
	tz := NewTokenizer[tag](tagEOF, []lexeme.Lexeme[tag]{number, ws})

	toks, err := tz.Tokenize(position.New([]byte("1 2")))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	for _, tok := range toks {
		if tok.Tag == tagWS {
			t.Fatal("whitespace token must have been discarded")
		}
	}
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3 (two numbers + EOF): %+v", len(toks), toks)
	}
}

func Test_StatefulTokenizer_SwitchesActiveLexemeSet(t *testing.T) {
	const (
		stateMain lexeme.State = "MAIN"
		stateExpr lexeme.State = "EXPR"
	)

	number := mustPattern(t, "[0-9]+", tagNumber)
	openInner, err := lexeme.NewPunctuations([]lexeme.PunctuationEntry[tag]{{Literal: "(", Tag: tagPlus}})
	if err != nil {
		t.Fatalf("NewPunctuations: %v", err)
	}
	open := lexeme.NewStateMixin[tag](openInner, map[tag]lexeme.Action{
		tagPlus: lexeme.AppendAction(stateExpr, false),
	})
	closeInner, err := lexeme.NewPunctuations([]lexeme.PunctuationEntry[tag]{{Literal: ")", Tag: tagWS}})
	if err != nil {
		t.Fatalf("NewPunctuations: %v", err)
	}
	closeParen := lexeme.NewStateMixin[tag](closeInner, map[tag]lexeme.Action{
		tagWS: lexeme.PopAction(false),
	})

	tz := NewStatefulTokenizer[tag](tagEOF, stateMain)
	tz.AddState(stateMain, []lexeme.Lexeme[tag]{open})
	tz.AddState(stateExpr, []lexeme.Lexeme[tag]{number, closeParen})

	toks, err := tz.Tokenize(position.New([]byte("(42)")))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	wantTags := []tag{tagPlus, tagNumber, tagWS, tagEOF}
	if len(toks) != len(wantTags) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(wantTags), toks)
	}
	for i, wt := range wantTags {
		if toks[i].Tag != wt {
			t.Fatalf("token %d tag = %v, want %v", i, toks[i].Tag, wt)
		}
	}
}

func Test_StatefulTokenizer_PanicsOnUnregisteredState(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic entering an unregistered state")
		}
	}()

	const stateMain lexeme.State = "MAIN"
	number := mustPattern(t, "[0-9]+", tagNumber)

	tz := NewStatefulTokenizer[tag](tagEOF, "UNREGISTERED")
	tz.AddState(stateMain, []lexeme.Lexeme[tag]{number})
	tz.Tokenize(position.New([]byte("1")))
}

func Test_Tokenizer_BuildGrammar_ListsFields(t *testing.T) {
	number := mustPattern(t, "[0-9]+", tagNumber)
	tz := NewTokenizer[tag](tagEOF, []lexeme.Lexeme[tag]{number})
	out := tz.BuildGrammar()
	if out == "" {
		t.Fatal("expected a non-empty grammar fragment")
	}
}
