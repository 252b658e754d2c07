package testgrammar

import (
	"github.com/dekarrin/packrat/lexeme"
	"github.com/dekarrin/packrat/tokenize"
)

// PunctTag is the token tag alphabet of the overlapping-punctuation
// tokenizer: "+" and "++" and "+=" all share a prefix, so tokenizing them
// correctly requires the longest-match rule a field trie provides (spec.md
// testable property 2 / S2), not a first-declared-wins scan.
type PunctTag string

const (
	PunctPlus      PunctTag = "PLUS"
	PunctIncrement PunctTag = "INCREMENT"
	PunctPlusEq    PunctTag = "PLUS_EQ"
	PunctWS        PunctTag = "WS"
	PunctEOF       PunctTag = "EOF"
)

// NewPunctuationTokenizer builds a tokenizer over "+", "++", and "+="
// using one lexeme.Punctuations (plus a whitespace-discarding lexeme), so
// a caller can feed it
// "+++=" and confirm the cursor advances by the longest literal present
// at each position rather than the first one declared.
func NewPunctuationTokenizer() (*tokenize.Tokenizer[PunctTag], error) {
	punct, err := lexeme.NewPunctuations[PunctTag]([]lexeme.PunctuationEntry[PunctTag]{
		{Literal: "+", Tag: PunctPlus},
		{Literal: "++", Tag: PunctIncrement},
		{Literal: "+=", Tag: PunctPlusEq},
	})
	if err != nil {
		return nil, err
	}
	ws, err := lexeme.NewPattern[PunctTag](`^[ \t\r\n]+`, PunctWS)
	if err != nil {
		return nil, err
	}
	wsDiscard := lexeme.NewStateMixin[PunctTag](ws, map[PunctTag]lexeme.Action{
		PunctWS: lexeme.NoneAction(true),
	})
	return tokenize.NewTokenizer[PunctTag](PunctEOF, []lexeme.Lexeme[PunctTag]{wsDiscard, punct}), nil
}
