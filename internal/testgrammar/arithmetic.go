package testgrammar

import (
	packrat "github.com/dekarrin/packrat"
	"github.com/dekarrin/packrat/cache"
	"github.com/dekarrin/packrat/lexeme"
	"github.com/dekarrin/packrat/production"
	"github.com/dekarrin/packrat/tokenize"
)

// ArithTag is the token tag alphabet of the left-associative sum grammar.
type ArithTag string

const (
	ArithTagNumber ArithTag = "NUMBER"
	ArithTagPlus   ArithTag = "PLUS"
	ArithTagWS     ArithTag = "WS"
	ArithTagEOF    ArithTag = "EOF"
)

// ArithNode is the AST node tag alphabet of the sum grammar.
type ArithNode int

const (
	NodeNum ArithNode = iota
	NodeAdd
)

// NewArithTokenizer builds the tokenizer for "1 + 2 + 3"-style sums.
func NewArithTokenizer() (*tokenize.Tokenizer[ArithTag], error) {
	num, err := lexeme.NewPattern[ArithTag](`^[0-9]+`, ArithTagNumber)
	if err != nil {
		return nil, err
	}
	plus, err := lexeme.NewPunctuations[ArithTag]([]lexeme.PunctuationEntry[ArithTag]{
		{Literal: "+", Tag: ArithTagPlus},
	})
	if err != nil {
		return nil, err
	}
	ws, err := lexeme.NewPattern[ArithTag](`^[ \t\r\n]+`, ArithTagWS)
	if err != nil {
		return nil, err
	}
	wsDiscard := lexeme.NewStateMixin[ArithTag](ws, map[ArithTag]lexeme.Action{
		ArithTagWS: lexeme.NoneAction(true),
	})
	return tokenize.NewTokenizer[ArithTag](ArithTagEOF, []lexeme.Lexeme[ArithTag]{wsDiscard, num, plus}), nil
}

func arithIsStructural(tag ArithTag) bool { return tag != ArithTagWS }

// NewArithGrammar builds the left-recursion-eliminated sum production:
//
//	Sum := Num Suffixes(Plus Num @NodeAdd)?, standalone
//
// wrapping "1+2" into an Add node without the grammar itself ever
// recursing left (spec.md S6). Suffixes applies at most one suffix, so in
// "1+2+3" only "1+2" is matched. Exported (unlike
// production's own private test helper of the same shape) so both this
// package's and the root driver's test suites can call Validate on it and
// run it through a real DefaultParser.
func NewArithGrammar() packrat.IProduction[ArithNode, ArithTag] {
	numTag := NodeNum
	numField := production.NewTokenField[ArithNode, ArithTag](ArithTagNumber, &numTag)
	plusField := production.NewTokenField[ArithNode, ArithTag](ArithTagPlus, nil)

	addAndNum := production.NewConcatWithSymbols[ArithNode, ArithTag]("AddNum", []packrat.IProduction[ArithNode, ArithTag]{
		plusField, numField,
	})

	addTag := NodeAdd
	return production.NewSuffixesWithEntries[ArithNode, ArithTag]("Sum", numField, true, []production.SuffixEntry[ArithNode, ArithTag]{
		{Production: addAndNum, NodeValue: &addTag},
	})
}

// NewArithParser builds the tokenized-driver DefaultParser wrapping
// NewArithGrammar.
func NewArithParser() (*packrat.DefaultParser[ArithNode, ArithTag], error) {
	tokenizer, err := NewArithTokenizer()
	if err != nil {
		return nil, err
	}
	return packrat.NewDefaultParser[ArithNode, ArithTag](
		tokenizer, NewArithGrammar(), ArithTagEOF, arithIsStructural, cache.NewFilteredFactory[ArithNode](),
	)
}
