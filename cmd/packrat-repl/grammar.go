package main

import (
	packrat "github.com/dekarrin/packrat"
	"github.com/dekarrin/packrat/cache"
	"github.com/dekarrin/packrat/lexeme"
	"github.com/dekarrin/packrat/production"
	"github.com/dekarrin/packrat/tokenize"
)

// calcTag is the token tag alphabet of the four-function calculator
// grammar the REPL demonstrates.
type calcTag string

const (
	calcTagNumber calcTag = "NUMBER"
	calcTagPlus   calcTag = "PLUS"
	calcTagMinus  calcTag = "MINUS"
	calcTagStar   calcTag = "STAR"
	calcTagSlash  calcTag = "SLASH"
	calcTagLParen calcTag = "LPAREN"
	calcTagRParen calcTag = "RPAREN"
	calcTagWS     calcTag = "WS"
	calcTagEOF    calcTag = "EOF"
)

// calcNode is the AST node tag alphabet of the calculator grammar.
type calcNode int

const (
	calcNodeNum calcNode = iota
	calcNodeAdd
	calcNodeSub
	calcNodeMul
	calcNodeDiv
)

func (n calcNode) String() string {
	switch n {
	case calcNodeNum:
		return "Num"
	case calcNodeAdd:
		return "Add"
	case calcNodeSub:
		return "Sub"
	case calcNodeMul:
		return "Mul"
	case calcNodeDiv:
		return "Div"
	default:
		return "?"
	}
}

func newCalcTokenizer() (*tokenize.Tokenizer[calcTag], error) {
	num, err := lexeme.NewPattern[calcTag](`^[0-9]+(\.[0-9]+)?`, calcTagNumber)
	if err != nil {
		return nil, err
	}
	ws, err := lexeme.NewPattern[calcTag](`^[ \t\r\n]+`, calcTagWS)
	if err != nil {
		return nil, err
	}
	wsDiscard := lexeme.NewStateMixin[calcTag](ws, map[calcTag]lexeme.Action{
		calcTagWS: lexeme.NoneAction(true),
	})
	punct, err := lexeme.NewPunctuations[calcTag]([]lexeme.PunctuationEntry[calcTag]{
		{Literal: "+", Tag: calcTagPlus},
		{Literal: "-", Tag: calcTagMinus},
		{Literal: "*", Tag: calcTagStar},
		{Literal: "/", Tag: calcTagSlash},
		{Literal: "(", Tag: calcTagLParen},
		{Literal: ")", Tag: calcTagRParen},
	})
	if err != nil {
		return nil, err
	}
	return tokenize.NewTokenizer[calcTag](calcTagEOF, []lexeme.Lexeme[calcTag]{
		wsDiscard, num, punct,
	}), nil
}

func calcIsStructural(tag calcTag) bool { return tag != calcTagWS }

// newCalcParser builds the grammar:
//
//	Expr   := Term   Suffixes(("+"|"-") Term)?
//	Term   := Factor Suffixes(("*"|"/") Factor)?
//	Factor := NUMBER | "(" Expr ")"
//
// using the Suffixes left-recursion-elimination idiom at each level. A
// Suffixes applies at most one suffix, so "1-2" yields a single Sub node,
// while in "1-2-3" only "1-2" is matched and "-3" is not consumed.
func newCalcParser() (*packrat.DefaultParser[calcNode, calcTag], error) {
	tokenizer, err := newCalcTokenizer()
	if err != nil {
		return nil, err
	}

	numTag := calcNodeNum
	numField := production.NewTokenField[calcNode, calcTag](calcTagNumber, &numTag)

	expr := production.NewUnion[calcNode, calcTag]("Expr")

	lparen := production.NewTokenField[calcNode, calcTag](calcTagLParen, nil)
	rparen := production.NewTokenField[calcNode, calcTag](calcTagRParen, nil)
	parenExpr := production.NewConcatWithSymbols[calcNode, calcTag]("ParenExpr", []packrat.IProduction[calcNode, calcTag]{
		lparen, expr, rparen,
	})
	parenHidden := production.NewHidden[calcNode, calcTag](parenExpr)

	factor := production.NewUnionWithSymbols[calcNode, calcTag]("Factor", []packrat.IProduction[calcNode, calcTag]{
		numField, parenHidden,
	})

	star := production.NewTokenField[calcNode, calcTag](calcTagStar, nil)
	slash := production.NewTokenField[calcNode, calcTag](calcTagSlash, nil)
	mulSuffix := production.NewConcatWithSymbols[calcNode, calcTag]("MulSuffix", []packrat.IProduction[calcNode, calcTag]{star, factor})
	divSuffix := production.NewConcatWithSymbols[calcNode, calcTag]("DivSuffix", []packrat.IProduction[calcNode, calcTag]{slash, factor})
	mulTag, divTag := calcNodeMul, calcNodeDiv
	term := production.NewSuffixesWithEntries[calcNode, calcTag]("Term", factor, true, []production.SuffixEntry[calcNode, calcTag]{
		{Production: mulSuffix, NodeValue: &mulTag},
		{Production: divSuffix, NodeValue: &divTag},
	})

	plus := production.NewTokenField[calcNode, calcTag](calcTagPlus, nil)
	minus := production.NewTokenField[calcNode, calcTag](calcTagMinus, nil)
	addSuffix := production.NewConcatWithSymbols[calcNode, calcTag]("AddSuffix", []packrat.IProduction[calcNode, calcTag]{plus, term})
	subSuffix := production.NewConcatWithSymbols[calcNode, calcTag]("SubSuffix", []packrat.IProduction[calcNode, calcTag]{minus, term})
	addTag, subTag := calcNodeAdd, calcNodeSub
	sum := production.NewSuffixesWithEntries[calcNode, calcTag]("Sum", term, true, []production.SuffixEntry[calcNode, calcTag]{
		{Production: addSuffix, NodeValue: &addTag},
		{Production: subSuffix, NodeValue: &subTag},
	})

	if err := expr.SetSymbols([]packrat.IProduction[calcNode, calcTag]{sum}); err != nil {
		return nil, err
	}

	return packrat.NewDefaultParser[calcNode, calcTag](
		tokenizer, expr, calcTagEOF, calcIsStructural, cache.NewFilteredFactory[calcNode](),
	)
}
