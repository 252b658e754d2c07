// Package testgrammar bundles small, complete grammars exercised only by
// this module's own test suites: scenarios S1–S6 each need a realistic
// grammar to run a Tokenizer/DefaultParser round trip against, and
// building one ad hoc per _test.go file would duplicate the same
// TokenField/Concat/Union wiring across packages. Nothing outside a
// _test.go file may import this package.
package testgrammar

import (
	packrat "github.com/dekarrin/packrat"
	"github.com/dekarrin/packrat/cache"
	"github.com/dekarrin/packrat/lexeme"
	"github.com/dekarrin/packrat/production"
	"github.com/dekarrin/packrat/tokenize"
)

// JSONTag is the token tag alphabet of the JSON grammar.
type JSONTag string

const (
	TagLBrace   JSONTag = "LBRACE"
	TagRBrace   JSONTag = "RBRACE"
	TagLBracket JSONTag = "LBRACKET"
	TagRBracket JSONTag = "RBRACKET"
	TagColon    JSONTag = "COLON"
	TagComma    JSONTag = "COMMA"
	TagString   JSONTag = "STRING"
	TagNumber   JSONTag = "NUMBER"
	TagTrue     JSONTag = "TRUE"
	TagFalse    JSONTag = "FALSE"
	TagNull     JSONTag = "NULL"
	TagWS       JSONTag = "WS"
	TagEOF      JSONTag = "EOF"
)

// JSONNode is the AST node tag alphabet of the JSON grammar.
type JSONNode int

const (
	NodeObject JSONNode = iota
	NodeArray
	NodePair
	NodeString
	NodeNumber
	NodeTrue
	NodeFalse
	NodeNull
)

// NewJSONTokenizer builds the single-state tokenizer for JSON text: string
// and number literals by regex, the six punctuation marks by longest-match
// trie (spec.md testable property 2 — S2 exercises this same lexeme.
// Punctuations combinator), the three keyword literals, and whitespace
// discarded via a StateMixin with a no-op action.
func NewJSONTokenizer() (*tokenize.Tokenizer[JSONTag], error) {
	str, err := lexeme.NewPattern[JSONTag](`^"([^"\\]|\\.)*"`, TagString)
	if err != nil {
		return nil, err
	}
	num, err := lexeme.NewPattern[JSONTag](`^-?[0-9]+(\.[0-9]+)?`, TagNumber)
	if err != nil {
		return nil, err
	}
	wsPattern, err := lexeme.NewPattern[JSONTag](`^[ \t\r\n]+`, TagWS)
	if err != nil {
		return nil, err
	}
	ws := lexeme.NewStateMixin[JSONTag](wsPattern, map[JSONTag]lexeme.Action{
		TagWS: lexeme.NoneAction(true),
	})
	trueLit, err := lexeme.NewPattern[JSONTag](`^true`, TagTrue)
	if err != nil {
		return nil, err
	}
	falseLit, err := lexeme.NewPattern[JSONTag](`^false`, TagFalse)
	if err != nil {
		return nil, err
	}
	nullLit, err := lexeme.NewPattern[JSONTag](`^null`, TagNull)
	if err != nil {
		return nil, err
	}
	punct, err := lexeme.NewPunctuations[JSONTag]([]lexeme.PunctuationEntry[JSONTag]{
		{Literal: "{", Tag: TagLBrace},
		{Literal: "}", Tag: TagRBrace},
		{Literal: "[", Tag: TagLBracket},
		{Literal: "]", Tag: TagRBracket},
		{Literal: ":", Tag: TagColon},
		{Literal: ",", Tag: TagComma},
	})
	if err != nil {
		return nil, err
	}

	return tokenize.NewTokenizer[JSONTag](TagEOF, []lexeme.Lexeme[JSONTag]{
		ws, trueLit, falseLit, nullLit, str, num, punct,
	}), nil
}

func jsonIsStructural(tag JSONTag) bool {
	return tag != TagWS
}

// NewJSONParser builds the tokenized-driver DefaultParser for a JSON
// value, wired end to end (tokenizer + production graph). Objects and
// arrays use an exclusive SeparatedList (spec.md S4: no trailing comma is
// accepted), with the empty-collection case handled by falling back to a
// hidden null alternative.
func NewJSONParser() (*packrat.DefaultParser[JSONNode, JSONTag], error) {
	tokenizer, err := NewJSONTokenizer()
	if err != nil {
		return nil, err
	}

	value := production.NewUnion[JSONNode, JSONTag]("Value")

	strTag := NodeString
	strField := production.NewTokenField[JSONNode, JSONTag](TagString, &strTag)
	numTag := NodeNumber
	numField := production.NewTokenField[JSONNode, JSONTag](TagNumber, &numTag)
	trueTag := NodeTrue
	trueField := production.NewTokenField[JSONNode, JSONTag](TagTrue, &trueTag)
	falseTag := NodeFalse
	falseField := production.NewTokenField[JSONNode, JSONTag](TagFalse, &falseTag)
	nullTag := NodeNull
	nullField := production.NewTokenField[JSONNode, JSONTag](TagNull, &nullTag)

	colon := production.NewTokenField[JSONNode, JSONTag](TagColon, nil)
	comma := production.NewTokenField[JSONNode, JSONTag](TagComma, nil)
	lbrace := production.NewTokenField[JSONNode, JSONTag](TagLBrace, nil)
	rbrace := production.NewTokenField[JSONNode, JSONTag](TagRBrace, nil)
	lbracket := production.NewTokenField[JSONNode, JSONTag](TagLBracket, nil)
	rbracket := production.NewTokenField[JSONNode, JSONTag](TagRBracket, nil)

	pairTag := NodePair
	pair := production.NewConcatWithSymbols[JSONNode, JSONTag]("Pair", []packrat.IProduction[JSONNode, JSONTag]{
		strField, colon, value,
	})
	pairNode := production.NewNode[JSONNode, JSONTag](pair, &pairTag)

	pairList := production.NewSeparatedList[JSONNode, JSONTag](pairNode, comma, false)
	emptyMembers := production.NewHidden[JSONNode, JSONTag](production.NewNullProd[JSONNode, JSONTag](NodePair))
	members := production.NewUnionWithSymbols[JSONNode, JSONTag]("Members", []packrat.IProduction[JSONNode, JSONTag]{
		pairList, emptyMembers,
	})
	objectTag := NodeObject
	object := production.NewConcatWithSymbols[JSONNode, JSONTag]("Object", []packrat.IProduction[JSONNode, JSONTag]{
		lbrace, members, rbrace,
	})
	objectNode := production.NewNode[JSONNode, JSONTag](object, &objectTag)

	elemList := production.NewSeparatedList[JSONNode, JSONTag](value, comma, false)
	emptyElems := production.NewHidden[JSONNode, JSONTag](production.NewNullProd[JSONNode, JSONTag](NodeArray))
	elements := production.NewUnionWithSymbols[JSONNode, JSONTag]("Elements", []packrat.IProduction[JSONNode, JSONTag]{
		elemList, emptyElems,
	})
	arrayTag := NodeArray
	array := production.NewConcatWithSymbols[JSONNode, JSONTag]("Array", []packrat.IProduction[JSONNode, JSONTag]{
		lbracket, elements, rbracket,
	})
	arrayNode := production.NewNode[JSONNode, JSONTag](array, &arrayTag)

	if err := value.SetSymbols([]packrat.IProduction[JSONNode, JSONTag]{
		objectNode, arrayNode, strField, numField, trueField, falseField, nullField,
	}); err != nil {
		return nil, err
	}

	return packrat.NewDefaultParser[JSONNode, JSONTag](
		tokenizer, value, TagEOF, jsonIsStructural, cache.NewFilteredFactory[JSONNode](),
	)
}
