package debugserver

import (
	packrat "github.com/dekarrin/packrat"
	"github.com/dekarrin/packrat/cache"
	"github.com/dekarrin/packrat/lexeme"
	"github.com/dekarrin/packrat/production"
	"github.com/dekarrin/packrat/token"
	"github.com/dekarrin/packrat/tokenize"
)

// configTag is the token tag alphabet of the demo grammar this debug
// server parses on behalf of its /parse clients: a flat key = value
// config file, one entry per line, with "#" line comments.
type configTag string

const (
	tagKey     configTag = "KEY"
	tagEquals  configTag = "EQUALS"
	tagValue   configTag = "VALUE"
	tagNewline configTag = "NEWLINE"
	tagWS      configTag = "WS"
	tagComment configTag = "COMMENT"
	tagEOF     configTag = "EOF"
)

// configNode is the AST node tag alphabet of the config grammar.
type configNode int

const (
	nodeDocument configNode = iota
	nodeEntry
	nodeKey
	nodeValue
)

func (n configNode) String() string {
	switch n {
	case nodeDocument:
		return "Document"
	case nodeEntry:
		return "Entry"
	case nodeKey:
		return "Key"
	case nodeValue:
		return "Value"
	default:
		return "?"
	}
}

func newConfigTokenizer() (*tokenize.Tokenizer[configTag], error) {
	key, err := lexeme.NewPattern[configTag](`^[a-zA-Z_][a-zA-Z0-9_.-]*`, tagKey)
	if err != nil {
		return nil, err
	}
	value, err := lexeme.NewPattern[configTag]("^[^\n#]+", tagValue)
	if err != nil {
		return nil, err
	}
	comment, err := lexeme.NewPattern[configTag]("^#[^\n]*", tagComment)
	if err != nil {
		return nil, err
	}
	commentDiscard := lexeme.NewStateMixin[configTag](comment, map[configTag]lexeme.Action{
		tagComment: lexeme.NoneAction(true),
	})
	nl, err := lexeme.NewPattern[configTag]("^\n+", tagNewline)
	if err != nil {
		return nil, err
	}
	ws, err := lexeme.NewPattern[configTag]("^[ \t]+", tagWS)
	if err != nil {
		return nil, err
	}
	wsDiscard := lexeme.NewStateMixin[configTag](ws, map[configTag]lexeme.Action{
		tagWS: lexeme.NoneAction(true),
	})
	eq, err := lexeme.NewPunctuations[configTag]([]lexeme.PunctuationEntry[configTag]{
		{Literal: "=", Tag: tagEquals},
	})
	if err != nil {
		return nil, err
	}
	valueAfterEq := lexeme.NewMiddleware[configTag](value, func(_ []byte, _ int, history []token.Token[configTag]) bool {
		return len(history) > 0 && history[len(history)-1].Tag == tagEquals
	})
	return tokenize.NewTokenizer[configTag](tagEOF, []lexeme.Lexeme[configTag]{
		wsDiscard, commentDiscard, nl, valueAfterEq, key, eq,
	}), nil
}

func configIsStructural(tag configTag) bool { return tag != tagWS && tag != tagComment }

// newConfigParser builds the grammar:
//
//	Document := (NEWLINE | Entry)*
//	Entry    := KEY EQUALS VALUE?
func newConfigParser() (*packrat.DefaultParser[configNode, configTag], error) {
	tokenizer, err := newConfigTokenizer()
	if err != nil {
		return nil, err
	}

	keyTag := nodeKey
	keyField := production.NewTokenField[configNode, configTag](tagKey, &keyTag)
	eqField := production.NewTokenField[configNode, configTag](tagEquals, nil)
	valTag := nodeValue
	valField := production.NewTokenField[configNode, configTag](tagValue, &valTag)
	noVal := production.NewHidden[configNode, configTag](production.NewNullProd[configNode, configTag](nodeValue))
	val := production.NewUnionWithSymbols[configNode, configTag]("Value", []packrat.IProduction[configNode, configTag]{
		valField, noVal,
	})

	entry := production.NewConcatWithSymbols[configNode, configTag]("Entry", []packrat.IProduction[configNode, configTag]{
		keyField, eqField, val,
	})
	entryTag := nodeEntry
	entryNode := production.NewNode[configNode, configTag](entry, &entryTag)

	nlField := production.NewTokenField[configNode, configTag](tagNewline, nil)
	line := production.NewUnionWithSymbols[configNode, configTag]("Line", []packrat.IProduction[configNode, configTag]{
		entryNode, nlField,
	})
	lines := production.NewList[configNode, configTag](line)
	noLines := production.NewHidden[configNode, configTag](production.NewNullProd[configNode, configTag](nodeDocument))
	document := production.NewUnionWithSymbols[configNode, configTag]("Document", []packrat.IProduction[configNode, configTag]{
		lines, noLines,
	})
	docTag := nodeDocument
	docNode := production.NewNode[configNode, configTag](document, &docTag)

	return packrat.NewDefaultParser[configNode, configTag](
		tokenizer, docNode, tagEOF, configIsStructural, cache.NewFilteredFactory[configNode](),
	)
}
