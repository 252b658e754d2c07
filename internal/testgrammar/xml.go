package testgrammar

import (
	packrat "github.com/dekarrin/packrat"
	"github.com/dekarrin/packrat/cache"
	"github.com/dekarrin/packrat/lexeme"
	"github.com/dekarrin/packrat/perr"
	"github.com/dekarrin/packrat/production"
	"github.com/dekarrin/packrat/tokenize"
)

// XMLTag is the token tag alphabet of the tag-matching grammar: a grammar
// alone can't express "the closing tag's name equals the opening tag's
// name," so matching names is pushed into a production.Validator run
// against the parsed tree (spec.md S5).
type XMLTag string

const (
	XMLTagLT    XMLTag = "LT"
	XMLTagGT    XMLTag = "GT"
	XMLTagSlash XMLTag = "SLASH"
	XMLTagIdent XMLTag = "IDENT"
	XMLTagText  XMLTag = "TEXT"
	XMLTagWS    XMLTag = "WS"
	XMLTagEOF   XMLTag = "EOF"
)

// XMLNode is the AST node tag alphabet of the tag-matching grammar.
type XMLNode int

const (
	NodeElement XMLNode = iota
	NodeOpenTag
	NodeCloseTag
	NodeTagName
	NodeContent
)

// NewXMLTokenizer builds the single-state tokenizer for a minimal
// element grammar: "<", ">", "/", a name, and everything else as text.
func NewXMLTokenizer() (*tokenize.Tokenizer[XMLTag], error) {
	punct, err := lexeme.NewPunctuations[XMLTag]([]lexeme.PunctuationEntry[XMLTag]{
		{Literal: "<", Tag: XMLTagLT},
		{Literal: ">", Tag: XMLTagGT},
		{Literal: "/", Tag: XMLTagSlash},
	})
	if err != nil {
		return nil, err
	}
	ident, err := lexeme.NewPattern[XMLTag](`^[a-zA-Z_][a-zA-Z0-9_]*`, XMLTagIdent)
	if err != nil {
		return nil, err
	}
	text, err := lexeme.NewPattern[XMLTag]("^[^<]+", XMLTagText)
	if err != nil {
		return nil, err
	}
	return tokenize.NewTokenizer[XMLTag](XMLTagEOF, []lexeme.Lexeme[XMLTag]{
		punct, ident, text,
	}), nil
}

func xmlIsStructural(tag XMLTag) bool { return true }

// tagNameOf returns the byte range of the single IDENT leaf nested inside
// a tag node (a child of NodeOpenTag or NodeCloseTag).
func tagNameOf(tagNode packrat.ASTNode[XMLNode]) (start, end int, ok bool) {
	for _, c := range tagNode.Children {
		if c.Tag == NodeTagName {
			return c.Start, c.End, true
		}
	}
	return 0, 0, false
}

// validateMatchingTags is the ValidationFunc enforcing that an Element's
// open and close tag names are byte-for-byte identical, rejecting the
// match as a hard failure (not a soft "try the next alternative" one)
// when they are not.
func validateMatchingTags(children []packrat.ASTNode[XMLNode], source []byte) *perr.ProductionError {
	if len(children) != 1 || children[0].Tag != NodeElement {
		return perr.NewValidation(0, "expected a single element node")
	}
	elemChildren := children[0].Children

	var open, close *packrat.ASTNode[XMLNode]
	for i := range elemChildren {
		switch elemChildren[i].Tag {
		case NodeOpenTag:
			open = &elemChildren[i]
		case NodeCloseTag:
			close = &elemChildren[i]
		}
	}
	if open == nil || close == nil {
		return perr.NewValidation(0, "element is missing an open or close tag")
	}
	os, oe, ok := tagNameOf(*open)
	if !ok {
		return perr.NewValidation(open.Start, "open tag has no name")
	}
	cs, ce, ok := tagNameOf(*close)
	if !ok {
		return perr.NewValidation(close.Start, "close tag has no name")
	}
	openName, closeName := string(source[os:oe]), string(source[cs:ce])
	if openName != closeName {
		return perr.NewValidationf(close.Start, "mismatched closing tag: expected %q, got %q", openName, closeName)
	}
	return nil
}

// NewXMLParser builds the tokenized-driver DefaultParser for:
//
//	Element  := OpenTag Content? CloseTag, validated
//	OpenTag  := LT IDENT GT
//	CloseTag := LT SLASH IDENT GT
//	Content  := TEXT
func NewXMLParser() (*packrat.DefaultParser[XMLNode, XMLTag], error) {
	tokenizer, err := NewXMLTokenizer()
	if err != nil {
		return nil, err
	}

	lt := production.NewTokenField[XMLNode, XMLTag](XMLTagLT, nil)
	gt := production.NewTokenField[XMLNode, XMLTag](XMLTagGT, nil)
	slash := production.NewTokenField[XMLNode, XMLTag](XMLTagSlash, nil)
	nameTag := NodeTagName
	openName := production.NewTokenField[XMLNode, XMLTag](XMLTagIdent, &nameTag)
	closeName := production.NewTokenField[XMLNode, XMLTag](XMLTagIdent, &nameTag)

	openTag := production.NewConcatWithSymbols[XMLNode, XMLTag]("OpenTag", []packrat.IProduction[XMLNode, XMLTag]{
		lt, openName, gt,
	})
	openTagTag := NodeOpenTag
	openTagNode := production.NewNode[XMLNode, XMLTag](openTag, &openTagTag)

	closeTag := production.NewConcatWithSymbols[XMLNode, XMLTag]("CloseTag", []packrat.IProduction[XMLNode, XMLTag]{
		lt, slash, closeName, gt,
	})
	closeTagTag := NodeCloseTag
	closeTagNode := production.NewNode[XMLNode, XMLTag](closeTag, &closeTagTag)

	contentTag := NodeContent
	contentField := production.NewTokenField[XMLNode, XMLTag](XMLTagText, &contentTag)
	noContent := production.NewHidden[XMLNode, XMLTag](production.NewNullProd[XMLNode, XMLTag](NodeContent))
	content := production.NewUnionWithSymbols[XMLNode, XMLTag]("Content", []packrat.IProduction[XMLNode, XMLTag]{
		contentField, noContent,
	})

	element := production.NewConcatWithSymbols[XMLNode, XMLTag]("Element", []packrat.IProduction[XMLNode, XMLTag]{
		openTagNode, content, closeTagNode,
	})
	elementTag := NodeElement
	elementNode := production.NewNode[XMLNode, XMLTag](element, &elementTag)
	validated := production.NewValidator[XMLNode, XMLTag](elementNode, validateMatchingTags)

	return packrat.NewDefaultParser[XMLNode, XMLTag](
		tokenizer, validated, XMLTagEOF, xmlIsStructural, cache.NewFilteredFactory[XMLNode](),
	)
}
