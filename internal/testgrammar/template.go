package testgrammar

import (
	packrat "github.com/dekarrin/packrat"
	"github.com/dekarrin/packrat/cache"
	"github.com/dekarrin/packrat/lexeme"
	"github.com/dekarrin/packrat/production"
	"github.com/dekarrin/packrat/tokenize"
)

// TemplateTag is the token tag alphabet of the template-literal grammar: a
// backtick-delimited string whose `${ident}` interpolations switch the
// tokenizer into a separate lexeme set, the state-stack scenario spec.md
// S3 exercises (MAIN -> TEMPLATE on backtick, TEMPLATE -> EXPR on "${",
// EXPR -> TEMPLATE on "}", TEMPLATE -> MAIN on the closing backtick).
type TemplateTag string

const (
	TagBacktick   TemplateTag = "BACKTICK"
	TagText       TemplateTag = "TEXT"
	TagInterpOpen TemplateTag = "INTERP_OPEN"
	TagInterpEnd  TemplateTag = "RBRACE"
	TagIdent      TemplateTag = "IDENT"
	TagTemplEOF   TemplateTag = "EOF"
)

const (
	stateMain     lexeme.State = "MAIN"
	stateTemplate lexeme.State = "TEMPLATE"
	stateExpr     lexeme.State = "EXPR"
)

// TemplateNode is the AST node tag alphabet of the template-literal
// grammar.
type TemplateNode int

const (
	NodeTemplate TemplateNode = iota
	NodeText
	NodeInterp
	NodeIdent
)

// NewTemplateTokenizer builds the three-state tokenizer described above.
func NewTemplateTokenizer() (*tokenize.StatefulTokenizer[TemplateTag], error) {
	backtick, err := lexeme.NewConstants[TemplateTag]([]lexeme.PunctuationEntry[TemplateTag]{
		{Literal: "`", Tag: TagBacktick},
	})
	if err != nil {
		return nil, err
	}
	backtickEnter := lexeme.NewStateMixin[TemplateTag](backtick, map[TemplateTag]lexeme.Action{
		TagBacktick: lexeme.AppendAction(stateTemplate, false),
	})

	ident, err := lexeme.NewPattern[TemplateTag](`^[a-zA-Z_][a-zA-Z0-9_]*`, TagIdent)
	if err != nil {
		return nil, err
	}

	text, err := lexeme.NewPattern[TemplateTag]("^[^`$]+", TagText)
	if err != nil {
		return nil, err
	}
	interpOpen, err := lexeme.NewConstants[TemplateTag]([]lexeme.PunctuationEntry[TemplateTag]{
		{Literal: "${", Tag: TagInterpOpen},
	})
	if err != nil {
		return nil, err
	}
	interpOpenPush := lexeme.NewStateMixin[TemplateTag](interpOpen, map[TemplateTag]lexeme.Action{
		TagInterpOpen: lexeme.AppendAction(stateExpr, false),
	})
	backtickExit, err := lexeme.NewConstants[TemplateTag]([]lexeme.PunctuationEntry[TemplateTag]{
		{Literal: "`", Tag: TagBacktick},
	})
	if err != nil {
		return nil, err
	}
	backtickLeave := lexeme.NewStateMixin[TemplateTag](backtickExit, map[TemplateTag]lexeme.Action{
		TagBacktick: lexeme.PopAction(false),
	})

	rbrace, err := lexeme.NewConstants[TemplateTag]([]lexeme.PunctuationEntry[TemplateTag]{
		{Literal: "}", Tag: TagInterpEnd},
	})
	if err != nil {
		return nil, err
	}
	rbracePop := lexeme.NewStateMixin[TemplateTag](rbrace, map[TemplateTag]lexeme.Action{
		TagInterpEnd: lexeme.PopAction(false),
	})
	ws, err := lexeme.NewPattern[TemplateTag](`^[ \t\r\n]+`, "WS")
	if err != nil {
		return nil, err
	}
	wsDiscard := lexeme.NewStateMixin[TemplateTag](ws, map[TemplateTag]lexeme.Action{"WS": lexeme.NoneAction(true)})

	t := tokenize.NewStatefulTokenizer[TemplateTag](TagTemplEOF, stateMain)
	t.AddState(stateMain, []lexeme.Lexeme[TemplateTag]{wsDiscard, ident, backtickEnter})
	t.AddState(stateTemplate, []lexeme.Lexeme[TemplateTag]{interpOpenPush, backtickLeave, text})
	t.AddState(stateExpr, []lexeme.Lexeme[TemplateTag]{wsDiscard, rbracePop, ident})
	return t, nil
}

func templateIsStructural(tag TemplateTag) bool { return true }

// NewTemplateParser builds the tokenized-driver DefaultParser for:
//
//	Template := BACKTICK Part* BACKTICK
//	Part     := TEXT | Interp
//	Interp   := INTERP_OPEN IDENT RBRACE
func NewTemplateParser() (*packrat.DefaultParser[TemplateNode, TemplateTag], error) {
	tokenizer, err := NewTemplateTokenizer()
	if err != nil {
		return nil, err
	}

	textTag := NodeText
	textField := production.NewTokenField[TemplateNode, TemplateTag](TagText, &textTag)

	identTag := NodeIdent
	identField := production.NewTokenField[TemplateNode, TemplateTag](TagIdent, &identTag)
	interpOpenField := production.NewTokenField[TemplateNode, TemplateTag](TagInterpOpen, nil)
	rbraceField := production.NewTokenField[TemplateNode, TemplateTag](TagInterpEnd, nil)
	interp := production.NewConcatWithSymbols[TemplateNode, TemplateTag]("Interp", []packrat.IProduction[TemplateNode, TemplateTag]{
		interpOpenField, identField, rbraceField,
	})
	interpTag := NodeInterp
	interpNode := production.NewNode[TemplateNode, TemplateTag](interp, &interpTag)

	part := production.NewUnionWithSymbols[TemplateNode, TemplateTag]("Part", []packrat.IProduction[TemplateNode, TemplateTag]{
		textField, interpNode,
	})
	partList := production.NewList[TemplateNode, TemplateTag](part)
	emptyParts := production.NewHidden[TemplateNode, TemplateTag](production.NewNullProd[TemplateNode, TemplateTag](NodeText))
	parts := production.NewUnionWithSymbols[TemplateNode, TemplateTag]("Parts", []packrat.IProduction[TemplateNode, TemplateTag]{
		partList, emptyParts,
	})

	backtickOpen := production.NewTokenField[TemplateNode, TemplateTag](TagBacktick, nil)
	backtickClose := production.NewTokenField[TemplateNode, TemplateTag](TagBacktick, nil)
	template := production.NewConcatWithSymbols[TemplateNode, TemplateTag]("Template", []packrat.IProduction[TemplateNode, TemplateTag]{
		backtickOpen, parts, backtickClose,
	})
	templateTag := NodeTemplate
	templateNode := production.NewNode[TemplateNode, TemplateTag](template, &templateTag)

	return packrat.NewDefaultParser[TemplateNode, TemplateTag](
		tokenizer, templateNode, TagTemplEOF, templateIsStructural, cache.NewFilteredFactory[TemplateNode](),
	)
}
