package packrat

import (
	"fmt"

	"github.com/dekarrin/packrat/perr"
	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/stream"
	"github.com/dekarrin/packrat/token"
	"github.com/dekarrin/rosed"
)

// errWrapWidth is the column width ParseError messages are wrapped to
// before being handed back to a caller that prints them straight to a
// terminal.
const errWrapWidth = 80

// Debug controls the verbosity of ParseErrors built by createFilteredError
// and createByteError. Left false, a failure renders only the offending
// text and its line:col. Set to true, it adds the farthest-reached byte
// position and, for the tokenized driver, the offending token's tag.
//
// This is separate from cache.Debug rather than importing it: cache
// already imports this package to satisfy MemoTable, so the reverse import
// would cycle.
var Debug bool

// ITokenization is implemented by tokenize.Tokenizer and
// tokenize.StatefulTokenizer: anything that turns source bytes into a
// token vector and can render its own grammar.
type ITokenization[TL token.Tag] interface {
	Tokenize(code *position.Code) ([]token.Token[TL], error)
	BuildGrammar() string
}

// ByteMemoTable is the MemoTable instantiation used by the lexerless
// driver, keyed by raw byte offset.
type ByteMemoTable[TN NodeTag] MemoTable[int, TN]

// FilteredMemoTable is the MemoTable instantiation shared by the
// raw-token and filtered-token drivers, whose memoized results report
// structural-token indices; entries are still keyed by byte position
// (spec.md §4.7: both advance_fltr_ptr and advance_token_ptr share one
// cache).
type FilteredMemoTable[TN NodeTag] MemoTable[stream.FilteredPtr, TN]

// FilteredCacheFactory and ByteCacheFactory build a fresh, empty memo
// table of the given kind. They are supplied by the cache package at parser-construction time to keep this
// package from importing cache directly.
type FilteredCacheFactory[TN NodeTag] func() FilteredMemoTable[TN]
type ByteCacheFactory[TN NodeTag] func() ByteMemoTable[TN]

// DefaultParser is a tokenized-driver parser: it runs a tokenizer over the
// source, filters to structural tokens, then parses the filtered stream
// (spec.md §4.6, §6).
type DefaultParser[TN NodeTag, TL token.Tag] struct {
	tokenizer      ITokenization[TL]
	root           IProduction[TN, TL]
	eofTag         TL
	isStructural   func(TL) bool
	newCache       FilteredCacheFactory[TN]
	debugProds     map[string]IProduction[TN, TL]
}

// NewDefaultParser builds and validates a tokenized-driver parser.
// newCache must build a fresh FilteredMemoTable for each parse (normally
// cache.NewFilteredFactory).
func NewDefaultParser[TN NodeTag, TL token.Tag](tokenizer ITokenization[TL], root IProduction[TN, TL], eofTag TL, isStructural func(TL) bool, newCache FilteredCacheFactory[TN]) (*DefaultParser[TN, TL], error) {
	p := &DefaultParser[TN, TL]{
		tokenizer:    tokenizer,
		root:         root,
		eofTag:       eofTag,
		isStructural: isStructural,
		newCache:     newCache,
		debugProds:   make(map[string]IProduction[TN, TL]),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Grammar renders the root production's grammar followed by the
// tokenizer's.
func (p *DefaultParser[TN, TL]) Grammar() (string, error) {
	g, err := BuildGrammar[TN, TL](p.root)
	if err != nil {
		return "", err
	}
	return g + p.tokenizer.BuildGrammar(), nil
}

// Validate runs the left-recursion validation pass over the whole
// production graph.
func (p *DefaultParser[TN, TL]) Validate() error {
	return p.root.Validate(make(map[string]int), make(map[string]bool))
}

// Tokenize runs the tokenizer alone.
func (p *DefaultParser[TN, TL]) Tokenize(code *position.Code) ([]token.Token[TL], error) {
	return p.tokenizer.Tokenize(code)
}

// ParseStream parses an already-tokenized stream.
func (p *DefaultParser[TN, TL]) ParseStream(code *position.Code, ts *stream.TokenStream[TL]) ([]ASTNode[TN], error) {
	cache := p.newCache()
	data, err := p.root.AdvanceFilteredPtr(code, 0, ts, cache)
	if err != nil {
		return nil, createFilteredError(code, ts, p.eofTag, cache.MaxParsedPoint(), err)
	}
	return data.Children, nil
}

// TokenizeAndParse tokenizes text and parses the result, returning both
// the raw token vector and the parsed AST forest.
func (p *DefaultParser[TN, TL]) TokenizeAndParse(text []byte) ([]token.Token[TL], []ASTNode[TN], error) {
	code := position.New(text)
	toks, err := p.Tokenize(code)
	if err != nil {
		return nil, nil, err
	}
	ts := stream.New(toks, p.eofTag, p.isStructural)
	tree, err := p.ParseStream(code, ts)
	if err != nil {
		return nil, nil, err
	}
	return toks, tree, nil
}

// Parse tokenizes and parses text, discarding the raw token vector.
func (p *DefaultParser[TN, TL]) Parse(text []byte) ([]ASTNode[TN], error) {
	_, tree, err := p.TokenizeAndParse(text)
	return tree, err
}

// AddDebugProduction registers production under id so DebugProductionAt
// can invoke it directly.
func (p *DefaultParser[TN, TL]) AddDebugProduction(id string, production IProduction[TN, TL]) {
	p.debugProds[id] = production
}

// DebugProductionAt tokenizes text and runs the registered production id
// starting from the structural index nearest pointer, independent of the
// root production.
func (p *DefaultParser[TN, TL]) DebugProductionAt(id string, text []byte, pointer int) ([]ASTNode[TN], error) {
	production, ok := p.debugProds[id]
	if !ok {
		return nil, perr.NewParseError(0, fmt.Sprintf("Production %s is not added for debugging.", id))
	}
	code := position.New(text)
	toks, err := p.Tokenize(code)
	if err != nil {
		return nil, err
	}
	ts := stream.New(toks, p.eofTag, p.isStructural)
	index, _ := ts.FilteredIndexAt(pointer)

	cache := p.newCache()
	cache.UpdateIndex(pointer)
	data, err := production.AdvanceFilteredPtr(code, index, ts, cache)
	if err != nil {
		return nil, createFilteredError(code, ts, p.eofTag, cache.MaxParsedPoint(), err)
	}
	return data.Children, nil
}

// LexerlessParser is a byte-driven parser: it has no separate tokenization
// phase and runs productions directly over the source bytes (spec.md
// §4.6, §6).
type LexerlessParser[TN NodeTag, TL token.Tag] struct {
	root       IProduction[TN, TL]
	newCache   ByteCacheFactory[TN]
	debugProds map[string]IProduction[TN, TL]
}

// NewLexerlessParser builds and validates a lexerless parser.
func NewLexerlessParser[TN NodeTag, TL token.Tag](root IProduction[TN, TL], newCache ByteCacheFactory[TN]) (*LexerlessParser[TN, TL], error) {
	p := &LexerlessParser[TN, TL]{root: root, newCache: newCache, debugProds: make(map[string]IProduction[TN, TL])}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Grammar renders the root production's grammar.
func (p *LexerlessParser[TN, TL]) Grammar() (string, error) {
	return BuildGrammar[TN, TL](p.root)
}

// Validate runs the left-recursion validation pass over the whole
// production graph.
func (p *LexerlessParser[TN, TL]) Validate() error {
	return p.root.Validate(make(map[string]int), make(map[string]bool))
}

// Parse parses text directly, byte by byte.
func (p *LexerlessParser[TN, TL]) Parse(text []byte) ([]ASTNode[TN], error) {
	code := position.New(text)
	cache := p.newCache()
	data, err := p.root.AdvanceBytePtr(code, 0, cache)
	if err != nil {
		return nil, createByteError(code, cache.MaxParsedPoint(), err)
	}
	return data.Children, nil
}

// AddDebugProduction registers production under id so DebugProductionAt
// can invoke it directly.
func (p *LexerlessParser[TN, TL]) AddDebugProduction(id string, production IProduction[TN, TL]) {
	p.debugProds[id] = production
}

// DebugProductionAt runs the registered production id starting at pointer,
// independent of the root production.
func (p *LexerlessParser[TN, TL]) DebugProductionAt(id string, text []byte, pointer int) ([]ASTNode[TN], error) {
	production, ok := p.debugProds[id]
	if !ok {
		return nil, perr.NewParseError(0, fmt.Sprintf("Production %s is not added for debugging.", id))
	}
	code := position.New(text)
	cache := p.newCache()
	cache.UpdateIndex(pointer)
	data, err := production.AdvanceBytePtr(code, pointer, cache)
	if err != nil {
		return nil, createByteError(code, cache.MaxParsedPoint(), err)
	}
	return data.Children, nil
}

// createFilteredError renders a ProductionError into a ParseError using the
// tokenized driver's localization rule (spec.md §4.7): an Unparsed error
// points at the token just past the farthest position the cache reached; a
// Validation error carries its own position.
func createFilteredError[TL token.Tag](code *position.Code, ts *stream.TokenStream[TL], eofTag TL, maxParsedPoint int, err error) error {
	var message string
	var pointer int

	if perr.IsUnparsed(err) {
		failed, exact := ts.FilteredIndexAt(maxParsedPoint)
		if exact {
			failed++
		}
		if int(failed) < ts.FilteredLen() {
			tok := ts.Filtered(failed)
			if tok.Tag == eofTag {
				message = "Unexpected end of file."
			} else {
				s := tok.Text(code.Value)
				message = fmt.Sprintf("Unexpected %q.", s)
			}
			if Debug {
				message = fmt.Sprintf("%s (tag %v, farthest byte %d)", message, tok.Tag, maxParsedPoint)
			}
			pointer = tok.Start
		} else {
			message = "Unexpected end of file."
			if Debug {
				message = fmt.Sprintf("%s (farthest byte %d)", message, maxParsedPoint)
			}
			pointer = code.Len()
		}
	} else {
		pointer = perr.PositionOf(err)
		message = perr.MessageOf(err)
	}

	pos := code.At(pointer)
	full := rosed.Edit(fmt.Sprintf("%s Failed to parse at %d:%d.", message, pos.Line, pos.Col)).Wrap(errWrapWidth).String()
	return perr.NewParseError(pointer, full)
}

// createByteError renders a ProductionError into a ParseError using the
// lexerless driver's localization rule: an Unparsed error points at the
// single byte just past the cache's farthest progress.
func createByteError(code *position.Code, maxParsedPoint int, err error) error {
	var message string
	var pointer int

	if perr.IsUnparsed(err) {
		pointer = maxParsedPoint
		if pointer >= code.Len() {
			message = "Unexpected end of file."
		} else {
			message = fmt.Sprintf("Unexpected %q.", string(code.Value[pointer:pointer+1]))
		}
		if Debug {
			message = fmt.Sprintf("%s (farthest byte %d)", message, maxParsedPoint)
		}
	} else {
		pointer = perr.PositionOf(err)
		message = perr.MessageOf(err)
	}

	pos := code.At(pointer)
	full := rosed.Edit(fmt.Sprintf("%s Failed to parse at %d:%d.", message, pos.Line, pos.Col)).Wrap(errWrapWidth).String()
	return perr.NewParseError(pointer, full)
}
