// Package production implements the terminal and non-terminal combinators
// used to assemble a grammar: productions that match tokens or raw bytes,
// and wrappers that concatenate, alternate, repeat, or otherwise combine
// other productions (spec.md §4.5–§4.6).
package production

import (
	"fmt"
	"io"
	"sort"

	packrat "github.com/dekarrin/packrat"
	"github.com/dekarrin/packrat/perr"
	"github.com/dekarrin/packrat/plog"
	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/stream"
	"github.com/dekarrin/packrat/token"
)

func panicNotApplicable(name, mode string) {
	panic(fmt.Sprintf("packrat/production: %s is not applicable in %s mode", name, mode))
}

// TokenField matches a single token tag exactly, consuming one token.
// Token-driven only; panics if invoked byte-driven (spec.md §4.5).
type TokenField[TN packrat.NodeTag, TL token.Tag] struct {
	tag       TL
	nodeValue *TN
	log       plog.Cell[plog.Label]
}

// NewTokenField builds a TokenField matching tag. nodeValue, if non-nil,
// is the tag of the single leaf emitted on a match; nil hides the match
// from the AST.
func NewTokenField[TN packrat.NodeTag, TL token.Tag](tag TL, nodeValue *TN) *TokenField[TN, TL] {
	return &TokenField[TN, TL]{tag: tag, nodeValue: nodeValue}
}

func (p *TokenField[TN, TL]) SetLog(label plog.Label) error { return p.log.Set(label) }

func (p *TokenField[TN, TL]) String() string {
	if p.nodeValue != nil {
		return fmt.Sprintf("[&%v; %v]", p.tag, *p.nodeValue)
	}
	return fmt.Sprintf("[&%v; ]", p.tag)
}

func (p *TokenField[TN, TL]) IsNullable() bool         { return false }
func (p *TokenField[TN, TL]) IsNullableAndHidden() bool { return false }

func (p *TokenField[TN, TL]) ObtainNullability(_ map[string]int) (bool, error) { return false, nil }
func (p *TokenField[TN, TL]) FirstSet(set map[TL]struct{})                    { set[p.tag] = struct{}{} }
func (p *TokenField[TN, TL]) ImplGrammar(_ io.Writer, _ map[string]bool) error { return nil }
func (p *TokenField[TN, TL]) Validate(_ map[string]int, _ map[string]bool) error {
	return nil
}

func (p *TokenField[TN, TL]) match(tok token.Token[TL], bound packrat.Bound) (packrat.ASTNode[TN], bool) {
	if tok.Tag != p.tag {
		var zero packrat.ASTNode[TN]
		return zero, false
	}
	if p.nodeValue == nil {
		var zero packrat.ASTNode[TN]
		return zero, true
	}
	return packrat.Leaf(*p.nodeValue, tok.Start, tok.End, &bound), true
}

func (p *TokenField[TN, TL]) AdvanceFilteredPtr(_ *position.Code, index stream.FilteredPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	tok := ts.Filtered(index)
	raw := ts.RawPtrForFiltered(index)
	node, ok := p.match(tok, packrat.Bound{Start: raw, End: raw + 1})
	if !ok {
		var zero packrat.SuccessData[stream.FilteredPtr, TN]
		return zero, perr.Unparsed
	}
	cache.UpdateIndex(tok.End)
	if p.nodeValue == nil {
		return packrat.HiddenSuccess[stream.FilteredPtr, TN](index + 1), nil
	}
	return packrat.TreeSuccess(index+1, node), nil
}

func (p *TokenField[TN, TL]) AdvanceRawPtr(_ *position.Code, index stream.RawPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	tok := ts.Raw(index)
	node, ok := p.match(tok, packrat.Bound{Start: index, End: index + 1})
	if !ok {
		var zero packrat.SuccessData[stream.RawPtr, TN]
		return zero, perr.Unparsed
	}
	cache.UpdateIndex(tok.End)
	if p.nodeValue == nil {
		return packrat.HiddenSuccess[stream.RawPtr, TN](index + 1), nil
	}
	return packrat.TreeSuccess(index+1, node), nil
}

func (p *TokenField[TN, TL]) AdvanceBytePtr(_ *position.Code, _ int, _ packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	panicNotApplicable("TokenField", "lexerless/byte-driven")
	panic("unreachable")
}

// TokenFieldSet matches any one tag from a sorted set, token-driven only.
type TokenFieldSet[TN packrat.NodeTag, TL token.Tag] struct {
	entries []tokenFieldEntry[TN, TL]
	log     plog.Cell[plog.Label]
}

type tokenFieldEntry[TN packrat.NodeTag, TL token.Tag] struct {
	tag       TL
	nodeValue *TN
}

// NewTokenFieldSet builds a TokenFieldSet, sorted internally by tag for
// binary-search lookup.
func NewTokenFieldSet[TN packrat.NodeTag, TL token.Tag](pairs []struct {
	Tag       TL
	NodeValue *TN
}) *TokenFieldSet[TN, TL] {
	entries := make([]tokenFieldEntry[TN, TL], len(pairs))
	for i, pr := range pairs {
		entries[i] = tokenFieldEntry[TN, TL]{tag: pr.Tag, nodeValue: pr.NodeValue}
	}
	sort.Slice(entries, func(i, j int) bool { return anyLess(entries[i].tag, entries[j].tag) })
	return &TokenFieldSet[TN, TL]{entries: entries}
}

func (p *TokenFieldSet[TN, TL]) SetLog(label plog.Label) error { return p.log.Set(label) }

func (p *TokenFieldSet[TN, TL]) String() string {
	parts := make([]string, len(p.entries))
	for i, e := range p.entries {
		if e.nodeValue != nil {
			parts[i] = fmt.Sprintf("[&%v; %v]", e.tag, *e.nodeValue)
		} else {
			parts[i] = fmt.Sprintf("[&%v; ]", e.tag)
		}
	}
	return "(" + joinPipe(parts) + ")"
}

func (p *TokenFieldSet[TN, TL]) IsNullable() bool          { return false }
func (p *TokenFieldSet[TN, TL]) IsNullableAndHidden() bool { return false }
func (p *TokenFieldSet[TN, TL]) ObtainNullability(_ map[string]int) (bool, error) {
	return false, nil
}
func (p *TokenFieldSet[TN, TL]) FirstSet(set map[TL]struct{}) {
	for _, e := range p.entries {
		set[e.tag] = struct{}{}
	}
}
func (p *TokenFieldSet[TN, TL]) ImplGrammar(_ io.Writer, _ map[string]bool) error { return nil }
func (p *TokenFieldSet[TN, TL]) Validate(_ map[string]int, _ map[string]bool) error {
	return nil
}

func (p *TokenFieldSet[TN, TL]) find(tag TL) (*tokenFieldEntry[TN, TL], bool) {
	i := sort.Search(len(p.entries), func(i int) bool { return !anyLess(p.entries[i].tag, tag) })
	if i < len(p.entries) && p.entries[i].tag == tag {
		return &p.entries[i], true
	}
	return nil, false
}

func (p *TokenFieldSet[TN, TL]) AdvanceFilteredPtr(_ *position.Code, index stream.FilteredPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	tok := ts.Filtered(index)
	e, ok := p.find(tok.Tag)
	if !ok {
		var zero packrat.SuccessData[stream.FilteredPtr, TN]
		return zero, perr.Unparsed
	}
	cache.UpdateIndex(tok.End)
	if e.nodeValue == nil {
		return packrat.HiddenSuccess[stream.FilteredPtr, TN](index + 1), nil
	}
	raw := ts.RawPtrForFiltered(index)
	bound := packrat.Bound{Start: raw, End: raw + 1}
	node := packrat.Leaf(*e.nodeValue, tok.Start, tok.End, &bound)
	return packrat.TreeSuccess(index+1, node), nil
}

func (p *TokenFieldSet[TN, TL]) AdvanceRawPtr(_ *position.Code, index stream.RawPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	tok := ts.Raw(index)
	e, ok := p.find(tok.Tag)
	if !ok {
		var zero packrat.SuccessData[stream.RawPtr, TN]
		return zero, perr.Unparsed
	}
	cache.UpdateIndex(tok.End)
	if e.nodeValue == nil {
		return packrat.HiddenSuccess[stream.RawPtr, TN](index + 1), nil
	}
	bound := packrat.Bound{Start: index, End: index + 1}
	node := packrat.Leaf(*e.nodeValue, tok.Start, tok.End, &bound)
	return packrat.TreeSuccess(index+1, node), nil
}

func (p *TokenFieldSet[TN, TL]) AdvanceBytePtr(_ *position.Code, _ int, _ packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	panicNotApplicable("TokenFieldSet", "lexerless/byte-driven")
	panic("unreachable")
}

func anyLess[TL token.Tag](a, b TL) bool {
	return fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
}

func joinPipe(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "|"
		}
		out += p
	}
	return out
}
