package production

import (
	"io"

	packrat "github.com/dekarrin/packrat"
	"github.com/dekarrin/packrat/perr"
	"github.com/dekarrin/packrat/plog"
	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/stream"
	"github.com/dekarrin/packrat/token"
)

// EOFProd matches the end of input, in every driver mode. It never
// consumes: the pointer it returns is the same one it was invoked at, so
// that a grammar that matches EOF more than once (e.g. inside a repeated
// production that loops until EOF) does not fail the second time around.
type EOFProd[TN packrat.NodeTag, TL token.Tag] struct {
	eofTag    TL
	nodeValue *TN
	log       plog.Cell[plog.Label]
}

// NewEOFProd builds an EOFProd for the tokenizer's EOF tag. nodeValue, if
// non-nil, is the tag of the leaf emitted on a match.
func NewEOFProd[TN packrat.NodeTag, TL token.Tag](eofTag TL, nodeValue *TN) *EOFProd[TN, TL] {
	return &EOFProd[TN, TL]{eofTag: eofTag, nodeValue: nodeValue}
}

func (p *EOFProd[TN, TL]) SetLog(label plog.Label) error { return p.log.Set(label) }

func (p *EOFProd[TN, TL]) String() string { return "EOF" }

func (p *EOFProd[TN, TL]) IsNullable() bool          { return false }
func (p *EOFProd[TN, TL]) IsNullableAndHidden() bool { return false }
func (p *EOFProd[TN, TL]) ObtainNullability(_ map[string]int) (bool, error) { return false, nil }
func (p *EOFProd[TN, TL]) FirstSet(set map[TL]struct{})                    { set[p.eofTag] = struct{}{} }
func (p *EOFProd[TN, TL]) ImplGrammar(_ io.Writer, _ map[string]bool) error { return nil }
func (p *EOFProd[TN, TL]) Validate(_ map[string]int, _ map[string]bool) error {
	return nil
}

func (p *EOFProd[TN, TL]) AdvanceFilteredPtr(code *position.Code, index stream.FilteredPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	if !ts.IsEOS(index) {
		var zero packrat.SuccessData[stream.FilteredPtr, TN]
		return zero, perr.Unparsed
	}
	eofPointer := ts.EOSPointer()
	cache.UpdateIndex(eofPointer)
	if p.nodeValue == nil {
		return packrat.HiddenSuccess[stream.FilteredPtr, TN](index), nil
	}
	raw := ts.RawPtrForFiltered(index)
	bound := packrat.Bound{Start: raw, End: raw}
	node := packrat.Leaf(*p.nodeValue, eofPointer, len(code.Value), &bound)
	return packrat.TreeSuccess(index, node), nil
}

func (p *EOFProd[TN, TL]) AdvanceRawPtr(code *position.Code, index stream.RawPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	if !ts.IsEOSRaw(index) {
		var zero packrat.SuccessData[stream.RawPtr, TN]
		return zero, perr.Unparsed
	}
	eofPointer := ts.EOSPointer()
	cache.UpdateIndex(eofPointer)
	if p.nodeValue == nil {
		return packrat.HiddenSuccess[stream.RawPtr, TN](index), nil
	}
	bound := packrat.Bound{Start: index, End: index}
	node := packrat.Leaf(*p.nodeValue, eofPointer, len(code.Value), &bound)
	return packrat.TreeSuccess(index, node), nil
}

func (p *EOFProd[TN, TL]) AdvanceBytePtr(code *position.Code, index int, cache packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	if index != len(code.Value) {
		var zero packrat.SuccessData[int, TN]
		return zero, perr.Unparsed
	}
	cache.UpdateIndex(index)
	if p.nodeValue == nil {
		return packrat.HiddenSuccess[int, TN](index), nil
	}
	node := packrat.Leaf(*p.nodeValue, index, index, nil)
	return packrat.TreeSuccess(index, node), nil
}

// NullProd always succeeds consuming no input, contributing a single
// visible null leaf tagged nullTag. Unlike a hidden/Cacheable wrapper
// around it, this leaf is never suppressed — wrap in Hidden to drop it
// from the tree.
type NullProd[TN packrat.NodeTag, TL token.Tag] struct {
	nullTag TN
	log     plog.Cell[plog.Label]
}

// NewNullProd builds a NullProd tagging its null leaf with nullTag.
func NewNullProd[TN packrat.NodeTag, TL token.Tag](nullTag TN) *NullProd[TN, TL] {
	return &NullProd[TN, TL]{nullTag: nullTag}
}

func (p *NullProd[TN, TL]) SetLog(label plog.Label) error { return p.log.Set(label) }

func (p *NullProd[TN, TL]) String() string { return "''" }

func (p *NullProd[TN, TL]) IsNullable() bool          { return true }
func (p *NullProd[TN, TL]) IsNullableAndHidden() bool { return false }
func (p *NullProd[TN, TL]) ObtainNullability(_ map[string]int) (bool, error) { return true, nil }
func (p *NullProd[TN, TL]) FirstSet(_ map[TL]struct{})                      {}
func (p *NullProd[TN, TL]) ImplGrammar(_ io.Writer, _ map[string]bool) error { return nil }
func (p *NullProd[TN, TL]) Validate(_ map[string]int, _ map[string]bool) error {
	return nil
}

func (p *NullProd[TN, TL]) AdvanceFilteredPtr(_ *position.Code, index stream.FilteredPtr, ts *stream.TokenStream[TL], _ packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	tok := ts.Filtered(index)
	raw := ts.RawPtrForFiltered(index)
	bound := packrat.Bound{Start: raw, End: raw}
	node := packrat.NullNode(p.nullTag, tok.Start, &bound)
	return packrat.TreeSuccess(index, node), nil
}

func (p *NullProd[TN, TL]) AdvanceRawPtr(_ *position.Code, index stream.RawPtr, ts *stream.TokenStream[TL], _ packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	tok := ts.Raw(index)
	bound := packrat.Bound{Start: index, End: index}
	node := packrat.NullNode(p.nullTag, tok.Start, &bound)
	return packrat.TreeSuccess(index, node), nil
}

func (p *NullProd[TN, TL]) AdvanceBytePtr(_ *position.Code, index int, _ packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	node := packrat.NullNode(p.nullTag, index, nil)
	return packrat.TreeSuccess(index, node), nil
}
