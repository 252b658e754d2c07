package production

import (
	"fmt"
	"io"

	packrat "github.com/dekarrin/packrat"
	"github.com/dekarrin/packrat/perr"
	"github.com/dekarrin/packrat/plog"
	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/stream"
	"github.com/dekarrin/packrat/token"
)

// Nullable wraps a production to make it optional: a soft Unparsed failure
// from the wrapped production is swallowed and replaced with a visible
// null leaf tagged nullTag, rather than propagated. A Validation error
// still propagates.
type Nullable[TN packrat.NodeTag, TL token.Tag] struct {
	production packrat.IProduction[TN, TL]
	nullTag    TN
	log        plog.Cell[plog.Label]
}

// NewNullable wraps production, making it optional and tagging its
// fallback null leaf with nullTag.
func NewNullable[TN packrat.NodeTag, TL token.Tag](production packrat.IProduction[TN, TL], nullTag TN) *Nullable[TN, TL] {
	return &Nullable[TN, TL]{production: production, nullTag: nullTag}
}

func (n *Nullable[TN, TL]) SetLog(label plog.Label) error { return n.log.Set(label) }

func (n *Nullable[TN, TL]) String() string { return fmt.Sprintf("(%s)?", n.production.String()) }

func (n *Nullable[TN, TL]) IsNullable() bool          { return true }
func (n *Nullable[TN, TL]) IsNullableAndHidden() bool { return false }

func (n *Nullable[TN, TL]) ObtainNullability(_ map[string]int) (bool, error) { return true, nil }

func (n *Nullable[TN, TL]) FirstSet(set map[TL]struct{}) { n.production.FirstSet(set) }

func (n *Nullable[TN, TL]) ImplGrammar(w io.Writer, addedRules map[string]bool) error {
	return n.production.ImplGrammar(w, addedRules)
}

func (n *Nullable[TN, TL]) Validate(connected map[string]int, visitedProd map[string]bool) error {
	return n.production.Validate(connected, visitedProd)
}

func (n *Nullable[TN, TL]) AdvanceFilteredPtr(code *position.Code, index stream.FilteredPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	data, err := n.production.AdvanceFilteredPtr(code, index, ts, cache)
	if err == nil {
		return data, nil
	}
	if perr.IsInvalid(err) {
		var zero packrat.SuccessData[stream.FilteredPtr, TN]
		return zero, err
	}
	tok := ts.Filtered(index)
	raw := ts.RawPtrForFiltered(index)
	bound := packrat.Bound{Start: raw, End: raw}
	tree := packrat.NullNode(n.nullTag, tok.Start, &bound)
	return packrat.TreeSuccess(index, tree), nil
}

func (n *Nullable[TN, TL]) AdvanceRawPtr(code *position.Code, index stream.RawPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	data, err := n.production.AdvanceRawPtr(code, index, ts, cache)
	if err == nil {
		return data, nil
	}
	if perr.IsInvalid(err) {
		var zero packrat.SuccessData[stream.RawPtr, TN]
		return zero, err
	}
	tok := ts.Raw(index)
	bound := packrat.Bound{Start: index, End: index}
	tree := packrat.NullNode(n.nullTag, tok.Start, &bound)
	return packrat.TreeSuccess(index, tree), nil
}

func (n *Nullable[TN, TL]) AdvanceBytePtr(code *position.Code, index int, cache packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	data, err := n.production.AdvanceBytePtr(code, index, cache)
	if err == nil {
		return data, nil
	}
	if perr.IsInvalid(err) {
		var zero packrat.SuccessData[int, TN]
		return zero, err
	}
	tree := packrat.NullNode(n.nullTag, index, nil)
	return packrat.TreeSuccess(index, tree), nil
}
