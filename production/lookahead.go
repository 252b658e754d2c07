package production

import (
	"fmt"
	"io"

	packrat "github.com/dekarrin/packrat"
	"github.com/dekarrin/packrat/plog"
	"github.com/dekarrin/packrat/position"
	"github.com/dekarrin/packrat/stream"
	"github.com/dekarrin/packrat/token"
)

// Lookahead matches production without consuming input: on success, the
// pointer it returns is the same one it was invoked at. If nodeValue is
// non-nil, a single zero-width leaf tagged with it is produced; otherwise
// the match contributes nothing to the tree.
type Lookahead[TN packrat.NodeTag, TL token.Tag] struct {
	production packrat.IProduction[TN, TL]
	nodeValue  *TN
	log        plog.Cell[plog.Label]
}

// NewLookahead wraps production as a zero-width lookahead check.
func NewLookahead[TN packrat.NodeTag, TL token.Tag](production packrat.IProduction[TN, TL], nodeValue *TN) *Lookahead[TN, TL] {
	return &Lookahead[TN, TL]{production: production, nodeValue: nodeValue}
}

func (l *Lookahead[TN, TL]) SetLog(label plog.Label) error { return l.log.Set(label) }

func (l *Lookahead[TN, TL]) String() string { return fmt.Sprintf("?=%s", l.production.String()) }

func (l *Lookahead[TN, TL]) IsNullable() bool          { return false }
func (l *Lookahead[TN, TL]) IsNullableAndHidden() bool { return true }

func (l *Lookahead[TN, TL]) ObtainNullability(visited map[string]int) (bool, error) {
	return l.production.ObtainNullability(visited)
}

func (l *Lookahead[TN, TL]) FirstSet(set map[TL]struct{}) { l.production.FirstSet(set) }

func (l *Lookahead[TN, TL]) ImplGrammar(w io.Writer, addedRules map[string]bool) error {
	return l.production.ImplGrammar(w, addedRules)
}

func (l *Lookahead[TN, TL]) Validate(connected map[string]int, visitedProd map[string]bool) error {
	return l.production.Validate(connected, visitedProd)
}

func (l *Lookahead[TN, TL]) AdvanceFilteredPtr(code *position.Code, index stream.FilteredPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	_, err := l.production.AdvanceFilteredPtr(code, index, ts, cache)
	if err != nil {
		var zero packrat.SuccessData[stream.FilteredPtr, TN]
		return zero, err
	}
	if l.nodeValue == nil {
		return packrat.HiddenSuccess[stream.FilteredPtr, TN](index), nil
	}
	tok := ts.Filtered(index)
	raw := ts.RawPtrForFiltered(index)
	bound := packrat.Bound{Start: raw, End: raw}
	node := packrat.Leaf(*l.nodeValue, tok.Start, tok.Start, &bound)
	return packrat.TreeSuccess(index, node), nil
}

func (l *Lookahead[TN, TL]) AdvanceRawPtr(code *position.Code, index stream.RawPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	_, err := l.production.AdvanceRawPtr(code, index, ts, cache)
	if err != nil {
		var zero packrat.SuccessData[stream.RawPtr, TN]
		return zero, err
	}
	if l.nodeValue == nil {
		return packrat.HiddenSuccess[stream.RawPtr, TN](index), nil
	}
	tok := ts.Raw(index)
	bound := packrat.Bound{Start: index, End: index}
	node := packrat.Leaf(*l.nodeValue, tok.Start, tok.Start, &bound)
	return packrat.TreeSuccess(index, node), nil
}

func (l *Lookahead[TN, TL]) AdvanceBytePtr(code *position.Code, index int, cache packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	_, err := l.production.AdvanceBytePtr(code, index, cache)
	if err != nil {
		var zero packrat.SuccessData[int, TN]
		return zero, err
	}
	if l.nodeValue == nil {
		return packrat.HiddenSuccess[int, TN](index), nil
	}
	node := packrat.Leaf(*l.nodeValue, index, index, nil)
	return packrat.TreeSuccess(index, node), nil
}
