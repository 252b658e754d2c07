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

// Node wraps a production, collecting everything it contributes as the
// children of one new node tagged nodeValue. If nodeValue is nil, the
// wrapped production's match is hidden instead, same as Hidden.
type Node[TN packrat.NodeTag, TL token.Tag] struct {
	ruleName   plog.Cell[string]
	nodeValue  *TN
	production packrat.IProduction[TN, TL]
	log        plog.Cell[plog.Label]
}

// NewNode wraps production so its match becomes the children of a new
// node tagged nodeValue (or is hidden, if nodeValue is nil).
func NewNode[TN packrat.NodeTag, TL token.Tag](production packrat.IProduction[TN, TL], nodeValue *TN) *Node[TN, TL] {
	return &Node[TN, TL]{production: production, nodeValue: nodeValue}
}

// SetRuleName gives this wrapper a name of its own to render in
// ImplGrammar, instead of inlining the wrapped production's grammar.
func (n *Node[TN, TL]) SetRuleName(name string) error {
	if err := n.ruleName.Set(name); err != nil {
		return fmt.Errorf("rule name %s is already assigned", name)
	}
	return nil
}

func (n *Node[TN, TL]) SetLog(label plog.Label) error { return n.log.Set(label) }

func (n *Node[TN, TL]) String() string {
	if name, ok := n.ruleName.Get(); ok {
		return name
	}
	return fmt.Sprintf("[%s; @%v]", n.production.String(), n.nodeValue)
}

func (n *Node[TN, TL]) IsNullable() bool { return n.production.IsNullable() }
func (n *Node[TN, TL]) IsNullableAndHidden() bool {
	return n.IsNullable() && n.nodeValue == nil
}

func (n *Node[TN, TL]) ObtainNullability(visited map[string]int) (bool, error) {
	return n.production.ObtainNullability(visited)
}

func (n *Node[TN, TL]) FirstSet(set map[TL]struct{}) { n.production.FirstSet(set) }

func (n *Node[TN, TL]) ImplGrammar(w io.Writer, addedRules map[string]bool) error {
	if name, ok := n.ruleName.Get(); ok {
		if !addedRules[name] {
			addedRules[name] = true
			if _, err := fmt.Fprintf(w, "%s\n%6s [%s; @%v]\n%6s\n", name, ":", n.production.String(), n.nodeValue, ";"); err != nil {
				return err
			}
		}
	}
	return n.production.ImplGrammar(w, addedRules)
}

func (n *Node[TN, TL]) Validate(connected map[string]int, visitedProd map[string]bool) error {
	return n.production.Validate(connected, visitedProd)
}

func (n *Node[TN, TL]) AdvanceFilteredPtr(code *position.Code, index stream.FilteredPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	data, err := n.production.AdvanceFilteredPtr(code, index, ts, cache)
	if err != nil {
		var zero packrat.SuccessData[stream.FilteredPtr, TN]
		return zero, err
	}
	if n.nodeValue == nil {
		return packrat.HiddenSuccess[stream.FilteredPtr, TN](data.ConsumedIndex), nil
	}
	startRaw := ts.RawPtrForFiltered(index)
	endRaw := ts.RawPtrForFiltered(data.ConsumedIndex)
	bound := packrat.Bound{Start: startRaw, End: endRaw}
	startPos := ts.Filtered(index).Start
	endPos := ts.Filtered(data.ConsumedIndex).Start
	tree := packrat.NewNode(*n.nodeValue, startPos, endPos, &bound, data.Children)
	return packrat.TreeSuccess(data.ConsumedIndex, tree), nil
}

func (n *Node[TN, TL]) AdvanceRawPtr(code *position.Code, index stream.RawPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	data, err := n.production.AdvanceRawPtr(code, index, ts, cache)
	if err != nil {
		var zero packrat.SuccessData[stream.RawPtr, TN]
		return zero, err
	}
	if n.nodeValue == nil {
		return packrat.HiddenSuccess[stream.RawPtr, TN](data.ConsumedIndex), nil
	}
	bound := packrat.Bound{Start: index, End: data.ConsumedIndex}
	startPos := ts.Raw(index).Start
	endPos := ts.Raw(data.ConsumedIndex).Start
	tree := packrat.NewNode(*n.nodeValue, startPos, endPos, &bound, data.Children)
	return packrat.TreeSuccess(data.ConsumedIndex, tree), nil
}

func (n *Node[TN, TL]) AdvanceBytePtr(code *position.Code, index int, cache packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	data, err := n.production.AdvanceBytePtr(code, index, cache)
	if err != nil {
		var zero packrat.SuccessData[int, TN]
		return zero, err
	}
	if n.nodeValue == nil {
		return packrat.HiddenSuccess[int, TN](data.ConsumedIndex), nil
	}
	tree := packrat.NewNode(*n.nodeValue, index, data.ConsumedIndex, nil, data.Children)
	return packrat.TreeSuccess(data.ConsumedIndex, tree), nil
}
