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

// Hidden wraps a production, keeping its parsing and validation behavior
// but suppressing any nodes it produces from the AST.
type Hidden[TN packrat.NodeTag, TL token.Tag] struct {
	ruleName   plog.Cell[string]
	production packrat.IProduction[TN, TL]
	log        plog.Cell[plog.Label]
}

// NewHidden wraps production so its matches contribute no nodes.
func NewHidden[TN packrat.NodeTag, TL token.Tag](production packrat.IProduction[TN, TL]) *Hidden[TN, TL] {
	return &Hidden[TN, TL]{production: production}
}

// SetRuleName gives this wrapper a name of its own to render as in
// ImplGrammar, instead of inlining the wrapped production's grammar.
func (h *Hidden[TN, TL]) SetRuleName(name string) error {
	if err := h.ruleName.Set(name); err != nil {
		return fmt.Errorf("rule name %s is already assigned", name)
	}
	return nil
}

func (h *Hidden[TN, TL]) SetLog(label plog.Label) error { return h.log.Set(label) }

func (h *Hidden[TN, TL]) String() string {
	if name, ok := h.ruleName.Get(); ok {
		return name
	}
	return fmt.Sprintf("[%s;]", h.production.String())
}

func (h *Hidden[TN, TL]) IsNullable() bool          { return h.production.IsNullable() }
func (h *Hidden[TN, TL]) IsNullableAndHidden() bool { return h.IsNullable() }

func (h *Hidden[TN, TL]) ObtainNullability(visited map[string]int) (bool, error) {
	return h.production.ObtainNullability(visited)
}

func (h *Hidden[TN, TL]) FirstSet(set map[TL]struct{}) { h.production.FirstSet(set) }

func (h *Hidden[TN, TL]) ImplGrammar(w io.Writer, addedRules map[string]bool) error {
	if name, ok := h.ruleName.Get(); ok {
		if !addedRules[name] {
			addedRules[name] = true
			if _, err := fmt.Fprintf(w, "%s\n%6s [%s;]\n%6s\n", name, ":", h.production.String(), ";"); err != nil {
				return err
			}
		}
	}
	return h.production.ImplGrammar(w, addedRules)
}

func (h *Hidden[TN, TL]) Validate(connected map[string]int, visitedProd map[string]bool) error {
	return h.production.Validate(connected, visitedProd)
}

func (h *Hidden[TN, TL]) AdvanceFilteredPtr(code *position.Code, index stream.FilteredPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	data, err := h.production.AdvanceFilteredPtr(code, index, ts, cache)
	if err != nil {
		var zero packrat.SuccessData[stream.FilteredPtr, TN]
		return zero, err
	}
	return packrat.HiddenSuccess[stream.FilteredPtr, TN](data.ConsumedIndex), nil
}

func (h *Hidden[TN, TL]) AdvanceRawPtr(code *position.Code, index stream.RawPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	data, err := h.production.AdvanceRawPtr(code, index, ts, cache)
	if err != nil {
		var zero packrat.SuccessData[stream.RawPtr, TN]
		return zero, err
	}
	return packrat.HiddenSuccess[stream.RawPtr, TN](data.ConsumedIndex), nil
}

func (h *Hidden[TN, TL]) AdvanceBytePtr(code *position.Code, index int, cache packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	data, err := h.production.AdvanceBytePtr(code, index, cache)
	if err != nil {
		var zero packrat.SuccessData[int, TN]
		return zero, err
	}
	return packrat.HiddenSuccess[int, TN](data.ConsumedIndex), nil
}
