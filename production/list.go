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

// List matches symbol one or more times in a row, flattening every match's
// children into one result.
type List[TN packrat.NodeTag, TL token.Tag] struct {
	symbol packrat.IProduction[TN, TL]
	log    plog.Cell[plog.Label]
}

// NewList matches symbol repeated one or more times.
func NewList[TN packrat.NodeTag, TL token.Tag](symbol packrat.IProduction[TN, TL]) *List[TN, TL] {
	return &List[TN, TL]{symbol: symbol}
}

func (l *List[TN, TL]) SetLog(label plog.Label) error { return l.log.Set(label) }

func (l *List[TN, TL]) String() string { return fmt.Sprintf("%s+", l.symbol.String()) }

func (l *List[TN, TL]) IsNullable() bool          { return l.symbol.IsNullable() }
func (l *List[TN, TL]) IsNullableAndHidden() bool { return l.symbol.IsNullableAndHidden() }

func (l *List[TN, TL]) ObtainNullability(visited map[string]int) (bool, error) {
	return l.symbol.ObtainNullability(visited)
}

func (l *List[TN, TL]) FirstSet(set map[TL]struct{}) { l.symbol.FirstSet(set) }

func (l *List[TN, TL]) ImplGrammar(w io.Writer, addedRules map[string]bool) error {
	return l.symbol.ImplGrammar(w, addedRules)
}

func (l *List[TN, TL]) Validate(connected map[string]int, visitedProd map[string]bool) error {
	return l.symbol.Validate(connected, visitedProd)
}

func (l *List[TN, TL]) AdvanceFilteredPtr(code *position.Code, index stream.FilteredPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	return listConsume(index, func(idx stream.FilteredPtr) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
		return l.symbol.AdvanceFilteredPtr(code, idx, ts, cache)
	})
}

func (l *List[TN, TL]) AdvanceRawPtr(code *position.Code, index stream.RawPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	return listConsume(index, func(idx stream.RawPtr) (packrat.SuccessData[stream.RawPtr, TN], error) {
		return l.symbol.AdvanceRawPtr(code, idx, ts, cache)
	})
}

func (l *List[TN, TL]) AdvanceBytePtr(code *position.Code, index int, cache packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	return listConsume(index, func(idx int) (packrat.SuccessData[int, TN], error) {
		return l.symbol.AdvanceBytePtr(code, idx, cache)
	})
}

// listConsume matches parse one or more times in a row starting at index,
// stopping as soon as a match fails to advance the pointer or fails
// softly, and flattening every match's children together.
func listConsume[T comparable, TN packrat.NodeTag](index T, parse func(T) (packrat.SuccessData[T, TN], error)) (packrat.SuccessData[T, TN], error) {
	first, err := parse(index)
	if err != nil {
		var zero packrat.SuccessData[T, TN]
		return zero, err
	}
	if first.ConsumedIndex == index {
		return first, nil
	}

	children := append([]packrat.ASTNode[TN]{}, first.Children...)
	moved := first.ConsumedIndex
	for {
		next, err := parse(moved)
		if err != nil {
			if perr.IsInvalid(err) {
				var zero packrat.SuccessData[T, TN]
				return zero, err
			}
			return packrat.NewSuccessData(moved, children), nil
		}
		children = append(children, next.Children...)
		if moved == next.ConsumedIndex {
			return packrat.NewSuccessData(next.ConsumedIndex, children), nil
		}
		moved = next.ConsumedIndex
	}
}
