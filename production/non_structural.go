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

// NonStructural drives a raw-token-driven production over the run of
// tokens hidden between two structural positions (spec.md §4.4): it is
// the bridge a structural grammar uses to parse trivia (whitespace,
// comments) that the filtered view otherwise skips over entirely.
//
// Matching always happens against the raw token stream starting just
// after the previous structural token, regardless of where in the
// filtered stream this production is invoked; the filtered pointer itself
// never advances. If fillRange is true, the match must consume exactly up
// to (not past, not short of) the next structural token's raw position,
// or the whole production fails.
type NonStructural[TN packrat.NodeTag, TL token.Tag] struct {
	production packrat.IProduction[TN, TL]
	fillRange  bool
	log        plog.Cell[plog.Label]
}

// NewNonStructural wraps production to drive it, raw-token-wise, over the
// trivia preceding the filtered position it is invoked at.
func NewNonStructural[TN packrat.NodeTag, TL token.Tag](production packrat.IProduction[TN, TL], fillRange bool) *NonStructural[TN, TL] {
	return &NonStructural[TN, TL]{production: production, fillRange: fillRange}
}

func (n *NonStructural[TN, TL]) SetLog(label plog.Label) error { return n.log.Set(label) }

func (n *NonStructural[TN, TL]) String() string { return fmt.Sprintf("%%%s%%", n.production.String()) }

func (n *NonStructural[TN, TL]) IsNullable() bool          { return n.production.IsNullable() }
func (n *NonStructural[TN, TL]) IsNullableAndHidden() bool { return n.production.IsNullable() }

func (n *NonStructural[TN, TL]) ObtainNullability(visited map[string]int) (bool, error) {
	return n.production.ObtainNullability(visited)
}

func (n *NonStructural[TN, TL]) FirstSet(set map[TL]struct{}) { n.production.FirstSet(set) }

func (n *NonStructural[TN, TL]) ImplGrammar(w io.Writer, addedRules map[string]bool) error {
	return n.production.ImplGrammar(w, addedRules)
}

func (n *NonStructural[TN, TL]) Validate(connected map[string]int, visitedProd map[string]bool) error {
	return n.production.Validate(connected, visitedProd)
}

func (n *NonStructural[TN, TL]) AdvanceFilteredPtr(code *position.Code, index stream.FilteredPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	// At index 0 there is no prior structural token, so the raw scan starts
	// at raw position 0 itself rather than one past some prior token; for
	// index > 0 it starts one past the previous structural token's raw
	// position, which is ts.RawPtrForFiltered(index-1)+1.
	var startRaw stream.RawPtr
	if index > 0 {
		startRaw = ts.RawPtrForFiltered(index-1) + 1
	}

	data, err := n.production.AdvanceRawPtr(code, startRaw, ts, cache)
	if err != nil {
		var zero packrat.SuccessData[stream.FilteredPtr, TN]
		return zero, err
	}

	if n.fillRange {
		endSegment := ts.RawPtrForFiltered(index)
		if endSegment != data.ConsumedIndex {
			var zero packrat.SuccessData[stream.FilteredPtr, TN]
			return zero, perr.Unparsed
		}
	}
	return packrat.NewSuccessData(index, data.Children), nil
}

func (n *NonStructural[TN, TL]) AdvanceRawPtr(code *position.Code, index stream.RawPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	return n.production.AdvanceRawPtr(code, index, ts, cache)
}

func (n *NonStructural[TN, TL]) AdvanceBytePtr(code *position.Code, index int, cache packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	return n.production.AdvanceBytePtr(code, index, cache)
}
