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

// Structural is the inverse of NonStructural: invoked from inside a
// raw-token-driven production, it jumps back into the filtered (structural
// token only) driver starting at the next structural position at or after
// its raw index, then reports how far that advanced in raw terms.
type Structural[TN packrat.NodeTag, TL token.Tag] struct {
	production packrat.IProduction[TN, TL]
	log        plog.Cell[plog.Label]
}

// NewStructural wraps production to drive it, filtered-pointer-wise, from
// within a raw-token-driven context.
func NewStructural[TN packrat.NodeTag, TL token.Tag](production packrat.IProduction[TN, TL]) *Structural[TN, TL] {
	return &Structural[TN, TL]{production: production}
}

func (s *Structural[TN, TL]) SetLog(label plog.Label) error { return s.log.Set(label) }

func (s *Structural[TN, TL]) String() string { return fmt.Sprintf("%%%s%%", s.production.String()) }

func (s *Structural[TN, TL]) IsNullable() bool          { return s.production.IsNullable() }
func (s *Structural[TN, TL]) IsNullableAndHidden() bool { return s.production.IsNullable() }

func (s *Structural[TN, TL]) ObtainNullability(visited map[string]int) (bool, error) {
	return s.production.ObtainNullability(visited)
}

func (s *Structural[TN, TL]) FirstSet(set map[TL]struct{}) { s.production.FirstSet(set) }

func (s *Structural[TN, TL]) ImplGrammar(w io.Writer, addedRules map[string]bool) error {
	return s.production.ImplGrammar(w, addedRules)
}

func (s *Structural[TN, TL]) Validate(connected map[string]int, visitedProd map[string]bool) error {
	return s.production.Validate(connected, visitedProd)
}

func (s *Structural[TN, TL]) AdvanceFilteredPtr(code *position.Code, index stream.FilteredPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	return s.production.AdvanceFilteredPtr(code, index, ts, cache)
}

func (s *Structural[TN, TL]) AdvanceRawPtr(code *position.Code, index stream.RawPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	var nextFiltered stream.FilteredPtr
	if fp, ok := ts.FindFilterPtr(index); ok {
		nextFiltered = fp + 1
	} else {
		nextFiltered = fp
	}

	data, err := s.production.AdvanceFilteredPtr(code, nextFiltered, ts, cache)
	if err != nil {
		var zero packrat.SuccessData[stream.RawPtr, TN]
		return zero, err
	}

	var lastTokenPtr stream.RawPtr
	if data.ConsumedIndex > 0 {
		lastTokenPtr = ts.RawPtrForFiltered(data.ConsumedIndex - 1)
	}
	return packrat.NewSuccessData(lastTokenPtr+1, data.Children), nil
}

func (s *Structural[TN, TL]) AdvanceBytePtr(code *position.Code, index int, cache packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	return s.production.AdvanceBytePtr(code, index, cache)
}
