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
	"github.com/dekarrin/packrat/validate"
)

// SuffixEntry is one (suffix production, wrapping node tag) pair tried by
// Suffixes after its left production.
type SuffixEntry[TN packrat.NodeTag, TL token.Tag] struct {
	Production packrat.IProduction[TN, TL]
	NodeValue  *TN
}

// Suffixes parses a left production followed by the first matching suffix
// of a list, used to eliminate left recursion: a production that would
// naturally be "X := X op Y | X" is instead expressed as Y followed by a
// suffix that consumes "op Y" and wraps the accumulated left-hand side.
//
// If the matching suffix carries a NodeValue, its match (plus everything
// accumulated so far) is wrapped in a new node tagged with it. If the
// suffix carries no NodeValue, its own result REPLACES the accumulated
// result outright rather than extending it (spec.md §4.6). If standalone
// is true and no suffix matches, the left production's own result is
// returned; otherwise no match is a failure.
type Suffixes[TN packrat.NodeTag, TL token.Tag] struct {
	helper     *validate.Helper[TL]
	left       packrat.IProduction[TN, TL]
	suffixes   plog.Cell[[]SuffixEntry[TN, TL]]
	standalone bool
}

// NewSuffixes builds an empty Suffixes identified by id, parsing left
// before trying any suffix. SetSuffixes must be called before it is
// validated or parsed with.
func NewSuffixes[TN packrat.NodeTag, TL token.Tag](id string, left packrat.IProduction[TN, TL], standalone bool) *Suffixes[TN, TL] {
	return &Suffixes[TN, TL]{helper: validate.NewHelper[TL](id), left: left, standalone: standalone}
}

// NewSuffixesWithEntries builds a Suffixes with its suffix list already
// assigned.
func NewSuffixesWithEntries[TN packrat.NodeTag, TL token.Tag](id string, left packrat.IProduction[TN, TL], standalone bool, suffixes []SuffixEntry[TN, TL]) *Suffixes[TN, TL] {
	s := NewSuffixes[TN, TL](id, left, standalone)
	if err := s.SetSuffixes(suffixes); err != nil {
		panic(err)
	}
	return s
}

// SetSuffixes assigns the suffix list. It is an error to call this more
// than once.
func (s *Suffixes[TN, TL]) SetSuffixes(suffixes []SuffixEntry[TN, TL]) error {
	if err := s.suffixes.Set(suffixes); err != nil {
		return perr.Constructionf("suffixes are already set for %s", s.helper.ID)
	}
	return nil
}

// SetLog attaches a debug label to this production.
func (s *Suffixes[TN, TL]) SetLog(label plog.Label) error { return s.helper.AssignDebugger(label) }

func (s *Suffixes[TN, TL]) entries() []SuffixEntry[TN, TL] {
	entries, ok := s.suffixes.Get()
	if !ok {
		panic(fmt.Sprintf("packrat/production: suffixes are not set for %s, call SetSuffixes before parsing", s.helper.ID))
	}
	return entries
}

func (s *Suffixes[TN, TL]) String() string { return s.helper.ID }

func (s *Suffixes[TN, TL]) IsNullable() bool {
	if v, ok := s.helper.Nullability.Get(); ok {
		return v
	}
	v, err := s.ObtainNullability(make(map[string]int))
	if err != nil {
		panic("packrat/production: nullability error should have been caught in validation: " + err.Error())
	}
	return v
}

// IsNullableAndHidden is standalone && left.IsNullableAndHidden(): a
// Suffixes production can only vanish entirely from the tree if matching
// zero suffixes is itself valid and the left production it falls back to
// is itself invisible on a null match.
func (s *Suffixes[TN, TL]) IsNullableAndHidden() bool {
	return s.helper.NullHidden.GetOrInit(func() bool {
		return s.standalone && s.left.IsNullableAndHidden()
	})
}

func (s *Suffixes[TN, TL]) ObtainNullability(visited map[string]int) (bool, error) {
	if err := s.helper.ValidateCircularDependency(visited); err != nil {
		return false, err
	}
	if v, ok := s.helper.Nullability.Get(); ok {
		return v, nil
	}
	leftNullable, err := s.left.ObtainNullability(validate.CloneInts(visited))
	if err != nil {
		return false, err
	}
	nullable := false
	if leftNullable {
		if s.standalone {
			nullable = true
		} else {
			nullable = true
			for _, e := range s.entries() {
				ok, err := e.Production.ObtainNullability(validate.CloneInts(visited))
				if err != nil {
					return false, err
				}
				if !ok {
					nullable = false
					break
				}
			}
		}
	}
	s.helper.Nullability.Set(nullable)
	return nullable, nil
}

func (s *Suffixes[TN, TL]) FirstSet(set map[TL]struct{}) {
	for k := range s.helper.InitFirstSet(func() map[TL]struct{} {
		children := make(map[TL]struct{})
		s.left.FirstSet(children)
		if s.left.IsNullable() {
			for _, e := range s.entries() {
				e.Production.FirstSet(children)
				if !e.Production.IsNullable() {
					break
				}
			}
		}
		return children
	}) {
		set[k] = struct{}{}
	}
}

func (s *Suffixes[TN, TL]) ImplGrammar(w io.Writer, addedRules map[string]bool) error {
	if addedRules[s.helper.ID] {
		return nil
	}
	addedRules[s.helper.ID] = true
	if _, err := fmt.Fprintf(w, "%s\n", s.helper.ID); err != nil {
		return err
	}
	for i, e := range s.entries() {
		sep := "|"
		if i == 0 {
			sep = ":"
		}
		if e.NodeValue != nil {
			if _, err := fmt.Fprintf(w, "%6s [%s %s; @%v]\n", sep, s.left.String(), e.Production.String(), *e.NodeValue); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintf(w, "%6s %s %s\n", sep, s.left.String(), e.Production.String()); err != nil {
				return err
			}
		}
	}
	if s.standalone {
		if _, err := fmt.Fprintf(w, "%6s %s\n", "|", s.left.String()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Suffixes[TN, TL]) Validate(connected map[string]int, visitedProd map[string]bool) error {
	first, err := s.helper.HasVisited(connected, visitedProd)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}
	if _, ok := s.suffixes.Get(); !ok {
		return perr.Implementationf("suffixes are not assigned for %q", s.helper.ID)
	}
	if err := s.left.Validate(validate.CloneInts(connected), visitedProd); err != nil {
		return err
	}
	nullable, err := s.left.ObtainNullability(make(map[string]int))
	if err != nil {
		return err
	}
	for _, e := range s.entries() {
		if nullable {
			if err := e.Production.Validate(validate.CloneInts(connected), visitedProd); err != nil {
				return err
			}
			nullable, err = e.Production.ObtainNullability(make(map[string]int))
			if err != nil {
				return err
			}
		} else {
			if err := e.Production.Validate(make(map[string]int), visitedProd); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Suffixes[TN, TL]) AdvanceFilteredPtr(code *position.Code, index stream.FilteredPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	left, err := s.left.AdvanceFilteredPtr(code, index, ts, cache)
	if err != nil {
		var zero packrat.SuccessData[stream.FilteredPtr, TN]
		return zero, err
	}
	for _, e := range s.entries() {
		data, err := e.Production.AdvanceFilteredPtr(code, left.ConsumedIndex, ts, cache)
		if err != nil {
			if perr.IsInvalid(err) {
				var zero packrat.SuccessData[stream.FilteredPtr, TN]
				return zero, err
			}
			continue
		}
		if e.NodeValue == nil {
			return data, nil
		}
		children := append(left.Children, data.Children...)
		startRaw := ts.RawPtrForFiltered(index)
		endRaw := ts.RawPtrForFiltered(data.ConsumedIndex)
		bound := packrat.Bound{Start: startRaw, End: endRaw}
		startTok := ts.Filtered(index)
		endPos := ts.Filtered(data.ConsumedIndex).Start
		node := packrat.NewNode(*e.NodeValue, startTok.Start, endPos, &bound, children)
		return packrat.TreeSuccess(data.ConsumedIndex, node), nil
	}
	if s.standalone {
		return left, nil
	}
	var zero packrat.SuccessData[stream.FilteredPtr, TN]
	return zero, perr.Unparsed
}

func (s *Suffixes[TN, TL]) AdvanceRawPtr(code *position.Code, index stream.RawPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	left, err := s.left.AdvanceRawPtr(code, index, ts, cache)
	if err != nil {
		var zero packrat.SuccessData[stream.RawPtr, TN]
		return zero, err
	}
	for _, e := range s.entries() {
		data, err := e.Production.AdvanceRawPtr(code, left.ConsumedIndex, ts, cache)
		if err != nil {
			if perr.IsInvalid(err) {
				var zero packrat.SuccessData[stream.RawPtr, TN]
				return zero, err
			}
			continue
		}
		if e.NodeValue == nil {
			return data, nil
		}
		children := append(left.Children, data.Children...)
		bound := packrat.Bound{Start: index, End: data.ConsumedIndex}
		startTok := ts.Raw(index)
		endPos := ts.Raw(data.ConsumedIndex).Start
		node := packrat.NewNode(*e.NodeValue, startTok.Start, endPos, &bound, children)
		return packrat.TreeSuccess(data.ConsumedIndex, node), nil
	}
	if s.standalone {
		return left, nil
	}
	var zero packrat.SuccessData[stream.RawPtr, TN]
	return zero, perr.Unparsed
}

func (s *Suffixes[TN, TL]) AdvanceBytePtr(code *position.Code, index int, cache packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	left, err := s.left.AdvanceBytePtr(code, index, cache)
	if err != nil {
		var zero packrat.SuccessData[int, TN]
		return zero, err
	}
	for _, e := range s.entries() {
		data, err := e.Production.AdvanceBytePtr(code, left.ConsumedIndex, cache)
		if err != nil {
			if perr.IsInvalid(err) {
				var zero packrat.SuccessData[int, TN]
				return zero, err
			}
			continue
		}
		if e.NodeValue == nil {
			return data, nil
		}
		children := append(left.Children, data.Children...)
		node := packrat.NewNode(*e.NodeValue, index, data.ConsumedIndex, nil, children)
		return packrat.TreeSuccess(data.ConsumedIndex, node), nil
	}
	if s.standalone {
		return left, nil
	}
	var zero packrat.SuccessData[int, TN]
	return zero, perr.Unparsed
}
