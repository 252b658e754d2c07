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

// SeparatedList matches production one or more times, each repetition
// after the first preceded by a match of separator. If inclusive is true,
// a trailing separator with no following production match is accepted and
// consumed; if false, a trailing separator is left unconsumed.
type SeparatedList[TN packrat.NodeTag, TL token.Tag] struct {
	ruleName   plog.Cell[string]
	inclusive  bool
	production packrat.IProduction[TN, TL]
	separator  packrat.IProduction[TN, TL]
	log        plog.Cell[plog.Label]
}

// NewSeparatedList matches production repeated one or more times,
// separated by separator.
func NewSeparatedList[TN packrat.NodeTag, TL token.Tag](production, separator packrat.IProduction[TN, TL], inclusive bool) *SeparatedList[TN, TL] {
	return &SeparatedList[TN, TL]{production: production, separator: separator, inclusive: inclusive}
}

// SetRuleName gives this wrapper a name of its own to render in
// ImplGrammar, instead of inlining the wrapped productions' grammar.
func (s *SeparatedList[TN, TL]) SetRuleName(name string) error {
	if err := s.ruleName.Set(name); err != nil {
		return fmt.Errorf("rule name %s is already assigned", name)
	}
	return nil
}

func (s *SeparatedList[TN, TL]) SetLog(label plog.Label) error { return s.log.Set(label) }

func (s *SeparatedList[TN, TL]) String() string {
	if name, ok := s.ruleName.Get(); ok {
		return name
	}
	str := fmt.Sprintf("%s (%s %s)*", s.production.String(), s.separator.String(), s.production.String())
	if s.inclusive {
		str += fmt.Sprintf(" (%s)?", s.separator.String())
	}
	return str
}

func (s *SeparatedList[TN, TL]) IsNullable() bool {
	return s.production.IsNullable() && s.separator.IsNullable()
}

func (s *SeparatedList[TN, TL]) IsNullableAndHidden() bool {
	return s.production.IsNullableAndHidden() && s.separator.IsNullableAndHidden()
}

func (s *SeparatedList[TN, TL]) ObtainNullability(visited map[string]int) (bool, error) {
	prodNullable, err := s.production.ObtainNullability(validate.CloneInts(visited))
	if err != nil {
		return false, err
	}
	sepNullable, err := s.separator.ObtainNullability(visited)
	if err != nil {
		return false, err
	}
	return prodNullable && sepNullable, nil
}

func (s *SeparatedList[TN, TL]) FirstSet(set map[TL]struct{}) {
	s.production.FirstSet(set)
	if s.production.IsNullable() {
		s.separator.FirstSet(set)
	}
}

func (s *SeparatedList[TN, TL]) ImplGrammar(w io.Writer, addedRules map[string]bool) error {
	if name, ok := s.ruleName.Get(); ok {
		if !addedRules[name] {
			addedRules[name] = true
			if _, err := fmt.Fprintf(w, "%s\n%6s %s (%s %s)*", name, ":", s.production.String(), s.separator.String(), s.production.String()); err != nil {
				return err
			}
			if s.inclusive {
				if _, err := fmt.Fprintf(w, " (%s)?\n", s.separator.String()); err != nil {
					return err
				}
			} else if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
			if _, err := io.WriteString(w, ";\n"); err != nil {
				return err
			}
		}
	}
	if err := s.production.ImplGrammar(w, addedRules); err != nil {
		return err
	}
	return s.separator.ImplGrammar(w, addedRules)
}

func (s *SeparatedList[TN, TL]) Validate(connected map[string]int, visitedProd map[string]bool) error {
	nullable, err := s.production.ObtainNullability(make(map[string]int))
	if err != nil {
		return err
	}
	if nullable {
		if err := s.production.Validate(validate.CloneInts(connected), visitedProd); err != nil {
			return err
		}
		return s.separator.Validate(connected, visitedProd)
	}
	if err := s.production.Validate(connected, visitedProd); err != nil {
		return err
	}
	return s.separator.Validate(make(map[string]int), visitedProd)
}

func (s *SeparatedList[TN, TL]) AdvanceFilteredPtr(code *position.Code, index stream.FilteredPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	return separatedListConsume(index, s.inclusive,
		func(idx stream.FilteredPtr) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
			return s.production.AdvanceFilteredPtr(code, idx, ts, cache)
		},
		func(idx stream.FilteredPtr) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
			return s.separator.AdvanceFilteredPtr(code, idx, ts, cache)
		})
}

func (s *SeparatedList[TN, TL]) AdvanceRawPtr(code *position.Code, index stream.RawPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	return separatedListConsume(index, s.inclusive,
		func(idx stream.RawPtr) (packrat.SuccessData[stream.RawPtr, TN], error) {
			return s.production.AdvanceRawPtr(code, idx, ts, cache)
		},
		func(idx stream.RawPtr) (packrat.SuccessData[stream.RawPtr, TN], error) {
			return s.separator.AdvanceRawPtr(code, idx, ts, cache)
		})
}

func (s *SeparatedList[TN, TL]) AdvanceBytePtr(code *position.Code, index int, cache packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	return separatedListConsume(index, s.inclusive,
		func(idx int) (packrat.SuccessData[int, TN], error) {
			return s.production.AdvanceBytePtr(code, idx, cache)
		},
		func(idx int) (packrat.SuccessData[int, TN], error) {
			return s.separator.AdvanceBytePtr(code, idx, cache)
		})
}

// separatedListConsume matches production, then alternates separator and
// production until either fails softly.
func separatedListConsume[T any, TN packrat.NodeTag](index T, inclusive bool, parseProduction, parseSeparator func(T) (packrat.SuccessData[T, TN], error)) (packrat.SuccessData[T, TN], error) {
	first, err := parseProduction(index)
	if err != nil {
		var zero packrat.SuccessData[T, TN]
		return zero, err
	}
	moved := first.ConsumedIndex
	children := append([]packrat.ASTNode[TN]{}, first.Children...)
	for {
		sep, err := parseSeparator(moved)
		if err != nil {
			if perr.IsInvalid(err) {
				var zero packrat.SuccessData[T, TN]
				return zero, err
			}
			return packrat.NewSuccessData(moved, children), nil
		}
		next, err := parseProduction(sep.ConsumedIndex)
		if err != nil {
			if perr.IsInvalid(err) {
				var zero packrat.SuccessData[T, TN]
				return zero, err
			}
			if inclusive {
				children = append(children, sep.Children...)
				return packrat.NewSuccessData(sep.ConsumedIndex, children), nil
			}
			return packrat.NewSuccessData(moved, children), nil
		}
		children = append(children, sep.Children...)
		children = append(children, next.Children...)
		moved = next.ConsumedIndex
	}
}

