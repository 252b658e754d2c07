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

// Concat matches a fixed sequence of productions one after another,
// flattening their children in order (spec.md §4.6).
//
// Symbols are assigned separately from construction via SetSymbols so that
// mutually-recursive grammars can be wired up: a production referencing
// itself (directly or through siblings) cannot be built in one literal, so
// the graph is first built with empty Concat/Union nodes and then patched
// once every production it refers to already exists.
type Concat[TN packrat.NodeTag, TL token.Tag] struct {
	helper  *validate.Helper[TL]
	symbols plog.Cell[[]packrat.IProduction[TN, TL]]
}

// NewConcat builds an empty Concat identified by id; SetSymbols must be
// called before it is validated or parsed with.
func NewConcat[TN packrat.NodeTag, TL token.Tag](id string) *Concat[TN, TL] {
	return &Concat[TN, TL]{helper: validate.NewHelper[TL](id)}
}

// NewConcatWithSymbols builds a Concat with its sequence already assigned.
func NewConcatWithSymbols[TN packrat.NodeTag, TL token.Tag](id string, symbols []packrat.IProduction[TN, TL]) *Concat[TN, TL] {
	c := NewConcat[TN, TL](id)
	if err := c.SetSymbols(symbols); err != nil {
		panic(err)
	}
	return c
}

// SetSymbols assigns the sequence of productions to match in order. It is
// an error to call this more than once.
func (c *Concat[TN, TL]) SetSymbols(symbols []packrat.IProduction[TN, TL]) error {
	if err := c.symbols.Set(symbols); err != nil {
		return perr.Constructionf("symbols are already set for %s", c.helper.ID)
	}
	return nil
}

// SetLog attaches a debug label to this production.
func (c *Concat[TN, TL]) SetLog(label plog.Label) error { return c.helper.AssignDebugger(label) }

func (c *Concat[TN, TL]) productions() []packrat.IProduction[TN, TL] {
	syms, ok := c.symbols.Get()
	if !ok {
		panic(fmt.Sprintf("packrat/production: symbols are not set for %s, call SetSymbols before parsing", c.helper.ID))
	}
	return syms
}

func (c *Concat[TN, TL]) String() string { return c.helper.ID }

func (c *Concat[TN, TL]) IsNullable() bool {
	if v, ok := c.helper.Nullability.Get(); ok {
		return v
	}
	v, err := c.ObtainNullability(make(map[string]int))
	if err != nil {
		panic("packrat/production: nullability error should have been caught in validation: " + err.Error())
	}
	return v
}

func (c *Concat[TN, TL]) IsNullableAndHidden() bool {
	return c.helper.NullHidden.GetOrInit(func() bool {
		if !c.IsNullable() {
			return false
		}
		for _, p := range c.productions() {
			if !p.IsNullableAndHidden() {
				return false
			}
		}
		return true
	})
}

func (c *Concat[TN, TL]) ObtainNullability(visited map[string]int) (bool, error) {
	if err := c.helper.ValidateCircularDependency(visited); err != nil {
		return false, err
	}
	if v, ok := c.helper.Nullability.Get(); ok {
		return v, nil
	}
	nullable := true
	for _, p := range c.productions() {
		ok, err := p.ObtainNullability(validate.CloneInts(visited))
		if err != nil {
			return false, err
		}
		if !ok {
			nullable = false
			break
		}
	}
	c.helper.Nullability.Set(nullable)
	return nullable, nil
}

func (c *Concat[TN, TL]) FirstSet(set map[TL]struct{}) {
	for k := range c.helper.InitFirstSet(func() map[TL]struct{} {
		children := make(map[TL]struct{})
		for _, p := range c.productions() {
			p.FirstSet(children)
			if !p.IsNullable() {
				break
			}
		}
		return children
	}) {
		set[k] = struct{}{}
	}
}

func (c *Concat[TN, TL]) ImplGrammar(w io.Writer, addedRules map[string]bool) error {
	if !addedRules[c.helper.ID] {
		addedRules[c.helper.ID] = true
		if _, err := fmt.Fprintf(w, "%s\n%6s", c.helper.ID, ":"); err != nil {
			return err
		}
		for i, p := range c.productions() {
			if i != 0 {
				if _, err := io.WriteString(w, " "); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "%s", p.String()); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%6s\n\n", ";"); err != nil {
			return err
		}
		for _, p := range c.productions() {
			if err := p.ImplGrammar(w, addedRules); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Concat[TN, TL]) Validate(connected map[string]int, visitedProd map[string]bool) error {
	first, err := c.helper.HasVisited(connected, visitedProd)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}
	if _, ok := c.symbols.Get(); !ok {
		return perr.Implementationf("symbols are not assigned for %q", c.helper.ID)
	}
	nullable := true
	for _, p := range c.productions() {
		if nullable {
			if err := p.Validate(validate.CloneInts(connected), visitedProd); err != nil {
				return err
			}
			nullable, err = p.ObtainNullability(make(map[string]int))
			if err != nil {
				return err
			}
		} else {
			if err := p.Validate(make(map[string]int), visitedProd); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Concat[TN, TL]) AdvanceFilteredPtr(code *position.Code, index stream.FilteredPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	return concatConsume(c.productions(), index, func(p packrat.IProduction[TN, TL], idx stream.FilteredPtr) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
		return p.AdvanceFilteredPtr(code, idx, ts, cache)
	})
}

func (c *Concat[TN, TL]) AdvanceRawPtr(code *position.Code, index stream.RawPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	return concatConsume(c.productions(), index, func(p packrat.IProduction[TN, TL], idx stream.RawPtr) (packrat.SuccessData[stream.RawPtr, TN], error) {
		return p.AdvanceRawPtr(code, idx, ts, cache)
	})
}

func (c *Concat[TN, TL]) AdvanceBytePtr(code *position.Code, index int, cache packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	return concatConsume(c.productions(), index, func(p packrat.IProduction[TN, TL], idx int) (packrat.SuccessData[int, TN], error) {
		return p.AdvanceBytePtr(code, idx, cache)
	})
}

// concatConsume runs productions in order over index, threading the
// consumed index from each into the next and flattening children.
func concatConsume[T any, TN packrat.NodeTag, TL token.Tag](productions []packrat.IProduction[TN, TL], index T, parse func(packrat.IProduction[TN, TL], T) (packrat.SuccessData[T, TN], error)) (packrat.SuccessData[T, TN], error) {
	var children []packrat.ASTNode[TN]
	moved := index
	for _, prod := range productions {
		data, err := parse(prod, moved)
		if err != nil {
			var zero packrat.SuccessData[T, TN]
			return zero, err
		}
		moved = data.ConsumedIndex
		children = append(children, data.Children...)
	}
	return packrat.NewSuccessData(moved, children), nil
}
