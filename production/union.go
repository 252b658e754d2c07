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

// Union tries each alternative in order and returns the first that
// succeeds; a Validation error from an alternative propagates immediately
// instead of being tried past (spec.md §4.6).
type Union[TN packrat.NodeTag, TL token.Tag] struct {
	helper  *validate.Helper[TL]
	symbols plog.Cell[[]packrat.IProduction[TN, TL]]
}

// NewUnion builds an empty Union identified by id; SetSymbols must be
// called before it is validated or parsed with.
func NewUnion[TN packrat.NodeTag, TL token.Tag](id string) *Union[TN, TL] {
	return &Union[TN, TL]{helper: validate.NewHelper[TL](id)}
}

// NewUnionWithSymbols builds a Union with its alternatives already
// assigned.
func NewUnionWithSymbols[TN packrat.NodeTag, TL token.Tag](id string, symbols []packrat.IProduction[TN, TL]) *Union[TN, TL] {
	u := NewUnion[TN, TL](id)
	if err := u.SetSymbols(symbols); err != nil {
		panic(err)
	}
	return u
}

// SetSymbols assigns the alternatives to try in order. It is an error to
// call this more than once.
func (u *Union[TN, TL]) SetSymbols(symbols []packrat.IProduction[TN, TL]) error {
	if err := u.symbols.Set(symbols); err != nil {
		return perr.Constructionf("symbols are already set for %s", u.helper.ID)
	}
	return nil
}

// SetLog attaches a debug label to this production.
func (u *Union[TN, TL]) SetLog(label plog.Label) error { return u.helper.AssignDebugger(label) }

func (u *Union[TN, TL]) productions() []packrat.IProduction[TN, TL] {
	syms, ok := u.symbols.Get()
	if !ok {
		panic(fmt.Sprintf("packrat/production: symbols are not set for %s, call SetSymbols before parsing", u.helper.ID))
	}
	return syms
}

func (u *Union[TN, TL]) String() string { return u.helper.ID }

func (u *Union[TN, TL]) IsNullable() bool {
	if v, ok := u.helper.Nullability.Get(); ok {
		return v
	}
	v, err := u.ObtainNullability(make(map[string]int))
	if err != nil {
		panic("packrat/production: nullability error should have been caught in validation: " + err.Error())
	}
	return v
}

func (u *Union[TN, TL]) IsNullableAndHidden() bool {
	return u.helper.NullHidden.GetOrInit(func() bool {
		for _, p := range u.productions() {
			if p.IsNullable() {
				return p.IsNullableAndHidden()
			}
		}
		return false
	})
}

func (u *Union[TN, TL]) ObtainNullability(visited map[string]int) (bool, error) {
	if err := u.helper.ValidateCircularDependency(visited); err != nil {
		return false, err
	}
	if v, ok := u.helper.Nullability.Get(); ok {
		return v, nil
	}
	nullable := false
	for _, p := range u.productions() {
		ok, err := p.ObtainNullability(validate.CloneInts(visited))
		if err != nil {
			return false, err
		}
		if ok {
			nullable = true
			break
		}
	}
	u.helper.Nullability.Set(nullable)
	return nullable, nil
}

func (u *Union[TN, TL]) FirstSet(set map[TL]struct{}) {
	for k := range u.helper.InitFirstSet(func() map[TL]struct{} {
		children := make(map[TL]struct{})
		for _, p := range u.productions() {
			p.FirstSet(children)
		}
		return children
	}) {
		set[k] = struct{}{}
	}
}

func (u *Union[TN, TL]) ImplGrammar(w io.Writer, addedRules map[string]bool) error {
	if addedRules[u.helper.ID] {
		return nil
	}
	addedRules[u.helper.ID] = true
	if _, err := fmt.Fprintf(w, "%s\n", u.helper.ID); err != nil {
		return err
	}
	for i, p := range u.productions() {
		sep := "|"
		if i == 0 {
			sep = ":"
		}
		if _, err := fmt.Fprintf(w, "%6s %s\n", sep, p.String()); err != nil {
			return err
		}
	}
	return nil
}

func (u *Union[TN, TL]) Validate(connected map[string]int, visitedProd map[string]bool) error {
	first, err := u.helper.HasVisited(connected, visitedProd)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}
	if _, ok := u.symbols.Get(); !ok {
		return perr.Implementationf("symbols are not assigned for %q", u.helper.ID)
	}
	for _, p := range u.productions() {
		if err := p.Validate(validate.CloneInts(connected), visitedProd); err != nil {
			return err
		}
	}
	return nil
}

func (u *Union[TN, TL]) AdvanceFilteredPtr(code *position.Code, index stream.FilteredPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	return unionConsume(u.productions(), func(p packrat.IProduction[TN, TL]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
		return p.AdvanceFilteredPtr(code, index, ts, cache)
	})
}

func (u *Union[TN, TL]) AdvanceRawPtr(code *position.Code, index stream.RawPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	return unionConsume(u.productions(), func(p packrat.IProduction[TN, TL]) (packrat.SuccessData[stream.RawPtr, TN], error) {
		return p.AdvanceRawPtr(code, index, ts, cache)
	})
}

func (u *Union[TN, TL]) AdvanceBytePtr(code *position.Code, index int, cache packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	return unionConsume(u.productions(), func(p packrat.IProduction[TN, TL]) (packrat.SuccessData[int, TN], error) {
		return p.AdvanceBytePtr(code, index, cache)
	})
}

// unionConsume tries each production in order and returns the first
// success. A Validation error aborts immediately; an Unparsed error moves
// on to the next alternative.
func unionConsume[T any, TN packrat.NodeTag, TL token.Tag](productions []packrat.IProduction[TN, TL], parse func(packrat.IProduction[TN, TL]) (packrat.SuccessData[T, TN], error)) (packrat.SuccessData[T, TN], error) {
	for _, prod := range productions {
		data, err := parse(prod)
		if err == nil {
			return data, nil
		}
		if perr.IsInvalid(err) {
			var zero packrat.SuccessData[T, TN]
			return zero, err
		}
	}
	var zero packrat.SuccessData[T, TN]
	return zero, perr.Unparsed
}
