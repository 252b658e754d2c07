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

// ValidationFunc inspects a successful match's children (plus the full
// source, for context) and returns a hard *perr.ProductionError (built with
// perr.NewValidation) if the match should be rejected despite parsing
// successfully — semantic checks a pure grammar can't express, such as
// matching XML start/end tag names. Returning anything other than a
// Validation ProductionError would be silently treated as a soft failure by
// every Union/List/SeparatedList/Suffixes ancestor's perr.IsInvalid check,
// so the type itself rules that out.
type ValidationFunc[TN packrat.NodeTag] func(children []packrat.ASTNode[TN], source []byte) *perr.ProductionError

// Validator wraps a production with a semantic check run against every
// successful match's children before the match is accepted.
type Validator[TN packrat.NodeTag, TL token.Tag] struct {
	production   packrat.IProduction[TN, TL]
	validationFn ValidationFunc[TN]
	log          plog.Cell[plog.Label]
}

// NewValidator wraps production, running validationFn against every
// successful match.
func NewValidator[TN packrat.NodeTag, TL token.Tag](production packrat.IProduction[TN, TL], validationFn ValidationFunc[TN]) *Validator[TN, TL] {
	return &Validator[TN, TL]{production: production, validationFn: validationFn}
}

func (v *Validator[TN, TL]) SetLog(label plog.Label) error { return v.log.Set(label) }

func (v *Validator[TN, TL]) String() string { return fmt.Sprintf("{%s}", v.production.String()) }

func (v *Validator[TN, TL]) IsNullable() bool          { return v.production.IsNullable() }
func (v *Validator[TN, TL]) IsNullableAndHidden() bool { return v.production.IsNullableAndHidden() }

func (v *Validator[TN, TL]) ObtainNullability(visited map[string]int) (bool, error) {
	return v.production.ObtainNullability(visited)
}

func (v *Validator[TN, TL]) FirstSet(set map[TL]struct{}) { v.production.FirstSet(set) }

func (v *Validator[TN, TL]) ImplGrammar(w io.Writer, addedRules map[string]bool) error {
	return v.production.ImplGrammar(w, addedRules)
}

func (v *Validator[TN, TL]) Validate(connected map[string]int, visitedProd map[string]bool) error {
	return v.production.Validate(connected, visitedProd)
}

func (v *Validator[TN, TL]) AdvanceFilteredPtr(code *position.Code, index stream.FilteredPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.FilteredPtr, TN], error) {
	data, err := v.production.AdvanceFilteredPtr(code, index, ts, cache)
	if err != nil {
		var zero packrat.SuccessData[stream.FilteredPtr, TN]
		return zero, err
	}
	if verr := v.validationFn(data.Children, code.Value); verr != nil {
		var zero packrat.SuccessData[stream.FilteredPtr, TN]
		return zero, verr
	}
	return data, nil
}

func (v *Validator[TN, TL]) AdvanceRawPtr(code *position.Code, index stream.RawPtr, ts *stream.TokenStream[TL], cache packrat.MemoTable[stream.FilteredPtr, TN]) (packrat.SuccessData[stream.RawPtr, TN], error) {
	data, err := v.production.AdvanceRawPtr(code, index, ts, cache)
	if err != nil {
		var zero packrat.SuccessData[stream.RawPtr, TN]
		return zero, err
	}
	if verr := v.validationFn(data.Children, code.Value); verr != nil {
		var zero packrat.SuccessData[stream.RawPtr, TN]
		return zero, verr
	}
	return data, nil
}

func (v *Validator[TN, TL]) AdvanceBytePtr(code *position.Code, index int, cache packrat.MemoTable[int, TN]) (packrat.SuccessData[int, TN], error) {
	data, err := v.production.AdvanceBytePtr(code, index, cache)
	if err != nil {
		var zero packrat.SuccessData[int, TN]
		return zero, err
	}
	if verr := v.validationFn(data.Children, code.Value); verr != nil {
		var zero packrat.SuccessData[int, TN]
		return zero, verr
	}
	return data, nil
}
